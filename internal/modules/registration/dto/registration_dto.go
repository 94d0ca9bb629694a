package dto

type RegisterInput struct {
	FullName    string `json:"fullname" binding:"required,max=100"`
	RollNumber  string `json:"roll_number" binding:"required,max=30"`
	PhoneNumber string `json:"phone_number" binding:"required,max=20"`
	Department  string `json:"department" binding:"required,max=100"`
}
