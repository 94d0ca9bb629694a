package handler

import (
	"net/http"

	"anoa.com/campuseventhub/internal/modules/registration/dto"
	regService "anoa.com/campuseventhub/internal/modules/registration/service"
	"anoa.com/campuseventhub/pkg/response"
	"anoa.com/campuseventhub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RegistrationHandler struct {
	service regService.RegistrationService
}

func NewRegistrationHandler(service regService.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

func (h *RegistrationHandler) Register(c *gin.Context) {
	profile, err := response.GetProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	reg, err := h.service.Register(c.Request.Context(), profile, eventID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registered for event.",
		"data":    reg,
	})
}

func (h *RegistrationHandler) Cancel(c *gin.Context) {
	profile, err := response.GetProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), profile, eventID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registration cancelled."})
}

func (h *RegistrationHandler) MyRegistrations(c *gin.Context) {
	profile, err := response.GetProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	regs, err := h.service.MyRegistrations(c.Request.Context(), profile)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": regs})
}

func (h *RegistrationHandler) Attendees(c *gin.Context) {
	profile, err := response.GetProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	regs, err := h.service.Attendees(c.Request.Context(), profile, eventID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": regs})
}
