package handler

import (
	"net/http"
	"strconv"

	"anoa.com/campuseventhub/internal/modules/event/dto"
	eventService "anoa.com/campuseventhub/internal/modules/event/service"
	"anoa.com/campuseventhub/pkg/response"
	"anoa.com/campuseventhub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EventHandler struct {
	service eventService.EventService
}

func NewEventHandler(service eventService.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) Propose(c *gin.Context) {
	profile, err := response.GetProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.CreateEventInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	var poster *dto.PosterFile
	if fileHeader, err := c.FormFile("poster"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read poster"})
			return
		}
		defer file.Close()

		poster = &dto.PosterFile{
			Reader:   file,
			FileName: fileHeader.Filename,
		}
	}

	event, err := h.service.Propose(c.Request.Context(), profile, input, poster)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event submitted for approval.",
		"data":    event,
	})
}

func (h *EventHandler) ListApproved(c *gin.Context) {
	events, err := h.service.ListApproved(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *EventHandler) ListMine(c *gin.Context) {
	profile, err := response.GetProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	events, err := h.service.ListMine(c.Request.Context(), profile)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *EventHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": event})
}

func (h *EventHandler) Update(c *gin.Context) {
	profile, err := response.GetProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var input dto.UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	event, err := h.service.Update(c.Request.Context(), profile, id, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": event})
}

func (h *EventHandler) Delete(c *gin.Context) {
	profile, err := response.GetProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), profile, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted."})
}

func (h *EventHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	docs, err := h.service.Search(query, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": docs})
}
