package handler

import (
	"net/http"

	"github.com/Rhzslya/sinari-server-sub000/internal/apierror"
	"github.com/Rhzslya/sinari-server-sub000/internal/dto"
	"github.com/Rhzslya/sinari-server-sub000/internal/middleware"
	"github.com/Rhzslya/sinari-server-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// ServicesHandler exposes the repair ticket lifecycle.
type ServicesHandler struct{ svc service.TicketService }

func NewServicesHandler(svc service.TicketService) *ServicesHandler {
	return &ServicesHandler{svc: svc}
}

// Create godoc
// @Summary Open a repair ticket
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateServiceRequest true "Ticket data"
// @Success 201 {object} dto.ServiceResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/services [post]
func (h *ServicesHandler) Create(c *gin.Context) {
	var req dto.CreateServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ServicesHandler) List(c *gin.Context) {
	var filter dto.ServiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServicesHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Update a repair ticket
// @Description Status changes follow the ticket lifecycle; moving to FINISHED notifies the customer when an email is on file.
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Param body body dto.UpdateServiceRequest true "Fields to change"
// @Success 200 {object} dto.ServiceResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/services/{id} [put]
func (h *ServicesHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServicesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListLogs returns the append-only history of a ticket, newest first.
// @Summary List a ticket's service log
// @Tags services
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 200 {array} dto.ServiceLogResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/services/{id}/logs [get]
func (h *ServicesHandler) ListLogs(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListLogs(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
