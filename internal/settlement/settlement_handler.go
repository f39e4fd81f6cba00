package settlement

import (
	"net/http"

	"go-salon/internal/shared/apperror"
	"go-salon/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Generate(c *gin.Context) {
	businessID := c.GetString("business_id")
	actorID := c.GetString("user_id")

	var req GeneratePeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), businessID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Create(c *gin.Context) {
	businessID := c.GetString("business_id")
	actorID := c.GetString("user_id")

	var req CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CreatePeriod(c.Request.Context(), businessID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	businessID := c.GetString("business_id")

	var filter PeriodQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), businessID, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	businessID := c.GetString("business_id")
	targetID := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), businessID, targetID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Close(c *gin.Context) {
	businessID := c.GetString("business_id")
	actorID := c.GetString("user_id")
	targetID := c.Param("id")

	var req ClosePeriodRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	resp, err := h.service.Close(c.Request.Context(), businessID, actorID, targetID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	businessID := c.GetString("business_id")
	actorID := c.GetString("user_id")
	targetID := c.Param("id")

	var req ApprovePeriodRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	resp, err := h.service.Approve(c.Request.Context(), businessID, actorID, targetID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Pay(c *gin.Context) {
	businessID := c.GetString("business_id")
	actorID := c.GetString("user_id")
	targetID := c.Param("id")

	var req PayPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Pay(c.Request.Context(), businessID, actorID, targetID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	businessID := c.GetString("business_id")
	actorID := c.GetString("user_id")
	targetID := c.Param("id")

	var req CancelPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), businessID, actorID, targetID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Recalculate(c *gin.Context) {
	businessID := c.GetString("business_id")
	actorID := c.GetString("user_id")
	targetID := c.Param("id")

	resp, err := h.service.Recalculate(c.Request.Context(), businessID, actorID, targetID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
