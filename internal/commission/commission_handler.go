package commission

import (
	"encoding/json"
	"net/http"
	"time"

	"go-salon/internal/shared/apperror"
	"go-salon/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) finishIdempotent(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	if lk := c.GetString("idempotency_lock_key"); lk != "" {
		defer h.rdb.Del(c.Request.Context(), lk)
	}
	if ck := c.GetString("idempotency_cache_key"); ck != "" {
		if payload, err := json.Marshal(resp); err == nil {
			_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
		}
	}
}

// IngestSale computes and persists commissions for an already-captured
// sale. Kept for back-office corrections; the normal path is the
// sale.completed consumer.
func (h *Handler) IngestSale(c *gin.Context) {
	businessID := c.GetString("business_id")
	actorID := c.GetString("user_id")

	var req IngestSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.IngestSale(c.Request.Context(), businessID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.finishIdempotent(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	businessID := c.GetString("business_id")

	var filter CommissionQueryFilter
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

func (h *Handler) Approve(c *gin.Context) {
	businessID := c.GetString("business_id")
	actorID := c.GetString("user_id")
	targetID := c.Param("id")

	resp, err := h.service.Approve(c.Request.Context(), businessID, actorID, targetID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	businessID := c.GetString("business_id")
	actorID := c.GetString("user_id")
	targetID := c.Param("id")

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.MarkPaid(c.Request.Context(), businessID, actorID, targetID, req)
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

	var req CancelRequest
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

func (h *Handler) ApplyExceptionalEvent(c *gin.Context) {
	businessID := c.GetString("business_id")
	actorID := c.GetString("user_id")
	targetID := c.Param("id")

	var req ExceptionalEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ApplyExceptionalEvent(c.Request.Context(), businessID, actorID, targetID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
