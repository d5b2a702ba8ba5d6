package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"settle-core/internal/consumer"
	"settle-core/internal/handler/response"
	"settle-core/internal/model"
	"settle-core/internal/service"
	"settle-core/internal/service/mq"
	"settle-core/pkg/errno"
	"settle-core/pkg/logger"
)

// WithdrawHandler exposes withdraw records to operator tooling. Delayed or
// manually-reviewed withdrawals surface here through the status field.
type WithdrawHandler struct {
	withdraws *service.WithdrawService
	producer  mq.Producer
}

func NewWithdrawHandler(withdraws *service.WithdrawService, producer mq.Producer) *WithdrawHandler {
	return &WithdrawHandler{withdraws: withdraws, producer: producer}
}

// Get returns one withdraw record by id.
// GET /api/v1/withdraws/:id
func (h *WithdrawHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	record, err := h.withdraws.FindOne(c.Request.Context(), id)
	if err != nil {
		response.Error(c, errno.ErrDatabase)
		return
	}
	if record == nil {
		response.Error(c, errno.ErrWithdrawNotFound)
		return
	}
	response.Success(c, record)
}

// List returns withdraw records in a given status, MANUAL_REVIEW by default.
// GET /api/v1/withdraws?status=MANUAL_REVIEW&limit=50
func (h *WithdrawHandler) List(c *gin.Context) {
	status := model.WithdrawStatus(c.DefaultQuery("status", string(model.WithdrawManualReview)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.withdraws.ListByStatus(c.Request.Context(), status, limit)
	if err != nil {
		response.Error(c, errno.ErrDatabase)
		return
	}
	response.Success(c, gin.H{"items": records, "count": len(records)})
}

// Requeue moves a MANUAL_REVIEW record back to WAITING after an operator
// verified no funds moved, then re-publishes the withdraw request so the
// dispatcher picks it up again.
// POST /api/v1/withdraws/:id/requeue
func (h *WithdrawHandler) Requeue(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	record, err := h.withdraws.FindOne(c.Request.Context(), id)
	if err != nil {
		response.Error(c, errno.ErrDatabase)
		return
	}
	if record == nil {
		response.Error(c, errno.ErrWithdrawNotFound)
		return
	}

	if err := h.withdraws.Requeue(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	if h.producer != nil {
		payload, _ := json.Marshal(consumer.WithdrawRequestEvent{
			WithdrawID:   record.ID,
			Address:      record.Address,
			ArriveAmount: record.Amount,
			Remark:       record.Remark,
		})
		if err := h.producer.Publish(c.Request.Context(), consumer.TopicWithdrawRequest, record.CoinUnit, payload); err != nil {
			// the record already moved to WAITING; the operator can retry
			// the publish, so report but do not roll back
			logger.Error("requeue publish failed", zap.Uint64("withdrawId", id), zap.Error(err))
		}
	}

	response.Success(c, gin.H{"id": id, "status": model.WithdrawWaiting})
}
