package consumer

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"settle-core/internal/service/mq"
	"settle-core/pkg/logger"
	"settle-core/pkg/monitor"
)

// HandleWithdrawNotify finalizes a withdrawal the RPC service settled
// out-of-band. Unlike the dispatcher this handler performs no RPC call, so
// returning an error on store failures is safe: the broker redelivers and
// the guarded transitions absorb the duplicate.
func (c *FinanceConsumer) HandleWithdrawNotify(msg *mq.Message) error {
	ctx := context.Background()

	if len(msg.Payload) == 0 {
		return nil
	}

	var event WithdrawNotifyEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil || event.WithdrawID == 0 {
		logger.Warn("withdraw notification unparseable", zap.ByteString("payload", msg.Payload))
		return nil
	}

	record, err := c.withdraws.FindOne(ctx, event.WithdrawID)
	if err != nil {
		return err
	}
	if record == nil {
		// nothing to reconcile
		logger.Warn("withdraw notification for unknown order",
			zap.Uint64("withdrawId", event.WithdrawID))
		monitor.Business.WithdrawNotifyTotal.WithLabelValues("ignored").Inc()
		return nil
	}

	switch {
	case event.Status == nil:
		// only an explicit status 0 means "did not transfer"; a payload
		// without the field must not re-queue a TRANSFERRING order
		logger.Warn("withdraw notification missing status",
			zap.Uint64("withdrawId", event.WithdrawID))
		monitor.Business.WithdrawNotifyTotal.WithLabelValues("ignored").Inc()

	case *event.Status == NotifyStatusFailed:
		// the remote service explicitly reported "did not transfer" -
		// a known outcome, so the order re-queues instead of going to
		// manual review
		if err := c.withdraws.SetWaiting(ctx, event.WithdrawID); err != nil {
			return err
		}
		logger.Info("withdraw transfer failed remotely, re-queued",
			zap.Uint64("withdrawId", event.WithdrawID))
		monitor.Business.WithdrawNotifyTotal.WithLabelValues("failed").Inc()

	case *event.Status == NotifyStatusSuccess:
		// idempotent: a duplicate success notification for an already
		// settled order changes nothing
		if err := c.withdraws.MarkSuccess(ctx, event.WithdrawID, event.TxID); err != nil {
			return err
		}
		logger.Info("withdraw settled by notification",
			zap.Uint64("withdrawId", event.WithdrawID), zap.String("txid", event.TxID))
		monitor.Business.WithdrawNotifyTotal.WithLabelValues("success").Inc()

	default:
		logger.Warn("withdraw notification with unrecognized status",
			zap.Uint64("withdrawId", event.WithdrawID), zap.Int("status", *event.Status))
		monitor.Business.WithdrawNotifyTotal.WithLabelValues("ignored").Inc()
	}

	return nil
}
