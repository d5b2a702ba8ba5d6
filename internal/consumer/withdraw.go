package consumer

import (
	"context"
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"settle-core/internal/model"
	"settle-core/internal/service/mq"
	"settle-core/pkg/logger"
	"settle-core/pkg/monitor"
	"settle-core/pkg/walletrpc"
)

// HandleWithdraw dispatches one withdrawal request to the per-asset RPC
// service. The message key is the coin unit.
//
// This is the highest-risk path in the system: once the RPC call is issued,
// funds may have moved even if the call appears to fail. The dispatch is
// therefore wrapped so that every outcome lands the order in SUCCESS,
// TRANSFERRING or MANUAL_REVIEW; it is never left in its pre-dispatch state
// and never blindly retried.
//
// Always returns nil. Redelivering a withdraw-request after the RPC call was
// issued could pay twice, so the message is committed regardless of outcome.
func (c *FinanceConsumer) HandleWithdraw(msg *mq.Message) error {
	ctx := context.Background()

	if len(msg.Payload) == 0 {
		return nil
	}

	var event WithdrawRequestEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil || event.WithdrawID == 0 {
		// without a withdraw id there is no order to mark; drop and count
		logger.Warn("withdraw event without usable withdrawId",
			zap.String("key", msg.Key), zap.ByteString("payload", msg.Payload))
		monitor.Business.WithdrawDroppedTotal.Inc()
		return nil
	}

	coin, err := c.coins.FindByUnit(ctx, msg.Key)
	if err != nil {
		// lookup failed inside the dispatch boundary: degrade to safety
		logger.Error("withdraw coin lookup failed",
			zap.Uint64("withdrawId", event.WithdrawID), zap.String("coin", msg.Key), zap.Error(err))
		c.forceManualReview(ctx, event.WithdrawID)
		return nil
	}
	if coin == nil || !coin.CanAutoWithdraw || !coin.EnableRpc {
		// not eligible for auto withdraw; manual operators own it
		logger.Info("withdraw not eligible for auto dispatch",
			zap.Uint64("withdrawId", event.WithdrawID), zap.String("coin", msg.Key))
		monitor.Business.WithdrawOutcomeTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	c.dispatch(ctx, coin, &event)
	return nil
}

// dispatch performs the RPC call and the resulting status transition.
func (c *FinanceConsumer) dispatch(ctx context.Context, coin *model.Coin, event *WithdrawRequestEvent) {
	timer := prometheus.NewTimer(monitor.Business.RPCTransferDuration.WithLabelValues(coin.Unit))
	outcome := c.rpc.Transfer(ctx, walletrpc.TransferRequest{
		Unit:       coin.Unit,
		Address:    event.Address,
		Amount:     event.ArriveAmount,
		Fee:        coin.MinerFee,
		Remark:     event.Remark,
		WithdrawID: event.WithdrawID,
	})
	timer.ObserveDuration()

	switch outcome.Kind {
	case walletrpc.OutcomeSuccess:
		if err := c.withdraws.MarkSuccess(ctx, event.WithdrawID, outcome.TxID); err != nil {
			logger.Error("withdraw success transition failed",
				zap.Uint64("withdrawId", event.WithdrawID),
				zap.String("txid", outcome.TxID), zap.Error(err))
			c.forceManualReview(ctx, event.WithdrawID)
			return
		}
		logger.Info("withdraw settled synchronously",
			zap.Uint64("withdrawId", event.WithdrawID), zap.String("txid", outcome.TxID))
		monitor.Business.WithdrawOutcomeTotal.WithLabelValues("success").Inc()

	case walletrpc.OutcomeAsync:
		if err := c.withdraws.MarkTransferring(ctx, event.WithdrawID); err != nil {
			logger.Error("withdraw transferring transition failed",
				zap.Uint64("withdrawId", event.WithdrawID), zap.Error(err))
			c.forceManualReview(ctx, event.WithdrawID)
			return
		}
		logger.Info("withdraw transferring, awaiting notification",
			zap.Uint64("withdrawId", event.WithdrawID))
		monitor.Business.WithdrawOutcomeTotal.WithLabelValues("transferring").Inc()

	default:
		logger.Warn("withdraw dispatch failed, routing to manual review",
			zap.Uint64("withdrawId", event.WithdrawID), zap.String("reason", outcome.Reason))
		c.forceManualReview(ctx, event.WithdrawID)
	}
}

// forceManualReview is the fail-safe branch. If even this transition fails
// the order is stranded in the store; that is logged at error level for the
// operator rather than retried, because the event may already have moved
// funds.
func (c *FinanceConsumer) forceManualReview(ctx context.Context, withdrawID uint64) {
	monitor.Business.WithdrawOutcomeTotal.WithLabelValues("manual_review").Inc()
	if err := c.withdraws.MarkManualReview(ctx, withdrawID); err != nil {
		logger.Error("manual review transition failed, order needs operator attention",
			zap.Uint64("withdrawId", withdrawID), zap.Error(err))
	}
}
