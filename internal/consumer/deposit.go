package consumer

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"settle-core/internal/service/mq"
	"settle-core/pkg/logger"
	"settle-core/pkg/monitor"
)

// HandleDeposit credits one observed deposit. The message key is the full
// coin name. Always returns nil: a deposit event is either credited or
// dropped, never redelivered, so one poison message cannot stall the topic.
// Redelivered duplicates are harmless because crediting is keyed by
// (address, txid).
func (c *FinanceConsumer) HandleDeposit(msg *mq.Message) error {
	ctx := context.Background()

	if len(msg.Payload) == 0 {
		return nil
	}

	var event DepositEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		logger.Warn("deposit event unparseable", zap.String("key", msg.Key), zap.Error(err))
		monitor.Business.DepositSkippedTotal.WithLabelValues("malformed").Inc()
		return nil
	}
	if event.TxID == "" || event.Address == "" {
		monitor.Business.DepositSkippedTotal.WithLabelValues("malformed").Inc()
		return nil
	}

	coin, err := c.coins.FindByName(ctx, msg.Key)
	if err != nil {
		logger.Error("deposit coin lookup failed", zap.String("coin", msg.Key), zap.Error(err))
		monitor.Business.DepositSkippedTotal.WithLabelValues("error").Inc()
		return nil
	}
	if coin == nil {
		logger.Warn("deposit for unknown coin", zap.String("coin", msg.Key))
		monitor.Business.DepositSkippedTotal.WithLabelValues("unknown_coin").Inc()
		return nil
	}

	existing, err := c.ledger.FindDeposit(ctx, event.Address, event.TxID)
	if err != nil {
		logger.Error("deposit duplicate check failed",
			zap.String("txid", event.TxID), zap.Error(err))
		monitor.Business.DepositSkippedTotal.WithLabelValues("error").Inc()
		return nil
	}
	if existing != nil {
		// redelivery, already credited
		monitor.Business.DepositSkippedTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	if event.Amount.LessThan(coin.MinRechargeAmount) {
		logger.Info("deposit below minimum, ignored",
			zap.String("coin", coin.Unit),
			zap.String("amount", event.Amount.String()),
			zap.String("min", coin.MinRechargeAmount.String()))
		monitor.Business.DepositSkippedTotal.WithLabelValues("dust").Inc()
		return nil
	}

	if err := c.ledger.Credit(ctx, coin, event.Address, event.Amount, event.TxID); err != nil {
		logger.Error("deposit credit failed",
			zap.String("coin", coin.Unit),
			zap.String("address", event.Address),
			zap.String("txid", event.TxID),
			zap.Error(err))
		monitor.Business.DepositSkippedTotal.WithLabelValues("error").Inc()
		return nil
	}

	logger.Info("deposit credited",
		zap.String("coin", coin.Unit),
		zap.String("address", event.Address),
		zap.String("amount", event.Amount.String()),
		zap.String("txid", event.TxID))
	return nil
}
