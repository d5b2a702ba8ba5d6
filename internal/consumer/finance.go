package consumer

import (
	"context"

	"settle-core/internal/service"
	"settle-core/internal/service/mq"
	"settle-core/pkg/walletrpc"
)

// Transferer is the slice of the wallet RPC client the dispatcher needs.
type Transferer interface {
	Transfer(ctx context.Context, req walletrpc.TransferRequest) walletrpc.Outcome
}

// FinanceConsumer reconciles on-chain events with the internal ledger:
// deposit crediting, withdrawal dispatch and asynchronous withdrawal
// settlement. It holds no state between events; all decisions re-read the
// stores, which makes the handlers safe under at-least-once delivery.
type FinanceConsumer struct {
	coins     service.CoinStore
	ledger    service.LedgerGateway
	withdraws service.WithdrawStore
	rpc       Transferer
}

func NewFinanceConsumer(coins service.CoinStore, ledger service.LedgerGateway, withdraws service.WithdrawStore, rpc Transferer) *FinanceConsumer {
	return &FinanceConsumer{
		coins:     coins,
		ledger:    ledger,
		withdraws: withdraws,
		rpc:       rpc,
	}
}

// Start subscribes the three finance topics on the given consumer.
func (c *FinanceConsumer) Start(ctx context.Context, consumer mq.Consumer) error {
	if err := consumer.Subscribe(ctx, TopicDeposit, c.HandleDeposit); err != nil {
		return err
	}
	if err := consumer.Subscribe(ctx, TopicWithdrawRequest, c.HandleWithdraw); err != nil {
		return err
	}
	return consumer.Subscribe(ctx, TopicWithdrawNotify, c.HandleWithdrawNotify)
}
