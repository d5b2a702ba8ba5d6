package service

import (
	"context"

	"github.com/shopspring/decimal"

	"settle-core/internal/model"
)

// CoinStore resolves per-asset configuration.
// Lookups return (nil, nil) when the coin is not configured.
type CoinStore interface {
	// FindByName resolves by full asset name (e.g. "Bitcoin").
	FindByName(ctx context.Context, name string) (*model.Coin, error)
	// FindByUnit resolves by ticker (e.g. "BTC").
	FindByUnit(ctx context.Context, unit string) (*model.Coin, error)
}

// LedgerGateway exposes the balance-mutation and duplicate-detection
// primitives used by the deposit consumer.
type LedgerGateway interface {
	// FindDeposit returns the credited deposit for (address, txid),
	// or (nil, nil) if none exists.
	FindDeposit(ctx context.Context, address, txid string) (*model.Deposit, error)

	// Credit atomically increases the member balance and records the deposit
	// keyed by (address, txid). Crediting an already-recorded pair is a no-op.
	Credit(ctx context.Context, coin *model.Coin, address string, amount decimal.Decimal, txid string) error
}

// WithdrawStore owns the withdraw record lifecycle. Every transition is a
// guarded conditional update; a terminal SUCCESS row is never overwritten.
type WithdrawStore interface {
	// FindOne returns the record, or (nil, nil) if absent.
	FindOne(ctx context.Context, id uint64) (*model.WithdrawRecord, error)

	// MarkSuccess finalizes the record with the on-chain txid. Idempotent:
	// marking an already-SUCCESS record succeeds without changes.
	MarkSuccess(ctx context.Context, id uint64, txid string) error

	// MarkTransferring parks the record until the async notification arrives.
	MarkTransferring(ctx context.Context, id uint64) error

	// MarkManualReview routes the record to human adjudication.
	MarkManualReview(ctx context.Context, id uint64) error

	// SetWaiting re-queues the record after an explicit remote failure.
	SetWaiting(ctx context.Context, id uint64) error
}
