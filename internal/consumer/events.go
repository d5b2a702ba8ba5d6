package consumer

import "github.com/shopspring/decimal"

// Topics consumed by the settlement core. The upstream ledger/order service
// publishes deposit and withdraw-request; the per-asset RPC services publish
// withdraw-notify for transfers they settled asynchronously.
const (
	TopicDeposit         = "deposit"          // key: full coin name
	TopicWithdrawRequest = "withdraw-request" // key: coin unit
	TopicWithdrawNotify  = "withdraw-notify"
)

// DepositEvent is one observed on-chain deposit.
type DepositEvent struct {
	Amount  decimal.Decimal `json:"amount"`
	TxID    string          `json:"txid"`
	Address string          `json:"address"`
}

// WithdrawRequestEvent asks the core to dispatch a withdrawal.
type WithdrawRequestEvent struct {
	WithdrawID   uint64          `json:"withdrawId"`
	Address      string          `json:"address"`
	ArriveAmount decimal.Decimal `json:"arriveAmount"`
	Remark       string          `json:"remark,omitempty"`
}

// Notification status values on the withdraw-notify topic.
const (
	NotifyStatusFailed  = 0
	NotifyStatusSuccess = 1
)

// WithdrawNotifyEvent is the asynchronous settlement outcome for a
// TRANSFERRING order. Status is a pointer so an absent field is
// distinguishable from an explicit failure report (0).
type WithdrawNotifyEvent struct {
	WithdrawID uint64 `json:"withdrawId"`
	TxID       string `json:"txid"`
	Status     *int   `json:"status"`
}
