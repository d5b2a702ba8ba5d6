package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WithdrawStatus is the authoritative lifecycle state of a withdraw record.
type WithdrawStatus string

const (
	// WithdrawPendingAuto is the implicit state of a freshly published request.
	WithdrawPendingAuto WithdrawStatus = "PENDING_AUTO"
	// WithdrawWaiting means the order is queued for another dispatch or manual handling.
	WithdrawWaiting WithdrawStatus = "WAITING"
	// WithdrawTransferring means the RPC service accepted the transfer and will
	// settle asynchronously; a withdraw-notify event finalizes it.
	WithdrawTransferring WithdrawStatus = "TRANSFERRING"
	// WithdrawSuccess is terminal. A record never leaves this state.
	WithdrawSuccess WithdrawStatus = "SUCCESS"
	// WithdrawManualReview means the dispatch outcome was ambiguous and a human
	// must adjudicate before funds can be touched again.
	WithdrawManualReview WithdrawStatus = "MANUAL_REVIEW"
)

// Coin is the per-asset configuration, owned by the admin side and read-only here.
type Coin struct {
	ID                uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string          `gorm:"type:varchar(64);not null;unique" json:"name"`            // full name, e.g. Bitcoin
	Unit              string          `gorm:"type:varchar(16);not null;uniqueIndex" json:"unit"`       // ticker, e.g. BTC
	MinRechargeAmount decimal.Decimal `gorm:"type:decimal(32,18);not null;default:0" json:"min_recharge_amount"`
	MinerFee          decimal.Decimal `gorm:"type:decimal(32,18);not null;default:0" json:"miner_fee"`
	CanAutoWithdraw   bool            `gorm:"not null;default:false" json:"can_auto_withdraw"`
	EnableRpc         bool            `gorm:"not null;default:false" json:"enable_rpc"`
	MasterAddress     string          `gorm:"type:varchar(255)" json:"master_address"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// MemberWallet is the per-member per-coin balance row.
// Balance mutations go through row-locked transactions in the wallet service.
type MemberWallet struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID  uint64          `gorm:"not null;uniqueIndex:idx_member_coin" json:"member_id"`
	CoinUnit  string          `gorm:"type:varchar(16);not null;uniqueIndex:idx_member_coin" json:"coin_unit"`
	Address   string          `gorm:"type:varchar(255);not null;index" json:"address"`
	Balance   decimal.Decimal `gorm:"type:decimal(32,18);not null;default:0" json:"balance"`
	Frozen    decimal.Decimal `gorm:"type:decimal(32,18);not null;default:0" json:"frozen"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Deposit is one credited on-chain deposit. The unique index on
// (address, tx_id) is what makes crediting idempotent under redelivery.
type Deposit struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CoinUnit  string          `gorm:"type:varchar(16);not null" json:"coin_unit"`
	Address   string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_address_txid" json:"address"`
	TxID      string          `gorm:"type:varchar(128);not null;uniqueIndex:idx_address_txid;column:tx_id" json:"tx_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(32,18);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// WithdrawRecord is a withdrawal order. Status moves only through the guarded
// transitions in the withdraw service, never by blind saves.
type WithdrawRecord struct {
	ID        uint64          `gorm:"primaryKey" json:"id"` // withdrawId from the order service
	MemberID  uint64          `gorm:"not null;index" json:"member_id"`
	CoinUnit  string          `gorm:"type:varchar(16);not null" json:"coin_unit"`
	Address   string          `gorm:"type:varchar(255);not null" json:"address"`
	Amount    decimal.Decimal `gorm:"type:decimal(32,18);not null" json:"amount"` // arrive amount
	Fee       decimal.Decimal `gorm:"type:decimal(32,18);not null;default:0" json:"fee"`
	Status    WithdrawStatus  `gorm:"type:varchar(32);not null;index" json:"status"`
	TxID      string          `gorm:"type:varchar(128);column:tx_id" json:"tx_id"` // empty until settled
	Remark    string          `gorm:"type:varchar(255)" json:"remark"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// MemberTransaction is the journal row written alongside every balance mutation.
type MemberTransaction struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID  uint64          `gorm:"not null;index" json:"member_id"`
	CoinUnit  string          `gorm:"type:varchar(16);not null" json:"coin_unit"`
	Amount    decimal.Decimal `gorm:"type:decimal(32,18);not null" json:"amount"`
	Fee       decimal.Decimal `gorm:"type:decimal(32,18);not null;default:0" json:"fee"`
	Type      string          `gorm:"type:varchar(32);not null" json:"type"` // DEPOSIT, WITHDRAW
	RefTxID   string          `gorm:"type:varchar(128);column:ref_tx_id" json:"ref_tx_id"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Coin) TableName() string              { return "coins" }
func (MemberWallet) TableName() string      { return "member_wallets" }
func (Deposit) TableName() string           { return "deposits" }
func (WithdrawRecord) TableName() string    { return "withdraw_records" }
func (MemberTransaction) TableName() string { return "member_transactions" }
