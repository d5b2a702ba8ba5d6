package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"settle-core/internal/model"
	"settle-core/pkg/logger"
	"settle-core/pkg/monitor"
	"settle-core/pkg/utils/lock"
)

const creditLockTTL = 5 * time.Minute

// WalletService is the ledger gateway: it owns member balances and the
// deposit records that make crediting idempotent.
type WalletService struct {
	db       *gorm.DB
	distLock lock.DistributedLock
}

func NewWalletService(db *gorm.DB, distLock lock.DistributedLock) *WalletService {
	return &WalletService{db: db, distLock: distLock}
}

func (s *WalletService) FindDeposit(ctx context.Context, address, txid string) (*model.Deposit, error) {
	var deposit model.Deposit
	err := s.db.WithContext(ctx).
		Where("address = ? AND tx_id = ?", address, txid).
		First(&deposit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deposit, nil
}

// Credit increases the member balance and records the deposit in one
// transaction. Three layers keep it exactly-once under redelivery:
// the distributed lock serializes concurrent instances, the unique index on
// (address, tx_id) rejects replays, and the wallet row is locked FOR UPDATE.
func (s *WalletService) Credit(ctx context.Context, coin *model.Coin, address string, amount decimal.Decimal, txid string) error {
	if s.distLock != nil {
		lockKey := fmt.Sprintf("deposit:%s:%s", address, txid)
		locked, err := s.distLock.Acquire(ctx, lockKey, creditLockTTL)
		if err != nil {
			return err
		}
		if !locked {
			// another instance is crediting this deposit right now
			logger.Info("deposit credit already in progress", zap.String("txid", txid))
			return nil
		}
		defer s.distLock.Release(ctx, lockKey)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Record the deposit first. ON CONFLICT DO NOTHING on the
		// (address, tx_id) index turns a replay into RowsAffected == 0.
		deposit := model.Deposit{
			CoinUnit: coin.Unit,
			Address:  address,
			TxID:     txid,
			Amount:   amount,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&deposit)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// already credited by an earlier delivery
			return nil
		}

		// 2. Lock the wallet row and move the balance
		var wallet model.MemberWallet
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("address = ? AND coin_unit = ?", address, coin.Unit).
			First(&wallet).Error
		if err != nil {
			return fmt.Errorf("wallet lookup for address %s: %w", address, err)
		}

		if err := tx.Model(&wallet).
			Update("balance", wallet.Balance.Add(amount)).Error; err != nil {
			return err
		}

		// 3. Journal entry
		journal := model.MemberTransaction{
			MemberID: wallet.MemberID,
			CoinUnit: coin.Unit,
			Amount:   amount,
			Fee:      decimal.Zero,
			Type:     "DEPOSIT",
			RefTxID:  txid,
		}
		return tx.Create(&journal).Error
	})
	if err != nil {
		return err
	}

	monitor.Business.DepositCreditedTotal.WithLabelValues(coin.Unit).Inc()
	return nil
}
