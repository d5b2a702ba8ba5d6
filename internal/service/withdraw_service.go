package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"settle-core/internal/model"
	"settle-core/pkg/errno"
)

// WithdrawService owns withdraw record status transitions. Every write is a
// conditional UPDATE keyed on the current status, so a retried dispatch racing
// a late notification cannot lose updates or resurrect a settled order.
type WithdrawService struct {
	db *gorm.DB
}

func NewWithdrawService(db *gorm.DB) *WithdrawService {
	return &WithdrawService{db: db}
}

func (s *WithdrawService) FindOne(ctx context.Context, id uint64) (*model.WithdrawRecord, error) {
	var record model.WithdrawRecord
	if err := s.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// MarkSuccess finalizes the record. SUCCESS is terminal: the guard skips rows
// that already settled, which makes duplicate notifications harmless.
func (s *WithdrawService) MarkSuccess(ctx context.Context, id uint64, txid string) error {
	res := s.db.WithContext(ctx).
		Model(&model.WithdrawRecord{}).
		Where("id = ? AND status <> ?", id, model.WithdrawSuccess).
		Updates(map[string]interface{}{
			"status": model.WithdrawSuccess,
			"tx_id":  txid,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.verifyTerminal(ctx, id)
	}
	return nil
}

// MarkTransferring parks the record while the remote service settles the
// transfer out-of-band.
func (s *WithdrawService) MarkTransferring(ctx context.Context, id uint64) error {
	return s.transition(ctx, id, model.WithdrawTransferring)
}

// MarkManualReview is the fail-safe transition for any ambiguous dispatch
// outcome.
func (s *WithdrawService) MarkManualReview(ctx context.Context, id uint64) error {
	return s.transition(ctx, id, model.WithdrawManualReview)
}

// SetWaiting re-queues the record after the remote service explicitly
// reported "did not transfer".
func (s *WithdrawService) SetWaiting(ctx context.Context, id uint64) error {
	return s.transition(ctx, id, model.WithdrawWaiting)
}

// transition moves a non-terminal record to status. Rows already in SUCCESS
// are left untouched and the call reports success, matching the idempotent
// no-op the consumers expect for late events.
func (s *WithdrawService) transition(ctx context.Context, id uint64, status model.WithdrawStatus) error {
	res := s.db.WithContext(ctx).
		Model(&model.WithdrawRecord{}).
		Where("id = ? AND status <> ?", id, model.WithdrawSuccess).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.verifyTerminal(ctx, id)
	}
	return nil
}

// verifyTerminal distinguishes "row already settled" (fine) from "row does not
// exist" (caller error) after a guarded update matched nothing.
func (s *WithdrawService) verifyTerminal(ctx context.Context, id uint64) error {
	record, err := s.FindOne(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return errno.ErrWithdrawNotFound
	}
	return nil
}

// ListByStatus feeds the operator tooling.
func (s *WithdrawService) ListByStatus(ctx context.Context, status model.WithdrawStatus, limit int) ([]model.WithdrawRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var records []model.WithdrawRecord
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("updated_at ASC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// Requeue moves a MANUAL_REVIEW record back to WAITING after an operator
// confirmed no funds moved.
func (s *WithdrawService) Requeue(ctx context.Context, id uint64) error {
	res := s.db.WithContext(ctx).
		Model(&model.WithdrawRecord{}).
		Where("id = ? AND status = ?", id, model.WithdrawManualReview).
		Update("status", model.WithdrawWaiting)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		record, err := s.FindOne(ctx, id)
		if err != nil {
			return err
		}
		if record == nil {
			return errno.ErrWithdrawNotFound
		}
		return errno.ErrWithdrawNotManual
	}
	return nil
}
