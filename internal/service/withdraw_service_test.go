package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"settle-core/internal/model"
	"settle-core/pkg/errno"
)

func newTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, id uint64, status model.WithdrawStatus, txid string) {
	t.Helper()
	require.NoError(t, db.Create(&model.WithdrawRecord{
		ID:       id,
		MemberID: 7,
		CoinUnit: "BTC",
		Address:  "bc1qdest",
		Amount:   decimal.RequireFromString("0.5"),
		Status:   status,
		TxID:     txid,
	}).Error)
}

func fetchOrder(t *testing.T, db *gorm.DB, id uint64) model.WithdrawRecord {
	t.Helper()
	var record model.WithdrawRecord
	require.NoError(t, db.First(&record, id).Error)
	return record
}

func TestWithdrawService_MarkSuccessFinalizes(t *testing.T) {
	db := newTestDB(t, &model.WithdrawRecord{})
	seedOrder(t, db, 1, model.WithdrawTransferring, "")
	svc := NewWithdrawService(db)

	require.NoError(t, svc.MarkSuccess(context.Background(), 1, "0xsettled"))

	record := fetchOrder(t, db, 1)
	assert.Equal(t, model.WithdrawSuccess, record.Status)
	assert.Equal(t, "0xsettled", record.TxID)
}

func TestWithdrawService_MarkSuccessKeepsOriginalTxid(t *testing.T) {
	db := newTestDB(t, &model.WithdrawRecord{})
	seedOrder(t, db, 2, model.WithdrawSuccess, "0xfirst")
	svc := NewWithdrawService(db)

	// duplicate settlement report, the guard must skip the settled row
	require.NoError(t, svc.MarkSuccess(context.Background(), 2, "0xother"))

	record := fetchOrder(t, db, 2)
	assert.Equal(t, model.WithdrawSuccess, record.Status)
	assert.Equal(t, "0xfirst", record.TxID)
}

func TestWithdrawService_MarkSuccessUnknownOrder(t *testing.T) {
	db := newTestDB(t, &model.WithdrawRecord{})
	svc := NewWithdrawService(db)

	err := svc.MarkSuccess(context.Background(), 99, "0xtx")
	assert.ErrorIs(t, err, errno.ErrWithdrawNotFound)
}

func TestWithdrawService_SettledRowNeverLeavesSuccess(t *testing.T) {
	db := newTestDB(t, &model.WithdrawRecord{})
	seedOrder(t, db, 3, model.WithdrawSuccess, "0xdone")
	svc := NewWithdrawService(db)
	ctx := context.Background()

	// late events for a settled order are idempotent no-ops
	require.NoError(t, svc.SetWaiting(ctx, 3))
	require.NoError(t, svc.MarkTransferring(ctx, 3))
	require.NoError(t, svc.MarkManualReview(ctx, 3))

	record := fetchOrder(t, db, 3)
	assert.Equal(t, model.WithdrawSuccess, record.Status)
	assert.Equal(t, "0xdone", record.TxID)
}

func TestWithdrawService_TransitionsMoveLiveRows(t *testing.T) {
	db := newTestDB(t, &model.WithdrawRecord{})
	svc := NewWithdrawService(db)
	ctx := context.Background()

	seedOrder(t, db, 4, model.WithdrawPendingAuto, "")
	require.NoError(t, svc.MarkTransferring(ctx, 4))
	assert.Equal(t, model.WithdrawTransferring, fetchOrder(t, db, 4).Status)

	require.NoError(t, svc.SetWaiting(ctx, 4))
	assert.Equal(t, model.WithdrawWaiting, fetchOrder(t, db, 4).Status)

	require.NoError(t, svc.MarkManualReview(ctx, 4))
	assert.Equal(t, model.WithdrawManualReview, fetchOrder(t, db, 4).Status)
}

func TestWithdrawService_RequeueOnlyFromManualReview(t *testing.T) {
	db := newTestDB(t, &model.WithdrawRecord{})
	svc := NewWithdrawService(db)
	ctx := context.Background()

	seedOrder(t, db, 5, model.WithdrawManualReview, "")
	require.NoError(t, svc.Requeue(ctx, 5))
	assert.Equal(t, model.WithdrawWaiting, fetchOrder(t, db, 5).Status)

	// a second requeue finds the row already out of MANUAL_REVIEW
	assert.ErrorIs(t, svc.Requeue(ctx, 5), errno.ErrWithdrawNotManual)

	assert.ErrorIs(t, svc.Requeue(ctx, 404), errno.ErrWithdrawNotFound)
}

func TestWithdrawService_ListByStatus(t *testing.T) {
	db := newTestDB(t, &model.WithdrawRecord{})
	svc := NewWithdrawService(db)

	seedOrder(t, db, 10, model.WithdrawManualReview, "")
	seedOrder(t, db, 11, model.WithdrawManualReview, "")
	seedOrder(t, db, 12, model.WithdrawSuccess, "0xtx")

	records, err := svc.ListByStatus(context.Background(), model.WithdrawManualReview, 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
