package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settle-core/internal/model"
	"settle-core/pkg/cache"
)

func TestCoinService_ReadThroughCache(t *testing.T) {
	db := newTestDB(t, &model.Coin{})
	require.NoError(t, db.Create(&model.Coin{
		Name: "Bitcoin", Unit: "BTC", CanAutoWithdraw: true, EnableRpc: true,
	}).Error)
	svc := NewCoinService(db, cache.NewMemoryCache(time.Minute, time.Minute))
	ctx := context.Background()

	coin, err := svc.FindByUnit(ctx, "BTC")
	require.NoError(t, err)
	require.NotNil(t, coin)
	assert.Equal(t, "Bitcoin", coin.Name)

	// second lookup is served from cache: removing the row must not matter
	require.NoError(t, db.Delete(&model.Coin{}, coin.ID).Error)
	coin, err = svc.FindByUnit(ctx, "BTC")
	require.NoError(t, err)
	require.NotNil(t, coin)
	assert.Equal(t, "Bitcoin", coin.Name)
}

func TestCoinService_UnknownCoinIsNilNil(t *testing.T) {
	db := newTestDB(t, &model.Coin{})
	svc := NewCoinService(db, cache.NewMemoryCache(time.Minute, time.Minute))

	coin, err := svc.FindByName(context.Background(), "Dogecoin")
	require.NoError(t, err)
	assert.Nil(t, coin)
}

func TestCoinService_CorruptCacheEntryFallsThrough(t *testing.T) {
	db := newTestDB(t, &model.Coin{})
	require.NoError(t, db.Create(&model.Coin{Name: "Ethereum", Unit: "ETH"}).Error)
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	require.NoError(t, c.Set(context.Background(), "coin:unit:ETH", "garbage", time.Minute))
	svc := NewCoinService(db, c)

	coin, err := svc.FindByUnit(context.Background(), "ETH")
	require.NoError(t, err)
	require.NotNil(t, coin)
	assert.Equal(t, "Ethereum", coin.Name)
}

func TestCoinService_NoCacheStillReads(t *testing.T) {
	db := newTestDB(t, &model.Coin{})
	require.NoError(t, db.Create(&model.Coin{Name: "Litecoin", Unit: "LTC"}).Error)
	svc := NewCoinService(db, nil)

	coin, err := svc.FindByUnit(context.Background(), "LTC")
	require.NoError(t, err)
	require.NotNil(t, coin)
}
