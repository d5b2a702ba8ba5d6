package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"settle-core/internal/model"
	"settle-core/pkg/cache"
	"settle-core/pkg/logger"
)

const coinCacheTTL = 60 * time.Second

// CoinService reads coin configuration from postgres with a read-through
// cache in front. Config changes land within coinCacheTTL.
type CoinService struct {
	db    *gorm.DB
	cache cache.Cache
}

func NewCoinService(db *gorm.DB, c cache.Cache) *CoinService {
	return &CoinService{db: db, cache: c}
}

func (s *CoinService) FindByName(ctx context.Context, name string) (*model.Coin, error) {
	return s.find(ctx, "coin:name:"+name, "name = ?", name)
}

func (s *CoinService) FindByUnit(ctx context.Context, unit string) (*model.Coin, error) {
	return s.find(ctx, "coin:unit:"+unit, "unit = ?", unit)
}

func (s *CoinService) find(ctx context.Context, cacheKey, query string, arg string) (*model.Coin, error) {
	if s.cache != nil {
		var coin model.Coin
		err := s.cache.Get(ctx, cacheKey, &coin)
		if err == nil {
			return &coin, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// corrupt or unreadable entry, fall through to the DB
			s.cache.Delete(ctx, cacheKey)
		}
	}

	var coin model.Coin
	if err := s.db.WithContext(ctx).Where(query, arg).First(&coin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, &coin, coinCacheTTL); err != nil {
			logger.Warn("coin cache set failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return &coin, nil
}
