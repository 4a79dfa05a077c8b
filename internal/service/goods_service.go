package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Olatundeawo/ordora/internal/entity"
)

const goodsCacheTTL = 1 * time.Minute

type GoodsRepo interface {
	CreateGoods(ctx context.Context, g *entity.Goods) (*entity.Goods, error)
	GetGoodsByID(ctx context.Context, id int) (*entity.Goods, error)
	UpdateGoods(ctx context.Context, g *entity.Goods) (*entity.Goods, error)
	DeleteGoods(ctx context.Context, id int) error
	GetGoods(ctx context.Context) ([]*entity.Goods, error)
	GetGoodsByProducer(ctx context.Context, producerID int) ([]*entity.Goods, error)
}

type GoodsService struct {
	repo GoodsRepo
	rdb  *redis.Client
}

// NewGoodsService creates a new instance of GoodsService.
func NewGoodsService(repo GoodsRepo, rdb *redis.Client) *GoodsService {
	return &GoodsService{repo: repo, rdb: rdb}
}

func (s *GoodsService) Create(ctx context.Context, producerID int, g *entity.Goods) (*entity.Goods, error) {
	if g.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if g.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if g.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}

	g.ProducerID = producerID
	created, err := s.repo.CreateGoods(ctx, g)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating goods")
		return nil, err
	}

	return created, nil
}

// Get reads a single goods row, serving from the Redis cache when present.
func (s *GoodsService) Get(ctx context.Context, id int) (*entity.Goods, error) {
	key := goodsKey(id)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting goods %d from cache", id)
		}
		if cached != "" {
			var g entity.Goods
			if err := json.Unmarshal([]byte(cached), &g); err == nil {
				return &g, nil
			}
		}
	}

	g, err := s.repo.GetGoodsByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: goods %d", ErrNotFound, id)
		}
		logger.Error().Err(err).Msgf("Error getting goods by ID %d", id)
		return nil, err
	}

	s.cache(ctx, g)
	return g, nil
}

func (s *GoodsService) Update(ctx context.Context, userID int, g *entity.Goods) (*entity.Goods, error) {
	existing, err := s.repo.GetGoodsByID(ctx, g.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: goods %d", ErrNotFound, g.ID)
		}
		return nil, err
	}
	if existing.ProducerID != userID {
		return nil, fmt.Errorf("%w: you can only update your own goods", ErrForbidden)
	}
	if g.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	updated, err := s.repo.UpdateGoods(ctx, g)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating goods %d", g.ID)
		return nil, err
	}
	updated.ProducerID = existing.ProducerID

	s.cache(ctx, updated)
	return updated, nil
}

func (s *GoodsService) Delete(ctx context.Context, userID, id int) error {
	existing, err := s.repo.GetGoodsByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: goods %d", ErrNotFound, id)
		}
		return err
	}
	if existing.ProducerID != userID {
		return fmt.Errorf("%w: you can delete only goods you created", ErrForbidden)
	}

	if err := s.repo.DeleteGoods(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting goods %d", id)
		return err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, goodsKey(id)).Err(); err != nil {
			logger.Error().Err(err).Msgf("Error deleting goods %d from cache", id)
		}
	}
	return nil
}

func (s *GoodsService) List(ctx context.Context) ([]*entity.Goods, error) {
	goods, err := s.repo.GetGoods(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing goods")
		return nil, err
	}
	return goods, nil
}

func (s *GoodsService) ListByProducer(ctx context.Context, producerID int) ([]*entity.Goods, error) {
	goods, err := s.repo.GetGoodsByProducer(ctx, producerID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing goods for producer %d", producerID)
		return nil, err
	}
	return goods, nil
}

// RefreshCache re-reads a goods row and overwrites its cache entry. The
// order-event consumer calls this after fulfillment changed stock.
func (s *GoodsService) RefreshCache(ctx context.Context, id int) error {
	g, err := s.repo.GetGoodsByID(ctx, id)
	if err != nil {
		return err
	}
	s.cache(ctx, g)
	return nil
}

func (s *GoodsService) cache(ctx context.Context, g *entity.Goods) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, goodsKey(g.ID), raw, goodsCacheTTL).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error setting goods %d in cache", g.ID)
	}
}

func goodsKey(id int) string {
	return fmt.Sprintf("goods:%d", id)
}
