package consumer

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/Olatundeawo/ordora/internal/entity"
	"github.com/Olatundeawo/ordora/internal/service"
)

type fakeGoodsRepo struct {
	refreshed []int
}

func (f *fakeGoodsRepo) CreateGoods(ctx context.Context, g *entity.Goods) (*entity.Goods, error) {
	return g, nil
}

func (f *fakeGoodsRepo) GetGoodsByID(ctx context.Context, id int) (*entity.Goods, error) {
	f.refreshed = append(f.refreshed, id)
	return &entity.Goods{ID: id}, nil
}

func (f *fakeGoodsRepo) UpdateGoods(ctx context.Context, g *entity.Goods) (*entity.Goods, error) {
	return g, nil
}

func (f *fakeGoodsRepo) DeleteGoods(ctx context.Context, id int) error { return nil }

func (f *fakeGoodsRepo) GetGoods(ctx context.Context) ([]*entity.Goods, error) { return nil, nil }

func (f *fakeGoodsRepo) GetGoodsByProducer(ctx context.Context, producerID int) ([]*entity.Goods, error) {
	return nil, sql.ErrNoRows
}

func orderMessage(t *testing.T, key string, order entity.Order) kafka.Message {
	t.Helper()
	value, err := json.Marshal(order)
	if err != nil {
		t.Fatalf("marshal order: %v", err)
	}
	return kafka.Message{Key: []byte(key), Value: value}
}

func TestProcessMessage_RefreshesEachItem(t *testing.T) {
	repo := &fakeGoodsRepo{}
	c := NewConsumer(service.NewGoodsService(repo, nil), nil)

	order := entity.Order{
		ID: 7,
		Items: []entity.OrderItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
	c.processMessage(context.Background(), orderMessage(t, "order.paid.7", order))

	if len(repo.refreshed) != 2 || repo.refreshed[0] != 1 || repo.refreshed[1] != 2 {
		t.Fatalf("refreshed = %v, want [1 2]", repo.refreshed)
	}
}

func TestProcessMessage_SkipsUnknownKeys(t *testing.T) {
	repo := &fakeGoodsRepo{}
	c := NewConsumer(service.NewGoodsService(repo, nil), nil)

	c.processMessage(context.Background(), orderMessage(t, "garbage", entity.Order{ID: 1, Items: []entity.OrderItem{{ProductID: 1}}}))
	c.processMessage(context.Background(), orderMessage(t, "order.deleted.1", entity.Order{ID: 1, Items: []entity.OrderItem{{ProductID: 1}}}))
	c.processMessage(context.Background(), kafka.Message{Key: []byte("order.paid.1"), Value: []byte("not json")})

	if len(repo.refreshed) != 0 {
		t.Fatalf("refreshed = %v, want none", repo.refreshed)
	}
}
