package repository

import (
	"context"
	"database/sql"

	"github.com/Olatundeawo/ordora/internal/entity"
)

type GoodsRepository struct {
	db *sql.DB
}

func NewGoodsRepository(db *sql.DB) *GoodsRepository {
	return &GoodsRepository{db}
}

func (r *GoodsRepository) CreateGoods(ctx context.Context, g *entity.Goods) (*entity.Goods, error) {
	query := `INSERT INTO goods (name, description, price, quantity, producer_id) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, g.Name, g.Description, g.Price, g.Quantity, g.ProducerID)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	g.ID = int(id)
	return g, nil
}

func (r *GoodsRepository) GetGoodsByID(ctx context.Context, id int) (*entity.Goods, error) {
	g := &entity.Goods{}
	query := `SELECT id, name, description, price, quantity, producer_id, created_at, updated_at FROM goods WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.Description, &g.Price, &g.Quantity, &g.ProducerID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return g, nil
}

func (r *GoodsRepository) UpdateGoods(ctx context.Context, g *entity.Goods) (*entity.Goods, error) {
	query := `UPDATE goods SET name = ?, description = ?, price = ?, quantity = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, g.Name, g.Description, g.Price, g.Quantity, g.ID)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *GoodsRepository) DeleteGoods(ctx context.Context, id int) error {
	query := `DELETE FROM goods WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return nil
}

func (r *GoodsRepository) GetGoods(ctx context.Context) ([]*entity.Goods, error) {
	query := `SELECT id, name, description, price, quantity, producer_id, created_at, updated_at FROM goods`
	return r.queryGoods(ctx, query)
}

func (r *GoodsRepository) GetGoodsByProducer(ctx context.Context, producerID int) ([]*entity.Goods, error) {
	query := `SELECT id, name, description, price, quantity, producer_id, created_at, updated_at FROM goods WHERE producer_id = ?`
	return r.queryGoods(ctx, query, producerID)
}

func (r *GoodsRepository) queryGoods(ctx context.Context, query string, args ...interface{}) ([]*entity.Goods, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goods []*entity.Goods
	for rows.Next() {
		var g entity.Goods
		err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.Price, &g.Quantity, &g.ProducerID, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, err
		}
		goods = append(goods, &g)
	}

	return goods, rows.Err()
}
