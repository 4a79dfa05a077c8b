package repository

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Olatundeawo/ordora/internal/entity"
)

func TestOrderTotal(t *testing.T) {
	prices := map[int]decimal.Decimal{
		1: decimal.RequireFromString("100.00"),
		2: decimal.RequireFromString("50.00"),
	}
	items := []entity.OrderItemRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}

	total, err := orderTotal(prices, items)
	if err != nil {
		t.Fatalf("orderTotal error: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("250.00")) {
		t.Fatalf("total = %s, want 250.00", total)
	}
}

func TestOrderTotal_FractionalPrices(t *testing.T) {
	prices := map[int]decimal.Decimal{
		1: decimal.RequireFromString("19.99"),
	}
	items := []entity.OrderItemRequest{{ProductID: 1, Quantity: 3}}

	total, err := orderTotal(prices, items)
	if err != nil {
		t.Fatalf("orderTotal error: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("59.97")) {
		t.Fatalf("total = %s, want 59.97", total)
	}
}

func TestOrderTotal_UnknownProduct(t *testing.T) {
	prices := map[int]decimal.Decimal{1: decimal.NewFromInt(10)}
	items := []entity.OrderItemRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	}

	_, err := orderTotal(prices, items)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
}
