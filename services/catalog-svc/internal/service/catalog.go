// Package service implements the catalog engine: goods_list and
// goods_detail, grounded on goods_server/src/handlers/rest.rs.
package service

import (
	"context"

	"ecomfleet/services/catalog-svc/internal/repository"
)

// GoodsSummary mirrors the REST response item shape.
type GoodsSummary struct {
	ID         int32  `json:"id"`
	GoodsName  string `json:"goods_name"`
	GoodsImage string `json:"goods_image"`
}

// GoodsDetail mirrors the REST detail response shape.
type GoodsDetail struct {
	ID             int32  `json:"id"`
	GoodsName      string `json:"goods_name"`
	GoodsImage     string `json:"goods_image"`
	UnitPrice      int32  `json:"unit_price"`
	GoodsDes       string `json:"goods_des"`
	InventoryCount int32  `json:"inventory_count"`
}

// GoodsStore is the persistence surface the catalog engine needs.
type GoodsStore interface {
	ListSummaries(ctx context.Context, page, pageSize int64) ([]repository.Summary, error)
	GetDetail(ctx context.Context, goodsID int32) (*repository.Detail, error)
}

// Catalog implements goods_list/goods_detail over a GoodsStore.
type Catalog struct {
	goods GoodsStore
}

// New builds a Catalog engine.
func New(goods GoodsStore) *Catalog {
	return &Catalog{goods: goods}
}

// List returns a page of goods summaries.
func (c *Catalog) List(ctx context.Context, page, pageSize int64) ([]GoodsSummary, error) {
	rows, err := c.goods.ListSummaries(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	out := make([]GoodsSummary, len(rows))
	for i, r := range rows {
		out[i] = GoodsSummary{ID: r.ID, GoodsName: r.Name, GoodsImage: r.Image}
	}
	return out, nil
}

// Detail returns a single goods row.
func (c *Catalog) Detail(ctx context.Context, goodsID int32) (*GoodsDetail, error) {
	d, err := c.goods.GetDetail(ctx, goodsID)
	if err != nil {
		return nil, err
	}
	return &GoodsDetail{
		ID:             d.ID,
		GoodsName:      d.Name,
		GoodsImage:     d.Image,
		UnitPrice:      d.UnitPrice,
		GoodsDes:       d.Description,
		InventoryCount: d.InventoryCount,
	}, nil
}
