package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/finprodb/shop-api/internal/domains/carts/ports"
)

type CartItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type AddItemRequest struct {
	ProductID *int64 `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"min=1"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=1"`
}

func FromLine(line ports.Line) CartItem {
	out := CartItem{Subtotal: line.Subtotal()}
	if line.Item != nil {
		out.ID = line.Item.ID
		out.ProductID = line.Item.ProductID
		out.Quantity = line.Item.Quantity
	}
	if line.Product != nil {
		out.ProductName = line.Product.Name
		out.Price = line.Product.Price
	}
	return out
}

func FromLines(lines []ports.Line) []CartItem {
	out := make([]CartItem, 0, len(lines))
	for _, line := range lines {
		out = append(out, FromLine(line))
	}
	return out
}
