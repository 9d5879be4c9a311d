// Package models - model giỏ hàng (Cart) thuộc domain cart.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem một dòng hàng trong giỏ.
type CartItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Quantity  int64              `json:"quantity" bson:"quantity"`
}

// Cart giỏ hàng của một người dùng. Mỗi user có tối đa một document (unique index trên userId).
// Cùng một sản phẩm chỉ xuất hiện một dòng; thêm trùng sản phẩm sẽ cộng dồn quantity.
type Cart struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId" index:"unique"`
	Items     []CartItem         `json:"items" bson:"items"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// TotalQuantity tổng số lượng sản phẩm trong giỏ.
func (c *Cart) TotalQuantity() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}
