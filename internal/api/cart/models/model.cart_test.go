package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTotalQuantity(t *testing.T) {
	empty := &Cart{}
	if got := empty.TotalQuantity(); got != 0 {
		t.Errorf("giỏ rỗng phải có tổng 0, nhận được %d", got)
	}

	cart := &Cart{
		Items: []CartItem{
			{ProductID: primitive.NewObjectID(), Quantity: 2},
			{ProductID: primitive.NewObjectID(), Quantity: 3},
			{ProductID: primitive.NewObjectID(), Quantity: 1},
		},
	}
	if got := cart.TotalQuantity(); got != 6 {
		t.Errorf("TotalQuantity = %d, muốn 6", got)
	}
}
