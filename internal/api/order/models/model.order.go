// Package models - model đơn hàng (Order) thuộc domain order.
package models

import (
	catalogmodels "shop_commerce/internal/api/catalog/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái đơn hàng.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Các phương thức thanh toán.
const (
	PaymentMethodCOD   = "cod"
	PaymentMethodBank  = "bank"
	PaymentMethodVNPay = "vnpay"
)

// orderStatusTransitions định nghĩa máy trạng thái của đơn hàng.
// Trạng thái không có trong map là trạng thái kết thúc.
var orderStatusTransitions = map[string][]string{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusCompleted},
}

// CanTransition kiểm tra có được phép chuyển từ trạng thái from sang to không.
func CanTransition(from, to string) bool {
	for _, allowed := range orderStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValidStatus kiểm tra một chuỗi có phải trạng thái đơn hàng hợp lệ không.
func IsValidStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem một dòng hàng trong đơn. Name, Price và Attributes là snapshot
// tại thời điểm đặt hàng, không đổi khi sản phẩm gốc thay đổi sau này.
type OrderItem struct {
	ProductID  primitive.ObjectID               `json:"productId" bson:"productId"`
	Name       string                           `json:"name" bson:"name"`
	Price      float64                          `json:"price" bson:"price"`
	Quantity   int64                            `json:"quantity" bson:"quantity"`
	Attributes []catalogmodels.ProductAttribute `json:"attributes" bson:"attributes"`
}

// Order định nghĩa mô hình đơn hàng.
type Order struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId" index:"single"`
	Items           []OrderItem        `json:"items" bson:"items"`
	TotalAmount     float64            `json:"totalAmount" bson:"totalAmount"`
	Status          string             `json:"status" bson:"status" index:"single"`
	PaymentMethod   string             `json:"paymentMethod" bson:"paymentMethod"`
	ShippingAddress string             `json:"shippingAddress" bson:"shippingAddress"`
	Note            string             `json:"note,omitempty" bson:"note,omitempty"`
	IsDeleted       bool               `json:"-" bson:"isDeleted"`
	CreatedAt       int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt       int64              `json:"updatedAt" bson:"updatedAt"`
}
