// Package orderdto - các DTO đầu vào của domain order.
package orderdto

// OrderItemInput một dòng hàng trong đơn đặt.
type OrderItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0" max:"1000"`
}

// OrderCreateInput đầu vào tạo đơn hàng trực tiếp từ danh sách dòng hàng.
type OrderCreateInput struct {
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   string           `json:"paymentMethod" validate:"required,oneof=cod bank vnpay"`
	ShippingAddress string           `json:"shippingAddress" validate:"required,no_xss" maxLength:"500"`
	Note            string           `json:"note" validate:"omitempty,no_xss" maxLength:"1000"`
}

// OrderCheckoutInput đầu vào tạo đơn hàng từ giỏ hàng hiện tại của user.
type OrderCheckoutInput struct {
	PaymentMethod   string `json:"paymentMethod" validate:"required,oneof=cod bank vnpay"`
	ShippingAddress string `json:"shippingAddress" validate:"required,no_xss" maxLength:"500"`
	Note            string `json:"note" validate:"omitempty,no_xss" maxLength:"1000"`
}

// OrderStatusInput đầu vào chuyển trạng thái đơn hàng.
type OrderStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending paid shipped completed cancelled"`
}
