// Package cartdto - các DTO đầu vào của domain cart.
package cartdto

// CartAddInput đầu vào thêm sản phẩm vào giỏ hàng.
type CartAddInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0" max:"1000"`
}
