// Package carthdl - các Fiber handler thuộc domain cart.
package carthdl

import (
	"fmt"

	authmodels "shop_commerce/internal/api/auth/models"
	basehdl "shop_commerce/internal/api/base/handler"
	cartdto "shop_commerce/internal/api/cart/dto"
	cartmodels "shop_commerce/internal/api/cart/models"
	cartsvc "shop_commerce/internal/api/cart/service"
	"shop_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartHandler xử lý các request giỏ hàng theo userId trên path
type CartHandler struct {
	*basehdl.BaseHandler[cartmodels.Cart, cartdto.CartAddInput, cartdto.CartAddInput]
	cartService *cartsvc.CartService
}

// NewCartHandler tạo instance mới của CartHandler
func NewCartHandler() (*CartHandler, error) {
	cartService, err := cartsvc.NewCartService()
	if err != nil {
		return nil, fmt.Errorf("failed to create cart service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[cartmodels.Cart, cartdto.CartAddInput, cartdto.CartAddInput](cartService)
	return &CartHandler{
		BaseHandler: baseHandler,
		cartService: cartService,
	}, nil
}

// HandleGetCart trả về giỏ hàng của user :userId
func (h *CartHandler) HandleGetCart(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.resolveCartUser(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		cart, err := h.cartService.GetCart(c.Context(), userID)
		h.HandleResponse(c, cart, err)
		return nil
	})
}

// HandleAddItem thêm sản phẩm vào giỏ (cộng dồn nếu đã có)
func (h *CartHandler) HandleAddItem(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.resolveCartUser(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input cartdto.CartAddInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		productID, err := primitive.ObjectIDFromHex(input.ProductID)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "productId không đúng định dạng ObjectID", common.StatusBadRequest, err))
			return nil
		}
		cart, err := h.cartService.AddToCart(c.Context(), userID, productID, input.Quantity)
		h.HandleResponse(c, cart, err)
		return nil
	})
}

// HandleRemoveItem gỡ sản phẩm :productId khỏi giỏ của user :userId
func (h *CartHandler) HandleRemoveItem(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.resolveCartUser(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		productIDHex := c.Params("productId")
		if !primitive.IsValidObjectID(productIDHex) {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("productId '%s' không đúng định dạng MongoDB ObjectID (phải là chuỗi hex 24 ký tự)", productIDHex),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}
		productID, _ := primitive.ObjectIDFromHex(productIDHex)
		cart, err := h.cartService.RemoveFromCart(c.Context(), userID, productID)
		h.HandleResponse(c, cart, err)
		return nil
	})
}

// HandleClearCart xóa toàn bộ giỏ hàng của user :userId
func (h *CartHandler) HandleClearCart(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.resolveCartUser(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.cartService.ClearCart(c.Context(), userID)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// resolveCartUser parse :userId từ path và kiểm tra quyền:
// user thường chỉ thao tác giỏ của chính mình, admin thao tác được mọi giỏ.
func (h *CartHandler) resolveCartUser(c fiber.Ctx) (primitive.ObjectID, error) {
	userIDHex := c.Params("userId")
	if !primitive.IsValidObjectID(userIDHex) {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("userId '%s' không đúng định dạng MongoDB ObjectID (phải là chuỗi hex 24 ký tự)", userIDHex),
			common.StatusBadRequest,
			nil,
		)
	}

	authUserID := c.Locals("user_id")
	if authUserID == nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeAuth, "User not authenticated", common.StatusUnauthorized, nil)
	}
	if userIDHex != authUserID.(string) && !h.isAdmin(c) {
		return primitive.NilObjectID, common.NewError(common.ErrCodeAuth, "Bạn không có quyền thao tác giỏ hàng của người dùng khác", common.StatusForbidden, nil)
	}

	objID, _ := primitive.ObjectIDFromHex(userIDHex)
	return objID, nil
}

// isAdmin kiểm tra user hiện tại (do AuthMiddleware set vào Locals) có role admin không
func (h *CartHandler) isAdmin(c fiber.Ctx) bool {
	user, ok := c.Locals("user").(authmodels.User)
	if !ok {
		return false
	}
	return user.Role == authmodels.RoleAdmin
}
