// Package orderhdl - các Fiber handler thuộc domain order.
package orderhdl

import (
	"fmt"

	basehdl "shop_commerce/internal/api/base/handler"
	authmodels "shop_commerce/internal/api/auth/models"
	authsvc "shop_commerce/internal/api/auth/service"
	orderdto "shop_commerce/internal/api/order/dto"
	models "shop_commerce/internal/api/order/models"
	ordersvc "shop_commerce/internal/api/order/service"
	"shop_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderHandler xử lý các request đơn hàng
type OrderHandler struct {
	*basehdl.BaseHandler[models.Order, orderdto.OrderCreateInput, orderdto.OrderStatusInput]
	orderService *ordersvc.OrderService
}

// NewOrderHandler tạo instance mới của OrderHandler
func NewOrderHandler() (*OrderHandler, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	orderService, err := ordersvc.NewOrderService(userService)
	if err != nil {
		return nil, fmt.Errorf("failed to create order service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Order, orderdto.OrderCreateInput, orderdto.OrderStatusInput](orderService)
	return &OrderHandler{
		BaseHandler:  baseHandler,
		orderService: orderService,
	}, nil
}

// HandleCreate tạo đơn hàng từ danh sách dòng hàng gửi lên
func (h *OrderHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.requireUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input orderdto.OrderCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		order, err := h.orderService.CreateOrder(c.Context(), userID, &input)
		h.HandleResponse(c, order, err)
		return nil
	})
}

// HandleCheckout tạo đơn hàng từ giỏ hàng hiện tại của user
func (h *OrderHandler) HandleCheckout(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.requireUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input orderdto.OrderCheckoutInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		order, err := h.orderService.CheckoutFromCart(c.Context(), userID, &input)
		h.HandleResponse(c, order, err)
		return nil
	})
}

// HandleListOwn trả về danh sách đơn hàng của user hiện tại, có phân trang
func (h *OrderHandler) HandleListOwn(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.requireUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)
		result, err := h.orderService.ListByUser(c.Context(), userID, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleGetById trả về chi tiết một đơn hàng.
// Chỉ chủ đơn hoặc admin được xem.
func (h *OrderHandler) HandleGetById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.requireUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		orderID, err := h.parseIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		order, err := h.orderService.FindByID(c.Context(), orderID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if order.UserID != userID && !h.isAdmin(c) {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeAuth, "Bạn không có quyền xem đơn hàng này", common.StatusForbidden, nil))
			return nil
		}
		h.HandleResponse(c, order, nil)
		return nil
	})
}

// HandleUpdateStatus chuyển trạng thái đơn hàng (admin)
func (h *OrderHandler) HandleUpdateStatus(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orderID, err := h.parseIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input orderdto.OrderStatusInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		order, err := h.orderService.UpdateStatus(c.Context(), orderID, input.Status)
		h.HandleResponse(c, order, err)
		return nil
	})
}

// HandleDelete xóa mềm đơn hàng (admin)
func (h *OrderHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orderID, err := h.parseIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.orderService.Delete(c.Context(), orderID)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// parseIDParam parse param :id thành ObjectID
func (h *OrderHandler) parseIDParam(c fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "ID không đúng định dạng ObjectID", common.StatusBadRequest, err)
	}
	return id, nil
}

// requireUserID lấy ObjectID của user đang đăng nhập từ context (do AuthMiddleware set)
func (h *OrderHandler) requireUserID(c fiber.Ctx) (primitive.ObjectID, error) {
	userID := c.Locals("user_id")
	if userID == nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeAuth, "User not authenticated", common.StatusUnauthorized, nil)
	}
	objID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "Invalid user ID", common.StatusBadRequest, err)
	}
	return objID, nil
}

// isAdmin kiểm tra user trong context có role admin không
func (h *OrderHandler) isAdmin(c fiber.Ctx) bool {
	user, ok := c.Locals("user").(authmodels.User)
	if !ok {
		return false
	}
	return user.Role == authmodels.RoleAdmin
}
