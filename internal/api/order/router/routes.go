// Package router đăng ký các route thuộc domain order.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"shop_commerce/internal/api/middleware"
	orderhdl "shop_commerce/internal/api/order/handler"
	apirouter "shop_commerce/internal/api/router"
)

// Register đăng ký tất cả route order lên v1.
// User đăng nhập tạo và xem đơn của mình, admin chuyển trạng thái và xóa.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	orderHandler, err := orderhdl.NewOrderHandler()
	if err != nil {
		return fmt.Errorf("failed to create order handler: %w", err)
	}

	authOnlyMiddleware := middleware.AuthMiddleware("")
	apirouter.RegisterRouteWithMiddleware(v1, "/orders", "POST", "/", []fiber.Handler{authOnlyMiddleware}, orderHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(v1, "/orders", "POST", "/checkout", []fiber.Handler{authOnlyMiddleware}, orderHandler.HandleCheckout)
	apirouter.RegisterRouteWithMiddleware(v1, "/orders", "GET", "/", []fiber.Handler{authOnlyMiddleware}, orderHandler.HandleListOwn)
	apirouter.RegisterRouteWithMiddleware(v1, "/orders", "GET", "/:id", []fiber.Handler{authOnlyMiddleware}, orderHandler.HandleGetById)

	adminMiddleware := middleware.AuthMiddleware("admin")
	apirouter.RegisterRouteWithMiddleware(v1, "/orders", "PATCH", "/:id/status", []fiber.Handler{adminMiddleware}, orderHandler.HandleUpdateStatus)
	apirouter.RegisterRouteWithMiddleware(v1, "/orders", "DELETE", "/:id", []fiber.Handler{adminMiddleware}, orderHandler.HandleDelete)

	// Route quản trị: admin tra cứu toàn bộ đơn hàng qua bộ lọc chung
	r.RegisterCRUDRoutes(v1, "/admin/orders", orderHandler, apirouter.ReadOnlyConfig, "admin")
	return nil
}
