// Package router đăng ký các route thuộc domain cart.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	carthdl "shop_commerce/internal/api/cart/handler"
	"shop_commerce/internal/api/middleware"
	apirouter "shop_commerce/internal/api/router"
)

// Register đăng ký tất cả route cart lên v1. Mọi route giỏ hàng đều cần đăng nhập;
// :userId phải trùng với user đang đăng nhập, trừ khi caller là admin.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	cartHandler, err := carthdl.NewCartHandler()
	if err != nil {
		return fmt.Errorf("failed to create cart handler: %w", err)
	}

	authOnlyMiddleware := middleware.AuthMiddleware("")
	apirouter.RegisterRouteWithMiddleware(v1, "/cart", "GET", "/:userId", []fiber.Handler{authOnlyMiddleware}, cartHandler.HandleGetCart)
	apirouter.RegisterRouteWithMiddleware(v1, "/cart", "POST", "/:userId", []fiber.Handler{authOnlyMiddleware}, cartHandler.HandleAddItem)
	apirouter.RegisterRouteWithMiddleware(v1, "/cart", "DELETE", "/:userId/:productId", []fiber.Handler{authOnlyMiddleware}, cartHandler.HandleRemoveItem)
	apirouter.RegisterRouteWithMiddleware(v1, "/cart", "DELETE", "/:userId", []fiber.Handler{authOnlyMiddleware}, cartHandler.HandleClearCart)
	return nil
}
