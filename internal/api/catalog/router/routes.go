// Package router đăng ký các route thuộc domain catalog: Category, Product.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	cataloghdl "shop_commerce/internal/api/catalog/handler"
	"shop_commerce/internal/api/middleware"
	apirouter "shop_commerce/internal/api/router"
)

// Register đăng ký tất cả route catalog lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerCategoryRoutes(v1, r); err != nil {
		return err
	}
	if err := registerProductRoutes(v1, r); err != nil {
		return err
	}
	return nil
}

func registerCategoryRoutes(router fiber.Router, r *apirouter.Router) error {
	categoryHandler, err := cataloghdl.NewCategoryHandler()
	if err != nil {
		return fmt.Errorf("failed to create category handler: %w", err)
	}

	// Tra cứu danh mục là public. Route tĩnh phải đăng ký trước /:id.
	router.Get("/categories", categoryHandler.HandleListActive)
	router.Get("/categories/by-partner/:partnerId", categoryHandler.HandleChildren)
	router.Get("/categories/:id", categoryHandler.HandleGetById)

	// Quản lý danh mục chỉ dành cho admin
	adminMiddleware := middleware.AuthMiddleware("admin")
	apirouter.RegisterRouteWithMiddleware(router, "/categories", "POST", "/", []fiber.Handler{adminMiddleware}, categoryHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(router, "/categories", "POST", "/import", []fiber.Handler{adminMiddleware}, categoryHandler.HandleImport)
	apirouter.RegisterRouteWithMiddleware(router, "/categories", "PATCH", "/:id", []fiber.Handler{adminMiddleware}, categoryHandler.HandleUpdate)
	apirouter.RegisterRouteWithMiddleware(router, "/categories", "DELETE", "/:id", []fiber.Handler{adminMiddleware}, categoryHandler.HandleDelete)
	return nil
}

func registerProductRoutes(router fiber.Router, r *apirouter.Router) error {
	productHandler, err := cataloghdl.NewProductHandler()
	if err != nil {
		return fmt.Errorf("failed to create product handler: %w", err)
	}

	// Tra cứu sản phẩm là public. Route tĩnh phải đăng ký trước /:id.
	router.Get("/products", productHandler.HandleList)
	router.Get("/products/search", productHandler.HandleSearch)
	router.Post("/products/tags", productHandler.HandleByTags)
	router.Get("/products/category/:categoryId", productHandler.HandleByCategory)
	router.Get("/products/:id", productHandler.HandleGetById)

	// Quản lý sản phẩm chỉ dành cho admin
	adminMiddleware := middleware.AuthMiddleware("admin")
	apirouter.RegisterRouteWithMiddleware(router, "/products", "POST", "/", []fiber.Handler{adminMiddleware}, productHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(router, "/products", "PATCH", "/:id", []fiber.Handler{adminMiddleware}, productHandler.HandleUpdate)
	apirouter.RegisterRouteWithMiddleware(router, "/products", "DELETE", "/:id", []fiber.Handler{adminMiddleware}, productHandler.HandleDelete)
	return nil
}
