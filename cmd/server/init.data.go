package main

import (
	"context"
	"time"

	authsvc "shop_commerce/internal/api/auth/service"
	"shop_commerce/internal/global"
	"shop_commerce/internal/logger"
)

// InitDefaultData khởi tạo dữ liệu mặc định cho hệ thống khi khởi động.
func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tạo tài khoản admin mặc định nếu hệ thống chưa có admin nào
	cfg := global.MongoDB_ServerConfig
	if cfg.AdminUsername != "" && cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		userService, err := authsvc.NewUserService()
		if err != nil {
			log.Fatalf("Failed to initialize user service: %v", err)
		}
		if err := userService.EnsureAdminAccount(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Warnf("Failed to ensure admin account: %v", err)
		} else {
			log.Info("✅ [INIT] Admin account ensured")
		}
	} else {
		log.Info("ADMIN_USERNAME/ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin account init")
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
