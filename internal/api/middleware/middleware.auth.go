package middleware

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "shop_commerce/internal/api/auth/models"
	authsvc "shop_commerce/internal/api/auth/service"
	"shop_commerce/internal/common"
	"shop_commerce/internal/logger"
	"shop_commerce/internal/utility"
)

// AuthManager quản lý xác thực người dùng
type AuthManager struct {
	UserCRUD *authsvc.UserService
	Cache    *utility.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		var err error
		authManagerInstance, err = newAuthManager()
		if err != nil {
			panic(err)
		}
	})
	return authManagerInstance
}

// newAuthManager khởi tạo một instance mới của AuthManager (private constructor)
func newAuthManager() (*AuthManager, error) {
	newManager := new(AuthManager)

	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	newManager.UserCRUD = userService

	// Khởi tạo cache với thời gian sống 5 phút và thời gian dọn dẹp 10 phút
	newManager.Cache = utility.NewCache(5*time.Minute, 10*time.Minute)

	return newManager, nil
}

// getUser lấy user từ cache hoặc database theo ID
func (am *AuthManager) getUser(ctx context.Context, userID primitive.ObjectID) (models.User, error) {
	cacheKey := "auth_user:" + userID.Hex()
	if cached, found := am.Cache.Get(cacheKey); found {
		return cached.(models.User), nil
	}

	user, err := am.UserCRUD.FindOneById(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	am.Cache.Set(cacheKey, user)
	return user, nil
}

// AuthMiddleware middleware xác thực cho Fiber.
// Xác thực access token JWT từ header Authorization, load user và lưu vào context.
// Nếu requiredRole khác rỗng, user phải có đúng role đó (admin) mới được truy cập.
func AuthMiddleware(requiredRole string) fiber.Handler {
	// Sử dụng singleton instance của AuthManager
	authManager := GetAuthManager()

	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// Chỉ log khi thiếu token (lỗi quan trọng)
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Xác thực chữ ký và thời hạn của token
		claims, err := authsvc.ParseToken(parts[1])
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Invalid or expired token")
			HandleErrorResponse(c, err)
			return nil
		}

		// Chỉ access token được phép gọi API, refresh token chỉ dùng cho /auth/refresh-token
		if claims.TokenType != models.TokenTypeAccess {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		userID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Load user (qua cache) để kiểm tra trạng thái tài khoản
		user, err := authManager.getUser(c.Context(), userID)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":    c.Path(),
				"user_id": claims.Subject,
				"error":   err.Error(),
			}).Warn("❌ [AUTH] User of token not found")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		if user.IsDeleted || !user.IsActive {
			HandleErrorResponse(c, common.ErrUserBlocked)
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("user_id", user.ID.Hex())
		c.Locals("user", user)

		// Nếu không yêu cầu role cụ thể, cho phép truy cập ngay
		if requiredRole == "" {
			return c.Next()
		}

		if user.Role != requiredRole {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id":       user.ID.Hex(),
				"user_role":     user.Role,
				"required_role": requiredRole,
				"path":          c.Path(),
			}).Warn("❌ [AUTH] User does not have required role")
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuth,
				"Không có quyền truy cập. Vui lòng liên hệ quản trị viên.",
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		return c.Next()
	}
}
