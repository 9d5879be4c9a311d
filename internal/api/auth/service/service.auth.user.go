// Package authsvc - service người dùng (User).
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	authdto "shop_commerce/internal/api/auth/dto"
	models "shop_commerce/internal/api/auth/models"
	basesvc "shop_commerce/internal/api/base/service"
	"shop_commerce/internal/common"
	"shop_commerce/internal/global"
	"shop_commerce/internal/logger"
	"shop_commerce/internal/utility"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// maxLoginAttempts số lần đăng nhập sai tối đa trước khi khóa tạm thời
	maxLoginAttempts = 5
	// lockDuration thời gian khóa tài khoản khi vượt quá số lần đăng nhập sai
	lockDuration = 2 * time.Hour
	// bcryptCost cost của bcrypt khi hash mật khẩu
	bcryptCost = 10
	// maxRefreshTokens số refresh token (phiên đăng nhập) tối đa lưu cho một user
	maxRefreshTokens = 5
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}

	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
	}, nil
}

// Register đăng ký tài khoản mới với role mặc định là user.
// Username và email được kiểm tra trùng trong số các tài khoản chưa xóa trước khi insert.
func (s *UserService) Register(ctx context.Context, input *authdto.UserRegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Kiểm tra trùng username hoặc email
	existing, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{
		"isDeleted": false,
		"$or": []bson.M{
			{"username": input.Username},
			{"email": email},
		},
	}, nil)
	if err == nil {
		if existing.Email == email {
			return nil, common.ErrEmailRegistered
		}
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Tên đăng nhập đã được sử dụng", common.StatusConflict, nil)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể mã hóa mật khẩu", common.StatusInternalServerError, err)
	}

	user := models.User{
		Username:      input.Username,
		Email:         email,
		Password:      string(hashed),
		FullName:      input.FullName,
		Phone:         input.Phone,
		Role:          models.RoleUser,
		IsActive:      true,
		IsDeleted:     false,
		RefreshTokens: []string{},
	}

	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, user)
	if err != nil {
		// Trường hợp hai request đăng ký song song cùng username/email, unique index sẽ chặn
		if errors.Is(err, common.ErrMongoDuplicate) {
			return nil, common.ErrEmailRegistered
		}
		return nil, err
	}

	logger.GetAuditLogger().WithFields(logrus.Fields{
		"user_id":  created.ID.Hex(),
		"username": created.Username,
	}).Info("Đăng ký tài khoản mới")

	return &created, nil
}

// Login xác thực người dùng bằng email và trả về cặp access/refresh token.
// Sai mật khẩu quá maxLoginAttempts lần sẽ khóa tài khoản trong lockDuration.
func (s *UserService) Login(ctx context.Context, input *authdto.UserLoginInput) (*models.User, *models.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{
		"email":     email,
		"isDeleted": false,
	}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !user.IsActive {
		return nil, nil, common.ErrUserBlocked
	}

	nowMilli := time.Now().UnixMilli()
	if user.IsLocked(nowMilli) {
		logger.GetAuditLogger().WithFields(logrus.Fields{
			"user_id":    user.ID.Hex(),
			"lock_until": user.LockUntil,
		}).Warn("Đăng nhập vào tài khoản đang bị khóa tạm thời")
		return nil, nil, common.ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		if lockErr := s.handleFailedLogin(ctx, &user, nowMilli); lockErr != nil {
			return nil, nil, lockErr
		}
		return nil, nil, common.ErrInvalidCredentials
	}

	tokenPair, err := CreateTokenPair(&user)
	if err != nil {
		return nil, nil, err
	}

	// Reset bộ đếm đăng nhập sai, ghi nhận lastLogin và thêm refresh token mới.
	// Giới hạn maxRefreshTokens phiên: giữ các token gần nhất.
	refreshTokens := user.RefreshTokens
	if len(refreshTokens) >= maxRefreshTokens {
		refreshTokens = refreshTokens[len(refreshTokens)-maxRefreshTokens+1:]
	}
	refreshTokens = append(refreshTokens, tokenPair.RefreshToken)

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"loginAttempts": 0,
			"lockUntil":     int64(0),
			"lastLogin":     nowMilli,
			"refreshTokens": refreshTokens,
		},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		return nil, nil, err
	}

	logger.GetAuditLogger().WithFields(logrus.Fields{
		"user_id":  user.ID.Hex(),
		"username": user.Username,
	}).Info("Đăng nhập thành công")

	return &updatedUser, tokenPair, nil
}

// handleFailedLogin tăng bộ đếm đăng nhập sai và khóa tài khoản khi vượt ngưỡng.
// Dùng $inc để an toàn khi nhiều request đăng nhập sai chạy song song.
func (s *UserService) handleFailedLogin(ctx context.Context, user *models.User, nowMilli int64) error {
	attempts := user.LoginAttempts + 1

	updateData := &basesvc.UpdateData{
		Inc: map[string]interface{}{
			"loginAttempts": 1,
		},
	}
	if attempts >= maxLoginAttempts {
		updateData.Set = map[string]interface{}{
			"lockUntil": nowMilli + lockDuration.Milliseconds(),
		}
	}

	if _, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, updateData); err != nil {
		return err
	}

	if attempts >= maxLoginAttempts {
		logger.GetAuditLogger().WithFields(logrus.Fields{
			"user_id":  user.ID.Hex(),
			"username": user.Username,
			"attempts": attempts,
		}).Warn("Tài khoản bị khóa tạm thời do đăng nhập sai quá nhiều lần")
	}
	return nil
}

// RefreshToken xác thực refresh token và cấp cặp token mới (rotate refresh token cũ).
func (s *UserService) RefreshToken(ctx context.Context, input *authdto.UserRefreshTokenInput) (*models.TokenPair, error) {
	claims, err := ParseToken(input.RefreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != models.TokenTypeRefresh {
		return nil, common.ErrTokenInvalid
	}

	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}

	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTokenInvalid
		}
		return nil, err
	}

	if user.IsDeleted || !user.IsActive {
		return nil, common.ErrUserBlocked
	}

	// Token phải còn trong danh sách phiên hợp lệ (chưa bị logout thu hồi)
	if !utility.Contains(user.RefreshTokens, input.RefreshToken) {
		return nil, common.ErrTokenInvalid
	}

	tokenPair, err := CreateTokenPair(&user)
	if err != nil {
		return nil, err
	}

	// Rotate: gỡ token cũ, thêm token mới
	newTokens := make([]string, 0, len(user.RefreshTokens))
	for _, t := range user.RefreshTokens {
		if t != input.RefreshToken {
			newTokens = append(newTokens, t)
		}
	}
	newTokens = append(newTokens, tokenPair.RefreshToken)

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"refreshTokens": newTokens,
		},
	}
	if _, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, updateData); err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// Logout thu hồi refresh token của phiên hiện tại.
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, input *authdto.UserLogoutInput) error {
	updateData := &basesvc.UpdateData{
		Pull: map[string]interface{}{
			"refreshTokens": input.RefreshToken,
		},
	}
	_, err := s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	return err
}

// ChangePassword đổi mật khẩu sau khi xác thực mật khẩu cũ.
// Mọi refresh token đang có bị thu hồi để buộc đăng nhập lại trên các thiết bị khác.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, input *authdto.UserChangePasswordInput) error {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		return common.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcryptCost)
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, "Không thể mã hóa mật khẩu", common.StatusInternalServerError, err)
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"password":      string(hashed),
			"refreshTokens": []string{},
		},
	}
	_, err = s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	return err
}

// ChangeInfo cập nhật thông tin hồ sơ người dùng (chỉ các field được gửi lên).
func (s *UserService) ChangeInfo(ctx context.Context, userID primitive.ObjectID, input *authdto.UserChangeInfoInput) (*models.User, error) {
	set := make(map[string]interface{})
	if input.FullName != "" {
		set["fullName"] = input.FullName
	}
	if input.Phone != "" {
		set["phone"] = input.Phone
	}
	if input.AvatarURL != "" {
		set["avatarUrl"] = input.AvatarURL
	}
	if len(set) == 0 {
		user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &user, nil
	}

	updateData := &basesvc.UpdateData{Set: set}
	user, err := s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindEmailByID trả về email của user theo id (dùng khi gửi thông báo).
func (s *UserService) FindEmailByID(ctx context.Context, userID primitive.ObjectID) (string, error) {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

// EnsureAdminAccount tạo tài khoản admin mặc định nếu hệ thống chưa có admin nào.
// Dùng khi khởi động server với cấu hình ADMIN_USERNAME/ADMIN_EMAIL/ADMIN_PASSWORD.
func (s *UserService) EnsureAdminAccount(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return nil
	}

	exists, err := s.BaseServiceMongoImpl.DocumentExists(ctx, bson.M{
		"role":      models.RoleAdmin,
		"isDeleted": false,
	})
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, "Không thể mã hóa mật khẩu", common.StatusInternalServerError, err)
	}

	admin := models.User{
		Username:      username,
		Email:         strings.ToLower(strings.TrimSpace(email)),
		Password:      string(hashed),
		Role:          models.RoleAdmin,
		IsActive:      true,
		IsDeleted:     false,
		RefreshTokens: []string{},
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, admin)
	if err != nil {
		if errors.Is(err, common.ErrMongoDuplicate) {
			// Username/email đã tồn tại dưới role khác, không ghi đè
			return nil
		}
		return err
	}

	logger.GetAuditLogger().WithFields(logrus.Fields{
		"user_id":  created.ID.Hex(),
		"username": created.Username,
	}).Info("Tạo tài khoản admin mặc định")
	return nil
}
