// Package authsvc - service tạo và xác thực JWT token.
package authsvc

import (
	"errors"
	"time"

	models "shop_commerce/internal/api/auth/models"
	"shop_commerce/internal/common"
	"shop_commerce/internal/global"

	"github.com/dgrijalva/jwt-go"
)

// CreateAccessToken tạo access token (thời gian sống ngắn, cấu hình bằng JWT_ACCESS_TTL_MINUTES).
func CreateAccessToken(user *models.User) (string, error) {
	ttl := time.Duration(global.MongoDB_ServerConfig.JwtAccessTTLMinutes) * time.Minute
	return createToken(user, models.TokenTypeAccess, ttl)
}

// CreateRefreshToken tạo refresh token (thời gian sống dài, cấu hình bằng JWT_REFRESH_TTL_DAYS).
func CreateRefreshToken(user *models.User) (string, error) {
	ttl := time.Duration(global.MongoDB_ServerConfig.JwtRefreshTTLDays) * 24 * time.Hour
	return createToken(user, models.TokenTypeRefresh, ttl)
}

// CreateTokenPair tạo cặp access/refresh token cho một phiên đăng nhập.
func CreateTokenPair(user *models.User) (*models.TokenPair, error) {
	accessToken, err := CreateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := CreateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// createToken ký JWT với HS256. Subject là ID của user dưới dạng hex string.
func createToken(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.JwtToken{
		Username:  user.Username,
		TokenType: tokenType,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(global.MongoDB_ServerConfig.JwtSecret))
	if err != nil {
		return "", common.NewError(common.ErrCodeInternalServer, "Không thể tạo token", common.StatusInternalServerError, err)
	}
	return signed, nil
}

// ParseToken xác thực chữ ký và thời hạn của token, trả về claims.
// Trả về common.ErrTokenExpired nếu token hết hạn, common.ErrTokenInvalid cho các lỗi còn lại.
func ParseToken(tokenStr string) (*models.JwtToken, error) {
	claims := &models.JwtToken{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// Chỉ chấp nhận HS256 để tránh tấn công đổi thuật toán ký
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return []byte(global.MongoDB_ServerConfig.JwtSecret), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}
