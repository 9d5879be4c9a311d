// Package models - JwtToken thuộc domain auth.
package models

import "github.com/dgrijalva/jwt-go"

// Các loại token.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JwtToken chứa data được mã hóa trong JWT token.
// Subject (trong StandardClaims) là ID của user dưới dạng hex string.
type JwtToken struct {
	Username  string `json:"username"`
	TokenType string `json:"tokenType"`
	jwt.StandardClaims
}

// TokenPair chứa cặp access/refresh token trả về khi đăng nhập hoặc refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
