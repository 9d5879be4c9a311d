// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các giá trị role của người dùng.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// User định nghĩa mô hình người dùng.
// Password chỉ lưu dạng bcrypt hash, không bao giờ trả về qua JSON.
// RefreshTokens chứa danh sách refresh token còn hiệu lực (mỗi phiên đăng nhập một token).
type User struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username      string             `json:"username" bson:"username" index:"unique"`
	Email         string             `json:"email,omitempty" bson:"email,omitempty" index:"unique,sparse"`
	Password      string             `json:"-" bson:"password,omitempty"`
	FullName      string             `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	AvatarURL     string             `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	Role          string             `json:"role" bson:"role" index:"single"`
	IsActive      bool               `json:"isActive" bson:"isActive"`
	IsDeleted     bool               `json:"-" bson:"isDeleted"`
	LoginAttempts int                `json:"-" bson:"loginAttempts"`
	LockUntil     int64              `json:"-" bson:"lockUntil"`
	LastLogin     int64              `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	RefreshTokens []string           `json:"-" bson:"refreshTokens"`
	CreatedAt     int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt     int64              `json:"updatedAt" bson:"updatedAt"`
}

// IsLocked kiểm tra tài khoản có đang bị khóa tạm thời do đăng nhập sai quá nhiều lần không.
func (u *User) IsLocked(nowMilli int64) bool {
	return u.LockUntil > 0 && u.LockUntil > nowMilli
}
