package authdto

// UserRegisterInput đầu vào đăng ký tài khoản.
type UserRegisterInput struct {
	Username string `json:"username" validate:"required,min=3,no_xss" maxLength:"50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
	FullName string `json:"fullName" validate:"omitempty,no_xss" maxLength:"100"`
	Phone    string `json:"phone" validate:"omitempty"`
}

// UserLoginInput đầu vào đăng nhập. Đăng nhập bằng email.
type UserLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserRefreshTokenInput đầu vào làm mới cặp token.
type UserRefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UserLogoutInput đầu vào đăng xuất (thu hồi refresh token của phiên hiện tại).
type UserLogoutInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UserChangeInfoInput đầu vào thay đổi thông tin người dùng.
type UserChangeInfoInput struct {
	FullName  string `json:"fullName" validate:"omitempty,no_xss" maxLength:"100"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatarUrl"`
}

// UserChangePasswordInput đầu vào đổi mật khẩu.
type UserChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strong_password"`
}
