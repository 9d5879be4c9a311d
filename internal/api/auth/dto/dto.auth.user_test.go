package authdto

import (
	"encoding/json"
	"testing"

	"shop_commerce/internal/global"
)

func setupValidator(t *testing.T) {
	t.Helper()
	if global.Validate == nil {
		global.InitValidator()
	}
}

// Đăng nhập dùng email, body chuẩn phải parse và validate được.
func TestUserLoginInput_DangNhapBangEmail(t *testing.T) {
	setupValidator(t)

	var input UserLoginInput
	body := `{"email":"khach@example.com","password":"MatKhau@123"}`
	if err := json.Unmarshal([]byte(body), &input); err != nil {
		t.Fatalf("Unmarshal body đăng nhập thất bại: %v", err)
	}

	if input.Email != "khach@example.com" {
		t.Errorf("Email = %q, muốn %q", input.Email, "khach@example.com")
	}
	if input.Password != "MatKhau@123" {
		t.Errorf("Password = %q, muốn %q", input.Password, "MatKhau@123")
	}

	if err := global.Validate.Struct(&input); err != nil {
		t.Errorf("Body đăng nhập hợp lệ không được bị validator từ chối: %v", err)
	}
}

func TestUserLoginInput_ThieuEmailBiTuChoi(t *testing.T) {
	setupValidator(t)

	cases := []struct {
		name string
		body string
	}{
		{"thiếu email", `{"password":"MatKhau@123"}`},
		{"email sai định dạng", `{"email":"khong-phai-email","password":"MatKhau@123"}`},
		{"thiếu mật khẩu", `{"email":"khach@example.com"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var input UserLoginInput
			if err := json.Unmarshal([]byte(tc.body), &input); err != nil {
				t.Fatalf("Unmarshal thất bại: %v", err)
			}
			if err := global.Validate.Struct(&input); err == nil {
				t.Errorf("Body %s phải bị validator từ chối", tc.body)
			}
		})
	}
}
