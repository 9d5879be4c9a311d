// Package authsvc - Test tạo và xác thực JWT token.
package authsvc

import (
	"testing"

	"shop_commerce/config"
	models "shop_commerce/internal/api/auth/models"
	"shop_commerce/internal/common"
	"shop_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupTokenConfig(t *testing.T) {
	t.Helper()
	old := global.MongoDB_ServerConfig
	global.MongoDB_ServerConfig = &config.Configuration{
		JwtSecret:           "test-secret",
		JwtAccessTTLMinutes: 15,
		JwtRefreshTTLDays:   7,
	}
	t.Cleanup(func() { global.MongoDB_ServerConfig = old })
}

func TestCreateAndParseTokenPair(t *testing.T) {
	setupTokenConfig(t)

	user := &models.User{
		ID:       primitive.NewObjectID(),
		Username: "tester",
	}

	pair, err := CreateTokenPair(user)
	if err != nil {
		t.Fatalf("CreateTokenPair trả lỗi: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("cặp token không được rỗng")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access token và refresh token phải khác nhau")
	}

	access, err := ParseToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken(access) trả lỗi: %v", err)
	}
	if access.TokenType != models.TokenTypeAccess {
		t.Errorf("tokenType = %q, muốn %q", access.TokenType, models.TokenTypeAccess)
	}
	if access.Subject != user.ID.Hex() {
		t.Errorf("subject = %q, muốn %q", access.Subject, user.ID.Hex())
	}
	if access.Username != "tester" {
		t.Errorf("username = %q, muốn tester", access.Username)
	}

	refresh, err := ParseToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ParseToken(refresh) trả lỗi: %v", err)
	}
	if refresh.TokenType != models.TokenTypeRefresh {
		t.Errorf("tokenType = %q, muốn %q", refresh.TokenType, models.TokenTypeRefresh)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	setupTokenConfig(t)

	user := &models.User{ID: primitive.NewObjectID(), Username: "tester"}
	token, err := CreateAccessToken(user)
	if err != nil {
		t.Fatalf("CreateAccessToken trả lỗi: %v", err)
	}

	// Đổi secret rồi parse lại, token phải bị từ chối
	global.MongoDB_ServerConfig.JwtSecret = "other-secret"
	if _, err := ParseToken(token); err != common.ErrTokenInvalid {
		t.Errorf("token ký bằng secret khác phải trả ErrTokenInvalid, nhận được: %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	setupTokenConfig(t)
	if _, err := ParseToken("not.a.jwt"); err != common.ErrTokenInvalid {
		t.Errorf("chuỗi rác phải trả ErrTokenInvalid, nhận được: %v", err)
	}
}
