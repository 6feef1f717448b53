package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:     "test-secret-key",
		TokenDuration: 15 * time.Minute,
		Issuer:        "test-issuer",
	}
}

func TestJWTManager_GenerateAndVerifyToken(t *testing.T) {
	config := testJWTConfig()
	manager := NewJWTManager(config)

	userID := "user-123"
	email := "test@example.com"

	token, err := manager.GenerateToken(userID, email)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if token == "" {
		t.Error("GenerateToken() returned empty token")
	}

	claims, err := manager.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("claims.UserID = %v, want %v", claims.UserID, userID)
	}
	if claims.Subject != userID {
		t.Errorf("claims.Subject = %v, want %v", claims.Subject, userID)
	}
	if claims.Email != email {
		t.Errorf("claims.Email = %v, want %v", claims.Email, email)
	}
	if claims.Issuer != config.Issuer {
		t.Errorf("claims.Issuer = %v, want %v", claims.Issuer, config.Issuer)
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := NewJWTManager(DefaultJWTConfig())

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "random string",
			token: "not.a.valid.token",
		},
		{
			name:  "malformed jwt",
			token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.VerifyToken(tt.token)
			if err == nil {
				t.Error("VerifyToken() should return error for invalid token")
			}
			if err != ErrInvalidToken {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestJWTManager_WrongSecretKey(t *testing.T) {
	config1 := testJWTConfig()
	config2 := testJWTConfig()
	config2.SecretKey = "a-different-secret-key"

	manager1 := NewJWTManager(config1)
	manager2 := NewJWTManager(config2)

	token, err := manager1.GenerateToken("user-123", "test@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	_, err = manager2.VerifyToken(token)
	if err == nil {
		t.Error("VerifyToken() should fail with different secret key")
	}
	if err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	config := testJWTConfig()
	config.TokenDuration = 1 * time.Millisecond
	manager := NewJWTManager(config)

	token, err := manager.GenerateToken("user-123", "test@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	// Wait for token to expire
	time.Sleep(10 * time.Millisecond)

	_, err = manager.VerifyToken(token)
	if err == nil {
		t.Error("VerifyToken() should fail for expired token")
	}
	if err != ErrExpiredToken {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTManager_WrongSigningMethod(t *testing.T) {
	config := testJWTConfig()
	manager := NewJWTManager(config)

	// Token signed with "none" must be rejected regardless of its claims.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	_, err = manager.VerifyToken(token)
	if err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_SubjectFallback(t *testing.T) {
	config := testJWTConfig()
	manager := NewJWTManager(config)

	// A token carrying only the registered subject still yields an identity.
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-only",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.SecretKey))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	verified, err := manager.VerifyToken(signed)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if verified.UserID != "subject-only" {
		t.Errorf("claims.UserID = %v, want %v", verified.UserID, "subject-only")
	}
}

func TestJWTManager_NoIdentity(t *testing.T) {
	config := testJWTConfig()
	manager := NewJWTManager(config)

	// A validly signed token without any identity must be rejected.
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.SecretKey))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	_, err = manager.VerifyToken(signed)
	if err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_TokenDuration(t *testing.T) {
	config := testJWTConfig()
	config.TokenDuration = 30 * time.Minute
	manager := NewJWTManager(config)

	expected := int64(30 * 60)
	if got := manager.TokenDuration(); got != expected {
		t.Errorf("TokenDuration() = %v, want %v", got, expected)
	}
}
