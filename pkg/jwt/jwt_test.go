package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ============================================================================
// Test Helpers
// ============================================================================

func newTestService(t *testing.T) *Service {
	t.Helper()
	return newTestServiceWithExpiration(t, 15*time.Minute)
}

func newTestServiceWithExpiration(t *testing.T, expiration time.Duration) *Service {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	return NewTestService(privateKey, "test-issuer", expiration)
}

func userClaims(id string) Claims {
	return Claims{
		Email:            "test@example.com",
		Username:         "tester",
		Role:             "USER",
		RegisteredClaims: jwtlib.RegisteredClaims{Subject: id},
	}
}

// ============================================================================
// Claims Tests
// ============================================================================

func TestClaims_UserIDIsSubject(t *testing.T) {
	t.Parallel()

	c := userClaims("user:123")

	if c.UserID() != "user:123" {
		t.Errorf("expected user:123, got %q", c.UserID())
	}
}

func TestClaims_IsAdmin(t *testing.T) {
	t.Parallel()

	c := userClaims("user:1")
	if c.IsAdmin() {
		t.Error("expected USER role not to be admin")
	}
	c.Role = "ADMIN"
	if !c.IsAdmin() {
		t.Error("expected ADMIN role to be admin")
	}
}

// ============================================================================
// Service.Sign() Tests
// ============================================================================

func TestSign_ValidClaims_ReturnsToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, err := svc.Sign(userClaims("user:123"))

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("expected 3 parts in JWT, got %d", len(parts))
	}
}

func TestSign_NilPrivateKey_ReturnsErrInvalidKey(t *testing.T) {
	t.Parallel()
	svc := &Service{issuer: "test", expiration: time.Minute}

	_, err := svc.Sign(userClaims("user:1"))

	if err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestSign_StampsStandardClaims(t *testing.T) {
	t.Parallel()
	svc := newTestServiceWithExpiration(t, 30*time.Minute)
	before := time.Now().Add(-time.Second)

	token, err := svc.Sign(userClaims("user:1"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if claims.Issuer != "test-issuer" {
		t.Errorf("expected issuer test-issuer, got %q", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
	if claims.IssuedAt == nil || claims.IssuedAt.Before(before) {
		t.Errorf("unexpected issued at %v", claims.IssuedAt)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("expected expiry")
	}
	if d := claims.ExpiresAt.Sub(claims.IssuedAt.Time); d != 30*time.Minute {
		t.Errorf("expected 30m lifetime, got %v", d)
	}
}

func TestSign_PreservesCustomExpiration(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	custom := time.Now().Add(2 * time.Hour).Truncate(time.Second)

	c := userClaims("user:1")
	c.ExpiresAt = jwtlib.NewNumericDate(custom)
	token, err := svc.Sign(c)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !claims.ExpiresAt.Time.Equal(custom) {
		t.Errorf("expected expiry %v, got %v", custom, claims.ExpiresAt.Time)
	}
}

// ============================================================================
// Service.Validate() Tests
// ============================================================================

func TestSignAndValidate_RoundTripsCustomClaims(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, _ := svc.Sign(userClaims("user:42"))
	claims, err := svc.Validate(token)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID() != "user:42" || claims.Email != "test@example.com" || claims.Username != "tester" || claims.Role != "USER" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestValidate_NilPublicKey_ReturnsErrInvalidKey(t *testing.T) {
	t.Parallel()
	svc := &Service{issuer: "test"}

	if _, err := svc.Validate("a.b.c"); err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestValidate_Malformed_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	for _, token := range []string{"", "abc", "a.b", "a.b.c.d", "not.a.token"} {
		if _, err := svc.Validate(token); err != ErrInvalidToken {
			t.Errorf("Validate(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestValidate_DifferentKey_ReturnsErrInvalidSignature(t *testing.T) {
	t.Parallel()
	signer := newTestService(t)
	verifier := newTestService(t)

	token, _ := signer.Sign(userClaims("user:1"))

	if _, err := verifier.Validate(token); err != ErrInvalidSignature {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidate_TamperedPayload_ReturnsErrInvalidSignature(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, _ := svc.Sign(userClaims("user:1"))
	other, _ := svc.Sign(userClaims("user:2"))
	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	tampered := parts[0] + "." + otherParts[1] + "." + parts[2]

	if _, err := svc.Validate(tampered); err != ErrInvalidSignature {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidate_ExpiredToken_ReturnsErrTokenExpired(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	c := userClaims("user:1")
	c.ExpiresAt = jwtlib.NewNumericDate(time.Now().Add(-time.Hour))
	token, _ := svc.Sign(c)

	if _, err := svc.Validate(token); err != ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_WrongIssuer_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer := NewTestService(privateKey, "someone-else", time.Minute)
	verifier := NewTestService(privateKey, "test-issuer", time.Minute)

	token, _ := signer.Sign(userClaims("user:1"))

	if _, err := verifier.Validate(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_HMACToken_IsRejected(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	c := userClaims("user:1")
	c.Issuer = "test-issuer"
	c.ExpiresAt = jwtlib.NewNumericDate(time.Now().Add(time.Hour))
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Validate(token); err != ErrInvalidSignature {
		t.Errorf("expected ErrInvalidSignature for a non-RS256 token, got %v", err)
	}
}

func TestGetExpiration_ReturnsConfiguredDuration(t *testing.T) {
	t.Parallel()
	svc := newTestServiceWithExpiration(t, 42*time.Minute)

	if svc.GetExpiration() != 42*time.Minute {
		t.Errorf("expected 42m, got %v", svc.GetExpiration())
	}
}

// ============================================================================
// NewService / Key File Tests
// ============================================================================

func TestNewService_NoKeys_ReturnsService(t *testing.T) {
	t.Parallel()

	svc, err := NewService(Config{Issuer: "test", ExpirationMins: 15})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.GetExpiration() != 15*time.Minute {
		t.Errorf("expected 15m, got %v", svc.GetExpiration())
	}
}

func TestNewService_GeneratedKeyPair(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	if err := GenerateKeyPair(privPath, pubPath); err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	signer, err := NewService(Config{PrivateKeyPath: privPath, Issuer: "test", ExpirationMins: 5})
	if err != nil {
		t.Fatalf("load private key: %v", err)
	}
	if signer.publicKey == nil {
		t.Error("expected public key to be derived from private key")
	}

	verifier, err := NewService(Config{PublicKeyPath: pubPath, Issuer: "test"})
	if err != nil {
		t.Fatalf("load public key: %v", err)
	}
	if verifier.privateKey != nil {
		t.Error("expected validation-only service")
	}

	token, err := signer.Sign(userClaims("user:1"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.Validate(token); err != nil {
		t.Errorf("expected public key to validate, got %v", err)
	}
	if _, err := verifier.Sign(userClaims("user:1")); err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey when signing without a private key, got %v", err)
	}
}

func TestNewService_MissingKeyFile_ReturnsError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if _, err := NewService(Config{PrivateKeyPath: filepath.Join(dir, "nope.pem")}); err == nil {
		t.Error("expected error for missing private key")
	}
	if _, err := NewService(Config{PublicKeyPath: filepath.Join(dir, "nope.pem")}); err == nil {
		t.Error("expected error for missing public key")
	}
}

func TestNewService_InvalidPEM_ReturnsError(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.pem")
	if err := os.WriteFile(path, []byte("not a pem file"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := NewService(Config{PrivateKeyPath: path}); err == nil {
		t.Error("expected error for invalid private key PEM")
	}
	if _, err := NewService(Config{PublicKeyPath: path}); err == nil {
		t.Error("expected error for invalid public key PEM")
	}
}

func TestGenerateKeyPair_InvalidPath_ReturnsError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	err := GenerateKeyPair(filepath.Join(dir, "missing", "private.pem"), filepath.Join(dir, "public.pem"))
	if err == nil {
		t.Error("expected error for unwritable private key path")
	}
}
