package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/gobinddhanjal12/medcare-app-backend/config"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/delivery/dto"
	"github.com/gobinddhanjal12/medcare-app-backend/internal/domain/entity"
	"github.com/gobinddhanjal12/medcare-app-backend/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	users *fakeUserRepo
	redis *miniredis.Miniredis
	jwt   *jwt.JWTService
	uc    AuthUsecase
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})

	f := &authFixture{
		users: newFakeUserRepo(),
		redis: mr,
		jwt:   jwtService,
	}
	f.uc = NewAuthUsecase(newTestDB(t), newTestLogger(), f.users, jwtService, client, &fakeAuditService{})
	return f
}

func (f *authFixture) addUser(email, password string, role entity.Role) *entity.User {
	user := &entity.User{Email: email, Name: "Test User", Role: role, IsActive: true}
	if password != "" {
		hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		s := string(hashed)
		user.Password = &s
	}
	return f.users.add(user)
}

func TestSignupCreatesPatient(t *testing.T) {
	f := newAuthFixture(t)

	user, err := f.uc.Signup(context.Background(), &dto.SignupRequest{
		Email:    "alice@example.com",
		Password: "secret123",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Role != string(entity.RolePatient) {
		t.Errorf("signup must create a patient, got role %s", user.Role)
	}

	stored, _ := f.users.FindByEmail(nil, "alice@example.com")
	if stored == nil || stored.Password == nil {
		t.Fatal("stored user must carry a password hash")
	}
	if *stored.Password == "secret123" {
		t.Error("password must be hashed, not stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*stored.Password), []byte("secret123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser("alice@example.com", "secret123", entity.RolePatient)

	_, err := f.uc.Signup(context.Background(), &dto.SignupRequest{
		Email:    "alice@example.com",
		Password: "secret123",
		Name:     "Alice Again",
	})
	if err != ErrEmailAlreadyExists {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser("alice@example.com", "secret123", entity.RolePatient)

	tokens, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.Role != string(entity.RolePatient) {
		t.Errorf("expected patient role claim, got %s", claims.Role)
	}

	// Token must be registered in Redis for the auth middleware.
	keys := f.redis.Keys()
	if len(keys) != 2 {
		t.Errorf("expected access and refresh keys in redis, got %v", keys)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser("alice@example.com", "secret123", entity.RolePatient)

	if _, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "alice@example.com", Password: "wrong"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestLoginRejectsPasswordlessAccount(t *testing.T) {
	f := newAuthFixture(t)
	// Doctor onboarded without a password.
	f.addUser("dr.house@example.com", "", entity.RoleDoctor)

	if _, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "dr.house@example.com", Password: "anything"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAdminLoginGate(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser("admin@example.com", "admin123", entity.RoleAdmin)
	f.addUser("alice@example.com", "secret123", entity.RolePatient)

	// Admins cannot use the regular login.
	if _, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "admin@example.com", Password: "admin123"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for admin on regular login, got %v", err)
	}
	// Patients cannot use the admin login.
	if _, err := f.uc.AdminLogin(context.Background(), &dto.LoginRequest{Email: "alice@example.com", Password: "secret123"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for patient on admin login, got %v", err)
	}

	tokens, err := f.uc.AdminLogin(context.Background(), &dto.LoginRequest{Email: "admin@example.com", Password: "admin123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.Role != string(entity.RoleAdmin) {
		t.Errorf("expected admin role claim, got %s", claims.Role)
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser("alice@example.com", "secret123", entity.RolePatient)
	user.IsActive = false

	if _, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "alice@example.com", Password: "secret123"}); err != ErrAccountInactive {
		t.Errorf("expected ErrAccountInactive, got %v", err)
	}
}

func TestRefreshTokenRotates(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser("alice@example.com", "secret123", entity.RolePatient)

	tokens, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	refreshed, err := f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Fatal("expected a new access token")
	}

	// The presented refresh token was consumed.
	if _, err := f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken}); err != ErrTokenRevoked {
		t.Errorf("expected ErrTokenRevoked on reuse, got %v", err)
	}
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser("alice@example.com", "secret123", entity.RolePatient)

	tokens, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.AccessToken}); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for access token, got %v", err)
	}
}

func TestLogoutRevokesTokens(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser("alice@example.com", "secret123", entity.RolePatient)

	tokens, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}

	if err := f.uc.Logout(context.Background(), user.ID, claims.TokenID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if keys := f.redis.Keys(); len(keys) != 0 {
		t.Errorf("expected all tokens revoked, still have %v", keys)
	}
}
