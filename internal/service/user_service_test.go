package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Olatundeawo/ordora/internal/entity"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, nil, "test-secret")

	user, tokens, err := svc.Register(context.Background(), "Ada", "Ada@Example.com", "s3cret", entity.RoleProducer)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("email = %s, want lowercased", user.Email)
	}
	if user.Password == "s3cret" {
		t.Fatalf("password stored in clear")
	}
	if tokens.Access == "" || tokens.Refresh == "" {
		t.Fatalf("token pair incomplete")
	}

	claims := &JwtCustomClaims{}
	parsed, err := jwt.ParseWithClaims(tokens.Access, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token does not verify: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != entity.RoleProducer {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("token type = %s, want %s", claims.TokenType, TokenTypeAccess)
	}

	if _, _, err := svc.Login(context.Background(), "ada@example.com", "s3cret"); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, nil, "test-secret")

	if _, _, err := svc.Register(context.Background(), "", "a@b.com", "pw", entity.RoleCustomer); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing name: err = %v, want ErrInvalidInput", err)
	}
	if _, _, err := svc.Register(context.Background(), "Ada", "a@b.com", "pw", "admin"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad role: err = %v, want ErrInvalidInput", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, nil, "test-secret")

	if _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "pw", entity.RoleCustomer); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	_, _, err := svc.Register(context.Background(), "Other", "ADA@example.com", "pw2", entity.RoleCustomer)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestRefresh(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, nil, "test-secret")

	_, tokens, err := svc.Register(context.Background(), "Ada", "ada@example.com", "pw", entity.RoleCustomer)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	access, err := svc.Refresh(context.Background(), tokens.Refresh)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if access == "" {
		t.Fatalf("empty access token")
	}

	if _, err := svc.Refresh(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	// An access token is not accepted as a refresh token
	if _, err := svc.Refresh(context.Background(), tokens.Access); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("access as refresh: err = %v, want ErrInvalidCredentials", err)
	}

	// Token signed with a different secret is rejected
	other := NewUserService(&fakeUserRepo{}, nil, "other-secret")
	_, foreign, err := other.Register(context.Background(), "Eve", "eve@example.com", "pw", entity.RoleCustomer)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), foreign.Refresh); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}
