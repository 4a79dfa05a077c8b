package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Olatundeawo/ordora/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Token types keep the long-lived refresh token out of the Authorization
// header: the auth middleware only accepts access tokens.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
}

type JwtCustomClaims struct {
	UserID    int    `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type UserService struct {
	repo      UserRepo
	rdb       *redis.Client
	jwtSecret string
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserRepo, rdb *redis.Client, jwtSecret string) *UserService {
	return &UserService{repo: repo, rdb: rdb, jwtSecret: jwtSecret}
}

func (s *UserService) Register(ctx context.Context, name, email, password, role string) (*entity.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if role != entity.RoleProducer && role != entity.RoleCustomer {
		return nil, nil, fmt.Errorf("%w: role must be producer or customer", ErrInvalidInput)
	}

	_, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, nil, fmt.Errorf("%w: email already exists", ErrConflict)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.repo.CreateUser(ctx, &entity.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Refresh validates a refresh token against the Redis copy issued at login
// and returns a fresh access token.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims := &JwtCustomClaims{}
	parsed, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidCredentials
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", ErrInvalidCredentials
	}

	if s.rdb != nil {
		stored, err := s.rdb.Get(ctx, refreshKey(claims.UserID)).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return "", ErrInvalidCredentials
			}
			return "", err
		}
		if stored != refreshToken {
			return "", ErrInvalidCredentials
		}
	}

	return s.signToken(claims.UserID, claims.Role, TokenTypeAccess, accessTokenTTL)
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}

	return user, nil
}

func (s *UserService) issueTokens(ctx context.Context, user *entity.User) (*TokenPair, error) {
	access, err := s.signToken(user.ID, user.Role, TokenTypeAccess, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user.ID, user.Role, TokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, refreshKey(user.ID), refresh, refreshTokenTTL).Err(); err != nil {
			logger.Error().Err(err).Msgf("Error storing refresh token for user %d", user.ID)
			return nil, err
		}
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *UserService) signToken(userID int, role, tokenType string, ttl time.Duration) (string, error) {
	claims := &JwtCustomClaims{
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString([]byte(s.jwtSecret))
}

func refreshKey(userID int) string {
	return fmt.Sprintf("refresh-token:%d", userID)
}
