package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beratbaran/flyticket/internal/domain"
	"github.com/beratbaran/flyticket/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Login(ctx context.Context, username, password string) (string, error)
	VerifyToken(token string) (*Claims, error)
	EnsureAdmin(ctx context.Context, username, password string) error
}

// Claims is the admin identity carried inside a bearer token.
type Claims struct {
	AdminID  string `json:"sub"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService struct {
	admins   repository.AdminRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(admins repository.AdminRepository, secret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL == 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{admins: admins, secret: []byte(secret), tokenTTL: tokenTTL}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrUnauthorized
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AdminID:  admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})
	return token.SignedString(s.secret)
}

func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// EnsureAdmin creates the admin account when it does not exist yet. Used
// by the bootstrap command; safe to run repeatedly.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if _, err := s.admins.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.admins.Create(ctx, &domain.Admin{Username: username, PasswordHash: string(hash)})
}

var _ AuthUseCase = (*AuthService)(nil)
