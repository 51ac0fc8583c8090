package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"laily-api/internal/apperr"
	"laily-api/internal/auth"
	"laily-api/internal/models"
	"laily-api/internal/repository"
)

type AuthService struct {
	users  UserStore
	hasher *auth.Hasher
	tokens *auth.Tokens
	log    *zap.Logger
}

func NewAuthService(users UserStore, hasher *auth.Hasher, tokens *auth.Tokens, log *zap.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log}
}

// LoginResult es el token emitido junto con la cuenta sin contraseña
type LoginResult struct {
	Token string
	User  *models.User
}

// Email desconocido y contraseña incorrecta devuelven exactamente el mismo error.
func invalidCredentials() error {
	return apperr.Unauthenticated("invalid email or password")
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.hasher.VerifyAbsent(req.Password)
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, userEntity.storeError("find", err)
	}
	if !s.hasher.Verify(req.Password, user.Password) {
		return nil, invalidCredentials()
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperr.Internal("failed to issue token", err)
	}
	s.log.Info("user logged in", zap.String("user_id", user.ID.Hex()))

	user.Password = ""
	return &LoginResult{Token: token, User: user}, nil
}

// Authenticate resuelve un bearer token a la cuenta que lo emitió
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperr.Unauthenticated("no token provided")
	}

	claims, err := s.tokens.Parse(token)
	if errors.Is(err, auth.ErrTokenExpired) {
		return nil, apperr.Unauthenticated("token expired")
	}
	if err != nil {
		return nil, apperr.Unauthenticated("invalid token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
		return nil, apperr.Unauthenticated("invalid token")
	}
	if err != nil {
		return nil, apperr.Internal("failed to verify token", err)
	}

	user.Password = ""
	return user, nil
}

// ProviderLogin cubre los accesos con Kakao y Naver, todavía sin implementar
func (s *AuthService) ProviderLogin(provider string) error {
	return apperr.NotImplemented(provider + " login is not implemented yet")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var emailFormat = validator.New()

// checkEmail valida el formato ya normalizado, así los espacios alrededor no cuentan
func checkEmail(email string) error {
	if emailFormat.Var(email, "email") != nil {
		return apperr.Validation("email must be a valid address")
	}
	return nil
}
