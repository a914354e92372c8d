package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ferreinti-backend/internal/domain"
	"ferreinti-backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

type AuthUsecase struct {
	userRepo    domain.UserRepository
	tokenExpiry time.Duration
}

func NewAuthUsecase(userRepo domain.UserRepository, tokenExpiry time.Duration) *AuthUsecase {
	return &AuthUsecase{userRepo: userRepo, tokenExpiry: tokenExpiry}
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register creates an account. The first account ever registered gets
// the admin role; everyone after that is a customer.
func (u *AuthUsecase) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	existing, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := domain.RoleCustomer
	count, err := u.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		role = domain.RoleAdmin
	}

	user := &domain.User{
		ID:           utils.GenerateID("user"),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		slog.Error("Usecase: Register - create user failed", "email", email, "error", err)
		return nil, err
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role, u.tokenExpiry)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and issues a token. The error is the same
// whether the email is unknown or the password is wrong.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role, u.tokenExpiry)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID string) (*domain.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

// ListUsers is admin-only.
func (u *AuthUsecase) ListUsers(ctx context.Context, page, limit int) ([]*domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return u.userRepo.GetAll(ctx, limit, (page-1)*limit)
}
