package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"ferreinti-backend/internal/domain"
	"ferreinti-backend/pkg/utils"
)

func newAuthFixture() (*AuthUsecase, *fakeUserRepo) {
	utils.SetSecret("test-secret")
	repo := &fakeUserRepo{users: map[string]*domain.User{}}
	return NewAuthUsecase(repo, time.Hour), repo
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("first user becomes admin", func(t *testing.T) {
		uc, _ := newAuthFixture()

		first, err := uc.Register(ctx, "owner@example.com", "secret123", "Owner")
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if first.User.Role != domain.RoleAdmin {
			t.Errorf("first user role = %q, want admin", first.User.Role)
		}
		if first.Token == "" {
			t.Error("expected a token")
		}

		second, err := uc.Register(ctx, "buyer@example.com", "secret123", "Buyer")
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if second.User.Role != domain.RoleCustomer {
			t.Errorf("second user role = %q, want customer", second.User.Role)
		}
	})

	t.Run("email is normalized", func(t *testing.T) {
		uc, repo := newAuthFixture()
		if _, err := uc.Register(ctx, "  Owner@Example.COM ", "secret123", "Owner"); err != nil {
			t.Fatalf("Register: %v", err)
		}
		u, _ := repo.GetByEmail(ctx, "owner@example.com")
		if u == nil {
			t.Fatal("user not stored under the normalized email")
		}
		if u.PasswordHash == "secret123" {
			t.Error("password stored in plain text")
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		uc, _ := newAuthFixture()
		if _, err := uc.Register(ctx, "owner@example.com", "secret123", "Owner"); err != nil {
			t.Fatalf("Register: %v", err)
		}
		_, err := uc.Register(ctx, "owner@example.com", "different1", "Clone")
		if err == nil || !strings.Contains(err.Error(), "already registered") {
			t.Fatalf("err = %v, want already registered", err)
		}
	})

	t.Run("short password is rejected", func(t *testing.T) {
		uc, _ := newAuthFixture()
		if _, err := uc.Register(ctx, "owner@example.com", "abc", "Owner"); err == nil {
			t.Fatal("expected error for short password")
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuthFixture()
	if _, err := uc.Register(ctx, "owner@example.com", "secret123", "Owner"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		res, err := uc.Login(ctx, "Owner@example.com", "secret123")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if res.Token == "" || res.User.Email != "owner@example.com" {
			t.Errorf("unexpected result: %+v", res)
		}
	})

	t.Run("wrong password and unknown email give the same error", func(t *testing.T) {
		_, errPass := uc.Login(ctx, "owner@example.com", "wrong-pass")
		_, errMail := uc.Login(ctx, "ghost@example.com", "secret123")
		if errPass == nil || errMail == nil {
			t.Fatal("expected errors")
		}
		if errPass.Error() != errMail.Error() {
			t.Errorf("errors differ: %q vs %q", errPass, errMail)
		}
	})
}
