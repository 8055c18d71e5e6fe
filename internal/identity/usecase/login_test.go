package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/foliolabs/folio/internal/identity/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

func TestLogin(t *testing.T) {
	loginInfo := &entity.UserLoginInfo{
		ID:       21,
		Email:    "user@example.com",
		Status:   entity.UserStatusActive,
		Password: "bcrypt:SuperSecret1",
	}

	t.Run("valid credentials return a token pair", func(t *testing.T) {
		var stored entity.RefreshToken
		db := &fakeRepoDB{
			getUserLoginInfo: func(context.Context, string) (*entity.UserLoginInfo, error) {
				return loginInfo, nil
			},
			createRefreshToken: func(_ context.Context, in entity.RefreshToken) error {
				stored = in
				return nil
			},
		}

		out, err := newTestUsecase(t, db, &fakeMessaging{}).Login(context.Background(), LoginInput{
			Email:    "user@example.com",
			Password: "SuperSecret1",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		if out.AccessToken != "access-token" {
			t.Errorf("access token = %q", out.AccessToken)
		}
		if out.RefreshToken != "refresh-uuid" {
			t.Errorf("refresh token = %q", out.RefreshToken)
		}

		// only the HMAC of the refresh token may reach storage
		if stored.Token != "hmac:refresh-uuid" {
			t.Errorf("stored token = %q, want hashed", stored.Token)
		}
		if stored.UserID != 21 {
			t.Errorf("stored user id = %d", stored.UserID)
		}
		if want := baseTime.Add(30 * 24 * time.Hour); !stored.ExpiresAt.Equal(want) {
			t.Errorf("expiry = %v, want %v", stored.ExpiresAt, want)
		}
	})

	t.Run("wrong password and unknown email share one answer", func(t *testing.T) {
		tests := []struct {
			name     string
			db       *fakeRepoDB
			password string
		}{
			{
				name: "unknown email",
				db: &fakeRepoDB{
					getUserLoginInfo: func(context.Context, string) (*entity.UserLoginInfo, error) {
						return nil, goerror.ErrNotFound
					},
				},
				password: "SuperSecret1",
			},
			{
				name: "wrong password",
				db: &fakeRepoDB{
					getUserLoginInfo: func(context.Context, string) (*entity.UserLoginInfo, error) {
						return loginInfo, nil
					},
				},
				password: "WrongSecret1",
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, err := newTestUsecase(t, tc.db, &fakeMessaging{}).Login(context.Background(), LoginInput{
					Email:    "user@example.com",
					Password: tc.password,
				})
				if got := codeOf(t, err); got != goerror.CodeUnauthorized {
					t.Errorf("code = %v, want unauthorized", got)
				}
			})
		}
	})

	t.Run("unverified account cannot log in", func(t *testing.T) {
		db := &fakeRepoDB{
			getUserLoginInfo: func(context.Context, string) (*entity.UserLoginInfo, error) {
				return &entity.UserLoginInfo{
					ID:       21,
					Email:    "user@example.com",
					Status:   entity.UserStatusUnverified,
					Password: "bcrypt:SuperSecret1",
				}, nil
			},
		}

		_, err := newTestUsecase(t, db, &fakeMessaging{}).Login(context.Background(), LoginInput{
			Email:    "user@example.com",
			Password: "SuperSecret1",
		})
		if got := codeOf(t, err); got != goerror.CodeForbidden {
			t.Errorf("code = %v, want forbidden", got)
		}
	})
}

func TestRefreshToken(t *testing.T) {
	current := func() *entity.UserRefreshToken {
		return &entity.UserRefreshToken{
			UserID:           21,
			UserEmail:        "user@example.com",
			UserStatus:       entity.UserStatusActive,
			RefreshID:        100,
			RefreshToken:     "hmac:presented-token",
			RefreshExpiresAt: baseTime.Add(time.Hour),
		}
	}

	t.Run("valid token rotates", func(t *testing.T) {
		var rotated entity.RotateRefreshToken
		db := &fakeRepoDB{
			getUserRefreshToken: func(_ context.Context, token string) (*entity.UserRefreshToken, error) {
				if token != "hmac:presented-token" {
					t.Errorf("lookup token = %q, want the HMAC", token)
				}
				return current(), nil
			},
			rotateRefreshToken: func(_ context.Context, in entity.RotateRefreshToken) error {
				rotated = in
				return nil
			},
		}

		out, err := newTestUsecase(t, db, &fakeMessaging{}).RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: "presented-token",
		})
		if err != nil {
			t.Fatalf("RefreshToken() error = %v", err)
		}

		if out.RefreshToken != "refresh-uuid" {
			t.Errorf("new refresh token = %q", out.RefreshToken)
		}
		if rotated.OldID != 100 || rotated.UserID != 21 {
			t.Errorf("rotated = %+v", rotated)
		}
		if rotated.NewToken != "hmac:refresh-uuid" {
			t.Errorf("rotated token = %q, want hashed", rotated.NewToken)
		}
	})

	t.Run("reuse of a rotated token revokes every session", func(t *testing.T) {
		replacedBy := int64(101)
		revokedAll := false
		db := &fakeRepoDB{
			getUserRefreshToken: func(context.Context, string) (*entity.UserRefreshToken, error) {
				rt := current()
				rt.RefreshRevoked = true
				rt.RefreshReplacedByTokenID = &replacedBy
				return rt, nil
			},
			revokeAllRefreshToken: func(_ context.Context, userID int64) error {
				revokedAll = userID == 21
				return nil
			},
		}

		_, err := newTestUsecase(t, db, &fakeMessaging{}).RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: "presented-token",
		})
		if got := codeOf(t, err); got != goerror.CodeForbidden {
			t.Errorf("code = %v, want forbidden", got)
		}
		if !revokedAll {
			t.Error("reuse did not revoke the user's sessions")
		}
	})

	t.Run("revoked but never rotated token is merely invalid", func(t *testing.T) {
		db := &fakeRepoDB{
			getUserRefreshToken: func(context.Context, string) (*entity.UserRefreshToken, error) {
				rt := current()
				rt.RefreshRevoked = true
				return rt, nil
			},
		}

		_, err := newTestUsecase(t, db, &fakeMessaging{}).RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: "presented-token",
		})
		if got := codeOf(t, err); got != goerror.CodeUnauthorized {
			t.Errorf("code = %v, want unauthorized", got)
		}
	})

	t.Run("expired token is invalid", func(t *testing.T) {
		db := &fakeRepoDB{
			getUserRefreshToken: func(context.Context, string) (*entity.UserRefreshToken, error) {
				rt := current()
				rt.RefreshExpiresAt = baseTime.Add(-time.Minute)
				return rt, nil
			},
		}

		_, err := newTestUsecase(t, db, &fakeMessaging{}).RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: "presented-token",
		})
		if got := codeOf(t, err); got != goerror.CodeUnauthorized {
			t.Errorf("code = %v, want unauthorized", got)
		}
	})

	t.Run("losing the rotation race is invalid", func(t *testing.T) {
		db := &fakeRepoDB{
			getUserRefreshToken: func(context.Context, string) (*entity.UserRefreshToken, error) {
				return current(), nil
			},
			rotateRefreshToken: func(context.Context, entity.RotateRefreshToken) error {
				return goerror.ErrNotFound
			},
		}

		_, err := newTestUsecase(t, db, &fakeMessaging{}).RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: "presented-token",
		})
		if got := codeOf(t, err); got != goerror.CodeUnauthorized {
			t.Errorf("code = %v, want unauthorized", got)
		}
	})
}
