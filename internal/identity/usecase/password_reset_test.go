package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/foliolabs/folio/internal/identity/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

func TestPasswordForgot(t *testing.T) {
	t.Run("eligible account gets a reset code", func(t *testing.T) {
		var updated entity.UpdateUserVerification
		db := &fakeRepoDB{
			getUserByEmail: func(context.Context, string) (*entity.User, error) {
				return &entity.User{
					ID:       12,
					Email:    "user@example.com",
					FullName: "Some User",
					Status:   entity.UserStatusActive,
				}, nil
			},
			updateVerification: func(_ context.Context, in entity.UpdateUserVerification) error {
				updated = in
				return nil
			},
		}
		msg := &fakeMessaging{}

		err := newTestUsecase(t, db, msg).PasswordForgot(context.Background(), PasswordForgotInput{
			Email: "user@example.com",
		})
		if err != nil {
			t.Fatalf("PasswordForgot() error = %v", err)
		}

		if updated.OldExpiresAt != nil {
			t.Errorf("guard expiry = %v, want nil for an empty slot", updated.OldExpiresAt)
		}
		if len(msg.resetEvents) != 1 || msg.resetEvents[0].Code != scriptedCode {
			t.Errorf("reset events = %+v", msg.resetEvents)
		}
		if len(msg.verificationEvents) != 0 {
			t.Error("published a verification event for a password reset")
		}
	})

	t.Run("unknown and ineligible accounts are answered like success", func(t *testing.T) {
		tests := []struct {
			name string
			db   *fakeRepoDB
		}{
			{
				name: "unknown email",
				db: &fakeRepoDB{
					getUserByEmail: func(context.Context, string) (*entity.User, error) {
						return nil, goerror.ErrNotFound
					},
				},
			},
			{
				name: "unverified account",
				db: &fakeRepoDB{
					getUserByEmail: func(context.Context, string) (*entity.User, error) {
						return &entity.User{ID: 12, Status: entity.UserStatusUnverified}, nil
					},
				},
			},
			{
				name: "banned account",
				db: &fakeRepoDB{
					getUserByEmail: func(context.Context, string) (*entity.User, error) {
						return &entity.User{ID: 12, Status: entity.UserStatusBanned}, nil
					},
				},
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				msg := &fakeMessaging{}
				err := newTestUsecase(t, tc.db, msg).PasswordForgot(context.Background(), PasswordForgotInput{
					Email: "user@example.com",
				})
				if err != nil {
					t.Fatalf("PasswordForgot() error = %v, want nil", err)
				}
				if len(msg.resetEvents) != 0 {
					t.Errorf("published %d events, want none", len(msg.resetEvents))
				}
			})
		}
	})

	t.Run("outstanding fresh code throttles the request", func(t *testing.T) {
		db := &fakeRepoDB{
			getUserByEmail: func(context.Context, string) (*entity.User, error) {
				return &entity.User{
					ID:           12,
					Status:       entity.UserStatusActive,
					Verification: activeVerification("555555", baseTime.Add(90*time.Second)),
				}, nil
			},
		}

		err := newTestUsecase(t, db, &fakeMessaging{}).PasswordForgot(context.Background(), PasswordForgotInput{
			Email: "user@example.com",
		})
		if got := codeOf(t, err); got != goerror.CodeTooManyRequest {
			t.Errorf("code = %v, want too many requests", got)
		}
	})
}

func TestPasswordReset(t *testing.T) {
	expiry := baseTime.Add(50 * time.Second)

	t.Run("matching code swaps the credential in one guarded write", func(t *testing.T) {
		var reset entity.ResetUserPassword
		db := &fakeRepoDB{
			getUserByEmail: func(context.Context, string) (*entity.User, error) {
				return &entity.User{
					ID:           3,
					Status:       entity.UserStatusActive,
					Verification: activeVerification("135790", expiry),
				}, nil
			},
			resetUserPassword: func(_ context.Context, in entity.ResetUserPassword) error {
				reset = in
				return nil
			},
		}

		err := newTestUsecase(t, db, &fakeMessaging{}).PasswordReset(context.Background(), PasswordResetInput{
			Email:       "user@example.com",
			Code:        "135790",
			NewPassword: "BrandNewSecret1",
		})
		if err != nil {
			t.Fatalf("PasswordReset() error = %v", err)
		}

		if reset.UserID != 3 {
			t.Errorf("user id = %d, want 3", reset.UserID)
		}
		if reset.NewHash != "bcrypt:BrandNewSecret1" {
			t.Errorf("new hash = %q", reset.NewHash)
		}
		if reset.OldExpiresAt == nil || !reset.OldExpiresAt.Equal(expiry) {
			t.Errorf("guard expiry = %v, want %v", reset.OldExpiresAt, expiry)
		}
	})

	t.Run("wrong or stale code is unauthorized", func(t *testing.T) {
		tests := []struct {
			name string
			db   *fakeRepoDB
			code string
		}{
			{
				name: "unknown email",
				db: &fakeRepoDB{
					getUserByEmail: func(context.Context, string) (*entity.User, error) {
						return nil, goerror.ErrNotFound
					},
				},
				code: "135790",
			},
			{
				name: "wrong code",
				db: &fakeRepoDB{
					getUserByEmail: func(context.Context, string) (*entity.User, error) {
						return &entity.User{
							ID:           3,
							Status:       entity.UserStatusActive,
							Verification: activeVerification("135790", expiry),
						}, nil
					},
				},
				code: "135791",
			},
			{
				name: "no outstanding code",
				db: &fakeRepoDB{
					getUserByEmail: func(context.Context, string) (*entity.User, error) {
						return &entity.User{ID: 3, Status: entity.UserStatusActive}, nil
					},
				},
				code: "135790",
			},
			{
				name: "slot changed between read and write",
				db: &fakeRepoDB{
					getUserByEmail: func(context.Context, string) (*entity.User, error) {
						return &entity.User{
							ID:           3,
							Status:       entity.UserStatusActive,
							Verification: activeVerification("135790", expiry),
						}, nil
					},
					resetUserPassword: func(context.Context, entity.ResetUserPassword) error {
						return goerror.ErrNotFound
					},
				},
				code: "135790",
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				err := newTestUsecase(t, tc.db, &fakeMessaging{}).PasswordReset(context.Background(), PasswordResetInput{
					Email:       "user@example.com",
					Code:        tc.code,
					NewPassword: "BrandNewSecret1",
				})
				if got := codeOf(t, err); got != goerror.CodeUnauthorized {
					t.Errorf("code = %v, want unauthorized", got)
				}
			})
		}
	})

	t.Run("ineligible account is forbidden before the code is checked", func(t *testing.T) {
		db := &fakeRepoDB{
			getUserByEmail: func(context.Context, string) (*entity.User, error) {
				return &entity.User{
					ID:           3,
					Status:       entity.UserStatusBanned,
					Verification: activeVerification("135790", expiry),
				}, nil
			},
		}

		err := newTestUsecase(t, db, &fakeMessaging{}).PasswordReset(context.Background(), PasswordResetInput{
			Email:       "user@example.com",
			Code:        "135790",
			NewPassword: "BrandNewSecret1",
		})
		if got := codeOf(t, err); got != goerror.CodeForbidden {
			t.Errorf("code = %v, want forbidden", got)
		}
	})
}
