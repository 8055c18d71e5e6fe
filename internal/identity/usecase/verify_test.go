package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/foliolabs/folio/internal/identity/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

func TestVerify(t *testing.T) {
	expiry := baseTime.Add(50 * time.Second)

	t.Run("matching code activates the account", func(t *testing.T) {
		var verified entity.VerifyUserEmail
		db := &fakeRepoDB{
			getUserByEmail: func(context.Context, string) (*entity.User, error) {
				return &entity.User{
					ID:           9,
					Status:       entity.UserStatusUnverified,
					Verification: activeVerification("246810", expiry),
				}, nil
			},
			verifyUserEmail: func(_ context.Context, in entity.VerifyUserEmail) error {
				verified = in
				return nil
			},
		}

		err := newTestUsecase(t, db, &fakeMessaging{}).Verify(context.Background(), VerifyInput{
			Email: "user@example.com",
			Code:  "246810",
		})
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}

		if verified.UserID != 9 {
			t.Errorf("user id = %d, want 9", verified.UserID)
		}
		if verified.NewStatus != entity.UserStatusActive || verified.OldStatus != entity.UserStatusUnverified {
			t.Errorf("status transition = %v -> %v", verified.OldStatus, verified.NewStatus)
		}
		if verified.OldExpiresAt == nil || !verified.OldExpiresAt.Equal(expiry) {
			t.Errorf("guard expiry = %v, want %v", verified.OldExpiresAt, expiry)
		}
	})

	t.Run("already active account is a silent success", func(t *testing.T) {
		db := &fakeRepoDB{
			getUserByEmail: func(context.Context, string) (*entity.User, error) {
				return &entity.User{ID: 9, Status: entity.UserStatusActive}, nil
			},
		}

		err := newTestUsecase(t, db, &fakeMessaging{}).Verify(context.Background(), VerifyInput{
			Email: "user@example.com",
			Code:  "246810",
		})
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
	})

	t.Run("failures all map to the same unauthorized answer", func(t *testing.T) {
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
				code: "246810",
			},
			{
				name: "banned account",
				db: &fakeRepoDB{
					getUserByEmail: func(context.Context, string) (*entity.User, error) {
						return &entity.User{ID: 9, Status: entity.UserStatusBanned}, nil
					},
				},
				code: "246810",
			},
			{
				name: "wrong code",
				db: &fakeRepoDB{
					getUserByEmail: func(context.Context, string) (*entity.User, error) {
						return &entity.User{
							ID:           9,
							Status:       entity.UserStatusUnverified,
							Verification: activeVerification("246810", expiry),
						}, nil
					},
				},
				code: "111111",
			},
			{
				name: "expired code",
				db: &fakeRepoDB{
					getUserByEmail: func(context.Context, string) (*entity.User, error) {
						return &entity.User{
							ID:           9,
							Status:       entity.UserStatusUnverified,
							Verification: activeVerification("246810", baseTime.Add(-time.Second)),
						}, nil
					},
				},
				code: "246810",
			},
			{
				name: "slot changed between read and write",
				db: &fakeRepoDB{
					getUserByEmail: func(context.Context, string) (*entity.User, error) {
						return &entity.User{
							ID:           9,
							Status:       entity.UserStatusUnverified,
							Verification: activeVerification("246810", expiry),
						}, nil
					},
					verifyUserEmail: func(context.Context, entity.VerifyUserEmail) error {
						return goerror.ErrNotFound
					},
				},
				code: "246810",
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				err := newTestUsecase(t, tc.db, &fakeMessaging{}).Verify(context.Background(), VerifyInput{
					Email: "user@example.com",
					Code:  tc.code,
				})
				if got := codeOf(t, err); got != goerror.CodeUnauthorized {
					t.Errorf("code = %v, want unauthorized", got)
				}
			})
		}
	})

	t.Run("non-numeric code fails validation", func(t *testing.T) {
		err := newTestUsecase(t, &fakeRepoDB{}, &fakeMessaging{}).Verify(context.Background(), VerifyInput{
			Email: "user@example.com",
			Code:  "24681a",
		})
		if got := codeOf(t, err); got != goerror.CodeInvalidInput {
			t.Errorf("code = %v, want invalid input", got)
		}
	})
}

func TestVerifyResend(t *testing.T) {
	t.Run("open window issues and publishes a new code", func(t *testing.T) {
		oldExpiry := baseTime.Add(30 * time.Second) // inside the resend window
		var updated entity.UpdateUserVerification
		db := &fakeRepoDB{
			getUserByEmail: func(context.Context, string) (*entity.User, error) {
				return &entity.User{
					ID:           4,
					Email:        "user@example.com",
					FullName:     "Some User",
					Status:       entity.UserStatusUnverified,
					Verification: activeVerification("999999", oldExpiry),
				}, nil
			},
			updateVerification: func(_ context.Context, in entity.UpdateUserVerification) error {
				updated = in
				return nil
			},
		}
		msg := &fakeMessaging{}

		err := newTestUsecase(t, db, msg).VerifyResend(context.Background(), VerifyResendInput{
			Email: "user@example.com",
		})
		if err != nil {
			t.Fatalf("VerifyResend() error = %v", err)
		}

		if updated.OldExpiresAt == nil || !updated.OldExpiresAt.Equal(oldExpiry) {
			t.Errorf("guard expiry = %v, want %v", updated.OldExpiresAt, oldExpiry)
		}
		if !updated.NewState.Active() || *updated.NewState.Code != scriptedCode {
			t.Errorf("new state = %+v, want active code %s", updated.NewState, scriptedCode)
		}
		if len(msg.verificationEvents) != 1 || msg.verificationEvents[0].Code != scriptedCode {
			t.Errorf("events = %+v", msg.verificationEvents)
		}
	})

	t.Run("closed window is throttled", func(t *testing.T) {
		db := &fakeRepoDB{
			getUserByEmail: func(context.Context, string) (*entity.User, error) {
				return &entity.User{
					ID:           4,
					Status:       entity.UserStatusUnverified,
					Verification: activeVerification("999999", baseTime.Add(90*time.Second)),
				}, nil
			},
		}

		err := newTestUsecase(t, db, &fakeMessaging{}).VerifyResend(context.Background(), VerifyResendInput{
			Email: "user@example.com",
		})
		if got := codeOf(t, err); got != goerror.CodeTooManyRequest {
			t.Errorf("code = %v, want too many requests", got)
		}
	})

	t.Run("unknown and verified accounts are answered like success", func(t *testing.T) {
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
				name: "already verified",
				db: &fakeRepoDB{
					getUserByEmail: func(context.Context, string) (*entity.User, error) {
						return &entity.User{ID: 4, Status: entity.UserStatusActive}, nil
					},
				},
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				msg := &fakeMessaging{}
				err := newTestUsecase(t, tc.db, msg).VerifyResend(context.Background(), VerifyResendInput{
					Email: "user@example.com",
				})
				if err != nil {
					t.Fatalf("VerifyResend() error = %v, want nil", err)
				}
				if len(msg.verificationEvents) != 0 {
					t.Errorf("published %d events, want none", len(msg.verificationEvents))
				}
			})
		}
	})

	t.Run("losing the slot race maps to a conflict", func(t *testing.T) {
		db := &fakeRepoDB{
			getUserByEmail: func(context.Context, string) (*entity.User, error) {
				return &entity.User{
					ID:           4,
					Status:       entity.UserStatusUnverified,
					Verification: activeVerification("999999", baseTime.Add(30*time.Second)),
				}, nil
			},
			updateVerification: func(context.Context, entity.UpdateUserVerification) error {
				return goerror.ErrNotFound
			},
		}

		err := newTestUsecase(t, db, &fakeMessaging{}).VerifyResend(context.Background(), VerifyResendInput{
			Email: "user@example.com",
		})
		if got := codeOf(t, err); got != goerror.CodeConflict {
			t.Errorf("code = %v, want conflict", got)
		}
	})
}
