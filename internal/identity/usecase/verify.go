package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/foliolabs/folio/internal/identity/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

type VerifyInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,digits6"`
}

// Verify checks the submitted code against the user's slot and, on a match,
// activates the account and clears the slot in one transaction.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) error {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "verification attempted for unavailable user", "email", in.Email)
		return goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if user.Status == entity.UserStatusActive {
		return nil
	}
	if user.Status != entity.UserStatusUnverified {
		slog.WarnContext(ctx, "verification attempted for ineligible account", "user_id", user.ID, "status", user.Status.String())
		return goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}

	if !s.engine.Validate(user.Verification, in.Code, s.clock.Now()) {
		slog.WarnContext(ctx, "verification code mismatch or expired", "user_id", user.ID)
		return goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}

	err = s.repoDB.VerifyUserEmail(ctx, entity.VerifyUserEmail{
		UserID:       user.ID,
		OldExpiresAt: user.Verification.ExpiresAt,
		OldStatus:    entity.UserStatusUnverified,
		NewStatus:    entity.UserStatusActive,
	})
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "verification slot changed concurrently", "user_id", user.ID)
		return goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo verify user email", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
