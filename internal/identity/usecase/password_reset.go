package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/foliolabs/folio/internal/identity/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

type PasswordResetInput struct {
	Email       string `validate:"required,email"`
	Code        string `validate:"required,digits6"`
	NewPassword string `validate:"required,password"`
}

// PasswordReset validates the submitted code and, on a match, swaps the
// credential hash, clears the slot, and revokes every session in one
// transaction.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password reset attempted for unavailable user", "email", in.Email)
		return goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return err
	}

	if !s.engine.Validate(user.Verification, in.Code, s.clock.Now()) {
		slog.WarnContext(ctx, "password reset code mismatch or expired", "user_id", user.ID)
		return goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}

	newHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	err = s.repoDB.ResetUserPassword(ctx, entity.ResetUserPassword{
		UserID:       user.ID,
		NewHash:      string(newHash),
		OldExpiresAt: user.Verification.ExpiresAt,
	})
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "verification slot changed concurrently", "user_id", user.ID)
		return goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo reset user password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
