package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/foliolabs/folio/internal/identity/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

type VerifyResendInput struct {
	Email string `validate:"required,email"`
}

// VerifyResend issues a fresh verification code when the resend window is
// open. Unknown or already-verified accounts are answered the same way as a
// successful resend so the endpoint does not reveal account existence.
func (s *Usecase) VerifyResend(ctx context.Context, in VerifyResendInput) error {
	ctx, span := s.startSpan(ctx, "VerifyResend")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "email not registered for resend", "email", in.Email)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if user.Status != entity.UserStatusUnverified {
		slog.WarnContext(ctx, "resend requested for non-pending account", "user_id", user.ID, "status", user.Status.String())
		return nil
	}

	if !s.engine.CanResend(user.Verification, s.clock.Now()) {
		return goerror.NewBusiness("a code was sent recently, please wait before requesting another", goerror.CodeTooManyRequest)
	}

	code, err := s.issueVerificationCode(ctx, user)
	if err != nil {
		return err
	}

	if err := s.repoMessaging.PublishUserVerificationCode(ctx, UserVerificationCodeEvent{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Code:     code,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user verification code", "user_id", user.ID, "error", err)
	}

	return nil
}
