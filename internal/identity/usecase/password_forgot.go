package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/foliolabs/folio/internal/pkg/goerror"
)

type PasswordForgotInput struct {
	Email string `validate:"required,email"`
}

// PasswordForgot issues a reset code into the user's shared slot. Unknown and
// ineligible accounts get the same empty success as a delivered code.
func (s *Usecase) PasswordForgot(ctx context.Context, in PasswordForgotInput) error {
	ctx, span := s.startSpan(ctx, "PasswordForgot")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password reset requested for unavailable user", "email", in.Email)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		slog.WarnContext(ctx, "password reset requested for ineligible user", "user_id", user.ID, "status", user.Status.String())
		return nil
	}

	if !s.engine.CanResend(user.Verification, s.clock.Now()) {
		return goerror.NewBusiness("a code was sent recently, please wait before requesting another", goerror.CodeTooManyRequest)
	}

	code, err := s.issueVerificationCode(ctx, user)
	if err != nil {
		return err
	}

	if err := s.repoMessaging.PublishUserPasswordReset(ctx, UserPasswordResetEvent{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Code:     code,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user password reset", "user_id", user.ID, "error", err)
	}

	return nil
}
