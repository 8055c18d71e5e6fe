package usecase

import (
	"context"
	"log/slog"

	"github.com/foliolabs/folio/internal/pkg/idempotency"
	"github.com/foliolabs/folio/internal/pkg/mail"
)

type ConsumeUserPasswordResetInput struct {
	MessageID string
	UserID    int64  `validate:"required,gt=0"`
	Email     string `validate:"required,email"`
	FullName  string `validate:"required,min=5,max=100,alphaspace"`
	Code      string `validate:"required,digits6"`
}

// ConsumeUserPasswordReset mails the password reset code, deduplicated by
// broker message ID.
func (s *Usecase) ConsumeUserPasswordReset(ctx context.Context, in ConsumeUserPasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserPasswordReset")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "validation failed", "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = in.FullName
	data["code"] = in.Code

	body, err := s.renderTemplate("password_reset", passwordResetBody, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render password reset email", "user_id", in.UserID, "error", err)
		return nil
	}

	send := func(ctx context.Context) error {
		return s.sendWithRetry(ctx, mail.Message{
			To:       []string{in.Email},
			Subject:  passwordResetSubject,
			HTMLBody: body,
		})
	}

	if in.MessageID == "" {
		return send(ctx)
	}

	return s.idemp.Exec(ctx, "user_password_reset:"+in.MessageID, send,
		idempotency.WithStateTTL(s.dedupeTTL()))
}
