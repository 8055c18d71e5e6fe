package usecase

import (
	"context"
	"log/slog"

	"github.com/foliolabs/folio/internal/pkg/idempotency"
	"github.com/foliolabs/folio/internal/pkg/mail"
)

type ConsumeUserVerificationCodeInput struct {
	MessageID string
	UserID    int64  `validate:"required,gt=0"`
	Email     string `validate:"required,email"`
	FullName  string `validate:"required,min=5,max=100,alphaspace"`
	Code      string `validate:"required,digits6"`
}

// ConsumeUserVerificationCode mails the verification code. The broker message
// ID keys the redis guard so redeliveries do not send duplicate mail.
func (s *Usecase) ConsumeUserVerificationCode(ctx context.Context, in ConsumeUserVerificationCodeInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserVerificationCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "validation failed", "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = in.FullName
	data["code"] = in.Code

	body, err := s.renderTemplate("verification_code", verificationCodeBody, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render verification email", "user_id", in.UserID, "error", err)
		return nil
	}

	send := func(ctx context.Context) error {
		return s.sendWithRetry(ctx, mail.Message{
			To:       []string{in.Email},
			Subject:  verificationCodeSubject,
			HTMLBody: body,
		})
	}

	if in.MessageID == "" {
		return send(ctx)
	}

	return s.idemp.Exec(ctx, "user_verification_code:"+in.MessageID, send,
		idempotency.WithStateTTL(s.dedupeTTL()))
}
