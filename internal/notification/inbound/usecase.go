package inbound

import (
	"context"

	"github.com/foliolabs/folio/internal/notification/usecase"
)

type uc interface {
	ConsumeUserVerificationCode(ctx context.Context, in usecase.ConsumeUserVerificationCodeInput) error
	ConsumeUserPasswordReset(ctx context.Context, in usecase.ConsumeUserPasswordResetInput) error
}
