package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/foliolabs/folio/internal/notification/usecase"
	"github.com/foliolabs/folio/internal/pkg/idempotency"
	"github.com/foliolabs/folio/internal/pkg/instrument"
	"github.com/foliolabs/folio/internal/pkg/messaging"
	"github.com/foliolabs/folio/internal/pkg/uid"
	"github.com/foliolabs/folio/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// mapConsumeError keeps redeliveries of an already-handled message from
// cycling through the broker again.
func mapConsumeError(err error) error {
	if errors.Is(err, idempotency.ErrAlreadyCompleted) ||
		errors.Is(err, idempotency.ErrAlreadyInProgress) ||
		errors.Is(err, idempotency.ErrAlreadyFailed) {
		return nil
	}
	return err
}

func (h *MQHandler) UserVerificationCodeNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "UserVerificationCodeNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user verification code notification", "msg_id", msg.ID())

	var payload event.UserVerificationCodeMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user verification code notification", "msg_id", msg.ID(), "error", err)
		return nil
	}

	if err := h.uc.ConsumeUserVerificationCode(ctx, usecase.ConsumeUserVerificationCodeInput{
		MessageID: msg.ID(),
		UserID:    payload.UserID,
		Email:     payload.Email,
		FullName:  payload.FullName,
		Code:      payload.Code,
	}); err != nil {
		err = mapConsumeError(err)
		if err != nil {
			slog.ErrorContext(ctx, "failed to consume user verification code", "msg_id", msg.ID(), "error", err)
		}
		return err
	}

	return nil
}

func (h *MQHandler) UserPasswordResetNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "UserPasswordResetNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user password reset notification", "msg_id", msg.ID())

	var payload event.UserPasswordResetMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user password reset notification", "msg_id", msg.ID(), "error", err)
		return nil
	}

	if err := h.uc.ConsumeUserPasswordReset(ctx, usecase.ConsumeUserPasswordResetInput{
		MessageID: msg.ID(),
		UserID:    payload.UserID,
		Email:     payload.Email,
		FullName:  payload.FullName,
		Code:      payload.Code,
	}); err != nil {
		err = mapConsumeError(err)
		if err != nil {
			slog.ErrorContext(ctx, "failed to consume user password reset", "msg_id", msg.ID(), "error", err)
		}
		return err
	}

	return nil
}
