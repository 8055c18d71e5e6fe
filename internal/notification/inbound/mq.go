package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/foliolabs/folio/internal/pkg/config"
	"github.com/foliolabs/folio/internal/pkg/goroutine"
	"github.com/foliolabs/folio/internal/pkg/instrument"
	"github.com/foliolabs/folio/internal/pkg/messaging"
	"github.com/foliolabs/folio/internal/pkg/uid"
	"github.com/foliolabs/folio/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	var consumers = []struct {
		name             string
		topic            string // destination where publisher sent message
		nsqConsumerName  string // for nsq
		natsConsumerName string // for nats
		handler          messaging.Handler
	}{
		{
			name:             event.UserVerificationCodeConsumerNotification,
			topic:            event.UserVerificationCodeDestination,
			nsqConsumerName:  event.UserVerificationCodeConsumerNotification,
			natsConsumerName: event.UserVerificationCodeConsumerNotification,
			handler:          mqHandler.UserVerificationCodeNotification,
		},
		{
			name:             event.UserPasswordResetConsumerNotification,
			topic:            event.UserPasswordResetDestination,
			nsqConsumerName:  event.UserPasswordResetConsumerNotification,
			natsConsumerName: event.UserPasswordResetConsumerNotification,
			handler:          mqHandler.UserPasswordResetNotification,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.nsqConsumerName),
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
