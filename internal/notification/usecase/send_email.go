package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/foliolabs/folio/internal/pkg/mail"
)

// sendWithRetry pushes the message through SMTP with exponential backoff.
// Transient failures get a bounded number of attempts; the final error is the
// caller's to log.
func (s *Usecase) sendWithRetry(ctx context.Context, msg mail.Message) error {
	backoff := retry.NewExponential(500 * time.Millisecond)
	backoff = retry.WithMaxRetries(s.maxSendRetries(), backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.repoMail.Send(ctx, msg); err != nil {
			slog.WarnContext(ctx, "email send attempt failed", "to", msg.To, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (s *Usecase) maxSendRetries() uint64 {
	n := s.cfg.GetInt64("modules.notification.max_send_retries")
	if n < 0 {
		return 0
	}
	return uint64(n)
}
