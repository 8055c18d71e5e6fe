package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/foliolabs/folio/internal/pkg/clock"
	"github.com/foliolabs/folio/internal/pkg/config"
	"github.com/foliolabs/folio/internal/pkg/idempotency"
	"github.com/foliolabs/folio/internal/pkg/instrument"
	"github.com/foliolabs/folio/internal/pkg/mail"
	"github.com/foliolabs/folio/internal/pkg/validator"
)

var baseTime = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

// fakeMail records deliveries and can fail the first failures attempts.
type fakeMail struct {
	sent     []mail.Message
	failures int
	attempts int
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	f.attempts++
	if f.attempts <= f.failures {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

// fakeIdemp runs fn unless the key was seen before, recording every key.
type fakeIdemp struct {
	keys []string
	seen map[string]bool
}

func (f *fakeIdemp) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	panic("unexpected call Acquire")
}

func (f *fakeIdemp) MarkCompleted(context.Context, string, time.Duration) error {
	panic("unexpected call MarkCompleted")
}

func (f *fakeIdemp) MarkFailed(context.Context, string, time.Duration) error {
	panic("unexpected call MarkFailed")
}

func (f *fakeIdemp) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	f.keys = append(f.keys, key)
	if f.seen[key] {
		return idempotency.ErrAlreadyCompleted
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	f.seen[key] = true
	return fn(ctx)
}

const testConfigYAML = `
app:
  name: Folio
modules:
  notification:
    support_email: support@folio.dev
    dedupe_ttl_minutes: 60
    max_send_retries: 2
`

func newTestUsecase(t *testing.T, m *fakeMail, idemp *fakeIdemp) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	t.Cleanup(func() { cfg.Close() })

	return NewNotification(Dependency{
		RepoMail:    m,
		Idempotency: idemp,
		Config:      cfg,
		Clock:       clock.Fixed{T: baseTime},
		Validator:   v,
		Instrument:  instrument.NewNoop(),
	})
}

func validVerificationInput() ConsumeUserVerificationCodeInput {
	return ConsumeUserVerificationCodeInput{
		MessageID: "msg-1",
		UserID:    9,
		Email:     "user@example.com",
		FullName:  "Some User",
		Code:      "246810",
	}
}

func TestConsumeUserVerificationCode(t *testing.T) {
	t.Run("delivers the code once per broker message", func(t *testing.T) {
		m := &fakeMail{}
		idemp := &fakeIdemp{}
		uc := newTestUsecase(t, m, idemp)

		if err := uc.ConsumeUserVerificationCode(context.Background(), validVerificationInput()); err != nil {
			t.Fatalf("ConsumeUserVerificationCode() error = %v", err)
		}

		if len(m.sent) != 1 {
			t.Fatalf("sent %d mails, want 1", len(m.sent))
		}
		msg := m.sent[0]
		if len(msg.To) != 1 || msg.To[0] != "user@example.com" {
			t.Errorf("to = %v", msg.To)
		}
		if msg.Subject != "Verify your email address" {
			t.Errorf("subject = %q", msg.Subject)
		}
		for _, want := range []string{"Some User", "246810", "Folio", "support@folio.dev", "2026"} {
			if !strings.Contains(msg.HTMLBody, want) {
				t.Errorf("body missing %q", want)
			}
		}

		if len(idemp.keys) != 1 || idemp.keys[0] != "user_verification_code:msg-1" {
			t.Errorf("idempotency keys = %v", idemp.keys)
		}

		// redelivery of the same message id must not mail again
		err := uc.ConsumeUserVerificationCode(context.Background(), validVerificationInput())
		if !errors.Is(err, idempotency.ErrAlreadyCompleted) {
			t.Errorf("redelivery error = %v", err)
		}
		if len(m.sent) != 1 {
			t.Errorf("redelivery sent %d extra mails", len(m.sent)-1)
		}
	})

	t.Run("missing message id skips the dedupe guard", func(t *testing.T) {
		m := &fakeMail{}
		idemp := &fakeIdemp{}
		in := validVerificationInput()
		in.MessageID = ""

		if err := newTestUsecase(t, m, idemp).ConsumeUserVerificationCode(context.Background(), in); err != nil {
			t.Fatalf("ConsumeUserVerificationCode() error = %v", err)
		}
		if len(m.sent) != 1 {
			t.Errorf("sent %d mails, want 1", len(m.sent))
		}
		if len(idemp.keys) != 0 {
			t.Errorf("idempotency keys = %v, want none", idemp.keys)
		}
	})

	t.Run("malformed payload is dropped, not retried", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*ConsumeUserVerificationCodeInput)
		}{
			{name: "bad email", mutate: func(in *ConsumeUserVerificationCodeInput) { in.Email = "nope" }},
			{name: "bad code", mutate: func(in *ConsumeUserVerificationCodeInput) { in.Code = "12345" }},
			{name: "missing name", mutate: func(in *ConsumeUserVerificationCodeInput) { in.FullName = "" }},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				m := &fakeMail{}
				in := validVerificationInput()
				tc.mutate(&in)

				if err := newTestUsecase(t, m, &fakeIdemp{}).ConsumeUserVerificationCode(context.Background(), in); err != nil {
					t.Fatalf("error = %v, want nil so the broker does not redeliver", err)
				}
				if len(m.sent) != 0 {
					t.Errorf("sent %d mails, want none", len(m.sent))
				}
			})
		}
	})

	t.Run("transient smtp failure is retried", func(t *testing.T) {
		m := &fakeMail{failures: 1}

		if err := newTestUsecase(t, m, &fakeIdemp{}).ConsumeUserVerificationCode(context.Background(), validVerificationInput()); err != nil {
			t.Fatalf("ConsumeUserVerificationCode() error = %v", err)
		}
		if m.attempts != 2 || len(m.sent) != 1 {
			t.Errorf("attempts = %d, sent = %d", m.attempts, len(m.sent))
		}
	})
}

func TestConsumeUserPasswordReset(t *testing.T) {
	in := ConsumeUserPasswordResetInput{
		MessageID: "msg-9",
		UserID:    3,
		Email:     "user@example.com",
		FullName:  "Some User",
		Code:      "135790",
	}

	m := &fakeMail{}
	idemp := &fakeIdemp{}

	if err := newTestUsecase(t, m, idemp).ConsumeUserPasswordReset(context.Background(), in); err != nil {
		t.Fatalf("ConsumeUserPasswordReset() error = %v", err)
	}

	if len(m.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(m.sent))
	}
	msg := m.sent[0]
	if msg.Subject != "Reset your password" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.HTMLBody, "135790") {
		t.Error("body missing the reset code")
	}
	if len(idemp.keys) != 1 || idemp.keys[0] != "user_password_reset:msg-9" {
		t.Errorf("idempotency keys = %v", idemp.keys)
	}
}
