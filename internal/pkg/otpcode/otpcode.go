// Package otpcode implements the one-time verification code engine shared by
// the e-mail verification and password reset flows.
//
// The engine is pure: it computes next states and answers questions about a
// State but performs no I/O. Callers load the State, call the engine, and
// persist whatever comes back. Each user has at most one active code, shared
// across both flows, so issuing a code for one flow replaces the other's.
package otpcode

import (
	"crypto/rand"
	"io"
	"math/big"
	"strconv"
	"time"
)

const (
	// Lifetime is how long an issued code stays valid.
	Lifetime = 100 * time.Second

	// ResendWindow is the trailing slice of the lifetime during which a
	// replacement code may be requested. With a 100s lifetime a code issued
	// at T blocks resends until T+60s.
	ResendWindow = 40 * time.Second

	codeMin  = 100000
	codeSpan = 900000 // codes are uniform over [100000, 999999]
)

// State is a user's verification-code slot. Both fields are set while a code
// is outstanding and both are nil otherwise; no other combination occurs.
type State struct {
	Code      *string
	ExpiresAt *time.Time
}

// Active reports whether a code is outstanding, expired or not.
func (s State) Active() bool {
	return s.Code != nil && s.ExpiresAt != nil
}

// Engine issues and checks codes. The random source is injected so tests can
// script the drawn code; the zero value is not usable, construct with New.
type Engine struct {
	rand io.Reader
}

// New returns an Engine drawing codes from crypto/rand.
func New() *Engine {
	return &Engine{rand: rand.Reader}
}

// NewWithRand returns an Engine drawing codes from r.
func NewWithRand(r io.Reader) *Engine {
	return &Engine{rand: r}
}

// CanResend reports whether a new code may be issued at now. A resend is
// allowed when no code is outstanding, or when the outstanding code has at
// most ResendWindow of lifetime left. Any time after expiry also qualifies,
// so stale state never wedges a user.
func (*Engine) CanResend(s State, now time.Time) bool {
	if !s.Active() {
		return true
	}
	return s.ExpiresAt.Sub(now) <= ResendWindow
}

// Issue draws a fresh 6-digit code expiring Lifetime after now and returns
// the replacement state plus the plaintext code for delivery. Any previous
// code is unconditionally superseded; throttling is CanResend's job, not
// Issue's. The caller persists the state and hands the code to the mailer.
func (e *Engine) Issue(_ State, now time.Time) (State, string, error) {
	n, err := rand.Int(e.rand, big.NewInt(codeSpan))
	if err != nil {
		return State{}, "", err
	}

	code := strconv.FormatInt(codeMin+n.Int64(), 10)
	expiresAt := now.Add(Lifetime)

	return State{Code: &code, ExpiresAt: &expiresAt}, code, nil
}

// Validate reports whether submitted matches the outstanding code at now.
// The match is exact string equality (leading zeros and length matter) and
// the code must not have reached its expiry instant. Validate never mutates
// state; callers clear the slot themselves once their side effects commit.
func (*Engine) Validate(s State, submitted string, now time.Time) bool {
	if !s.Active() {
		return false
	}
	return *s.Code == submitted && now.Before(*s.ExpiresAt)
}

// Clear returns the empty slot. Clearing an already-empty state is a no-op.
func (*Engine) Clear(State) State {
	return State{}
}
