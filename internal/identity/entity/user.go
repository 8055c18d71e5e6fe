package entity

import (
	"time"

	"github.com/foliolabs/folio/internal/pkg/otpcode"
)

type User struct {
	ID        int64
	Email     string
	FullName  string
	AvatarURL string
	Status    UserStatus
	// Verification is the single one-time-code slot shared by the e-mail
	// verification and password reset flows.
	Verification otpcode.State
	UpdatedAt    time.Time
}

type NewUser struct {
	ID           int64
	Email        string
	FullName     string
	AvatarURL    string
	Status       UserStatus
	Verification otpcode.State
	CreatedBy    int64
	UpdatedBy    int64
}

type UserCredential struct {
	UserID    int64
	Password  string // hashed
	UpdatedAt time.Time
}

type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	Revoked   bool
}

// ---- //

type UserLoginInfo struct {
	ID       int64
	Email    string
	Status   UserStatus
	Password string
}

type UserCredentialInfo struct {
	ID       int64
	Email    string
	Status   UserStatus
	Password string
}

type RotateRefreshToken struct {
	NewID        int64
	OldID        int64
	UserID       int64
	NewToken     string
	NewExpiresAt time.Time
}

type UserRefreshToken struct {
	UserID                   int64
	UserEmail                string
	UserStatus               UserStatus
	RefreshID                int64
	RefreshToken             string
	RefreshRevoked           bool
	RefreshReplacedByTokenID *int64
	RefreshExpiresAt         time.Time
}

// UpdateUserVerification replaces the user's one-time-code slot. OldExpiresAt
// carries the expiry observed when the slot was read; the write only lands
// when the row still holds that expiry.
type UpdateUserVerification struct {
	UserID       int64
	OldExpiresAt *time.Time
	NewState     otpcode.State
}

// VerifyUserEmail activates the user and clears the code slot in one
// transaction, guarded by the expiry read alongside the validated code.
type VerifyUserEmail struct {
	UserID       int64
	OldExpiresAt *time.Time
	OldStatus    UserStatus
	NewStatus    UserStatus
}

// ResetUserPassword swaps the credential hash, clears the code slot, and
// revokes every refresh token for the user in one transaction.
type ResetUserPassword struct {
	UserID       int64
	NewHash      string
	OldExpiresAt *time.Time
}
