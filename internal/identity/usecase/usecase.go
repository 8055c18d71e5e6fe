package usecase

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/foliolabs/folio/internal/identity/entity"
	"github.com/foliolabs/folio/internal/pkg/clock"
	"github.com/foliolabs/folio/internal/pkg/config"
	"github.com/foliolabs/folio/internal/pkg/goerror"
	"github.com/foliolabs/folio/internal/pkg/hash"
	"github.com/foliolabs/folio/internal/pkg/instrument"
	"github.com/foliolabs/folio/internal/pkg/jwt"
	"github.com/foliolabs/folio/internal/pkg/otpcode"
	"github.com/foliolabs/folio/internal/pkg/uid"
	"github.com/foliolabs/folio/internal/pkg/validator"
)

type UserVerificationCodeEvent struct {
	UserID   int64
	Email    string
	FullName string
	Code     string
}

type UserPasswordResetEvent struct {
	UserID   int64
	Email    string
	FullName string
	Code     string
}

type repoMessaging interface {
	PublishUserVerificationCode(ctx context.Context, msg UserVerificationCodeEvent) error
	PublishUserPasswordReset(ctx context.Context, msg UserPasswordResetEvent) error
}

type repoDB interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserLoginInfo(ctx context.Context, email string) (*entity.UserLoginInfo, error)
	GetUserCredentialInfo(ctx context.Context, id int64) (*entity.UserCredentialInfo, error)
	GetUserRefreshToken(ctx context.Context, token string) (*entity.UserRefreshToken, error)

	CreateRefreshToken(ctx context.Context, in entity.RefreshToken) error

	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllRefreshToken(ctx context.Context, userID int64) error
	UpdateUserProfile(ctx context.Context, id int64, fullName string) error
	UpdateUserCredential(ctx context.Context, userID int64, hash string) error
	UpdateUserVerification(ctx context.Context, in entity.UpdateUserVerification) error

	NewRegistration(ctx context.Context, user entity.NewUser, hash string) error
	VerifyUserEmail(ctx context.Context, in entity.VerifyUserEmail) error
	ResetUserPassword(ctx context.Context, in entity.ResetUserPassword) error
	RotateRefreshToken(ctx context.Context, in entity.RotateRefreshToken) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	bcrypt        hash.Hash
	uid           uid.NumberID
	uuid          uid.StringID
	engine        *otpcode.Engine
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Bcrypt        hash.Hash
	UID           uid.NumberID
	UUID          uid.StringID
	Engine        *otpcode.Engine
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		uuid:          dep.UUID,
		engine:        dep.Engine,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) ensureUserStatusAllowed(ctx context.Context, userID int64, status entity.UserStatus) error {
	sts := status.Ensure()
	switch sts {
	case entity.UserStatusUnknown:
		slog.WarnContext(ctx, "user account status is unrecognized", "user_id", userID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)

	case entity.UserStatusUnverified:
		slog.WarnContext(ctx, "user account is unverified", "user_id", userID)
		return goerror.NewBusiness("email not verified", goerror.CodeForbidden)

	case entity.UserStatusBanned:
		slog.WarnContext(ctx, "user account is banned", "user_id", userID)
		return goerror.NewBusiness("account is banned", goerror.CodeForbidden)

	case entity.UserStatusInactive:
		slog.WarnContext(ctx, "user account is deactivated", "user_id", userID)
		return goerror.NewBusiness("account is deactivated", goerror.CodeForbidden)

	default:
		return nil
	}
}

// issueVerificationCode draws a fresh code for the user's shared slot and
// persists it guarded by the expiry observed at read time.
func (s *Usecase) issueVerificationCode(ctx context.Context, user *entity.User) (string, error) {
	next, code, err := s.engine.Issue(user.Verification, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue verification code", "user_id", user.ID, "error", err)
		return "", goerror.NewServer(err)
	}

	err = s.repoDB.UpdateUserVerification(ctx, entity.UpdateUserVerification{
		UserID:       user.ID,
		OldExpiresAt: user.Verification.ExpiresAt,
		NewState:     next,
	})
	if errors.Is(err, goerror.ErrNotFound) {
		// Another request replaced the slot between our read and write.
		slog.WarnContext(ctx, "verification slot changed concurrently", "user_id", user.ID)
		return "", goerror.NewBusiness("a code was just requested, please retry shortly", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist verification code", "user_id", user.ID, "error", err)
		return "", goerror.NewServer(err)
	}

	return code, nil
}
