package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foliolabs/folio/internal/identity/entity"
	"github.com/foliolabs/folio/internal/pkg/clock"
	"github.com/foliolabs/folio/internal/pkg/config"
	"github.com/foliolabs/folio/internal/pkg/goerror"
	"github.com/foliolabs/folio/internal/pkg/instrument"
	"github.com/foliolabs/folio/internal/pkg/jwt"
	"github.com/foliolabs/folio/internal/pkg/otpcode"
	"github.com/foliolabs/folio/internal/pkg/validator"
)

var baseTime = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

// zeroReader makes the otp engine deterministic: all-zero draws always
// produce the code "100000".
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

const scriptedCode = "100000"

type fakeRepoDB struct {
	getUserByEmail        func(ctx context.Context, email string) (*entity.User, error)
	getUserLoginInfo      func(ctx context.Context, email string) (*entity.UserLoginInfo, error)
	getUserCredentialInfo func(ctx context.Context, id int64) (*entity.UserCredentialInfo, error)
	getUserRefreshToken   func(ctx context.Context, token string) (*entity.UserRefreshToken, error)
	createRefreshToken    func(ctx context.Context, in entity.RefreshToken) error
	revokeRefreshToken    func(ctx context.Context, token string) error
	revokeAllRefreshToken func(ctx context.Context, userID int64) error
	updateUserProfile     func(ctx context.Context, id int64, fullName string) error
	updateUserCredential  func(ctx context.Context, userID int64, hash string) error
	updateVerification    func(ctx context.Context, in entity.UpdateUserVerification) error
	newRegistration       func(ctx context.Context, user entity.NewUser, hash string) error
	verifyUserEmail       func(ctx context.Context, in entity.VerifyUserEmail) error
	resetUserPassword     func(ctx context.Context, in entity.ResetUserPassword) error
	rotateRefreshToken    func(ctx context.Context, in entity.RotateRefreshToken) error
}

func (f *fakeRepoDB) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	if f.getUserByEmail == nil {
		panic("unexpected call GetUserByEmail")
	}
	return f.getUserByEmail(ctx, email)
}

func (f *fakeRepoDB) GetUserLoginInfo(ctx context.Context, email string) (*entity.UserLoginInfo, error) {
	if f.getUserLoginInfo == nil {
		panic("unexpected call GetUserLoginInfo")
	}
	return f.getUserLoginInfo(ctx, email)
}

func (f *fakeRepoDB) GetUserCredentialInfo(ctx context.Context, id int64) (*entity.UserCredentialInfo, error) {
	if f.getUserCredentialInfo == nil {
		panic("unexpected call GetUserCredentialInfo")
	}
	return f.getUserCredentialInfo(ctx, id)
}

func (f *fakeRepoDB) GetUserRefreshToken(ctx context.Context, token string) (*entity.UserRefreshToken, error) {
	if f.getUserRefreshToken == nil {
		panic("unexpected call GetUserRefreshToken")
	}
	return f.getUserRefreshToken(ctx, token)
}

func (f *fakeRepoDB) CreateRefreshToken(ctx context.Context, in entity.RefreshToken) error {
	if f.createRefreshToken == nil {
		panic("unexpected call CreateRefreshToken")
	}
	return f.createRefreshToken(ctx, in)
}

func (f *fakeRepoDB) RevokeRefreshToken(ctx context.Context, token string) error {
	if f.revokeRefreshToken == nil {
		panic("unexpected call RevokeRefreshToken")
	}
	return f.revokeRefreshToken(ctx, token)
}

func (f *fakeRepoDB) RevokeAllRefreshToken(ctx context.Context, userID int64) error {
	if f.revokeAllRefreshToken == nil {
		panic("unexpected call RevokeAllRefreshToken")
	}
	return f.revokeAllRefreshToken(ctx, userID)
}

func (f *fakeRepoDB) UpdateUserProfile(ctx context.Context, id int64, fullName string) error {
	if f.updateUserProfile == nil {
		panic("unexpected call UpdateUserProfile")
	}
	return f.updateUserProfile(ctx, id, fullName)
}

func (f *fakeRepoDB) UpdateUserCredential(ctx context.Context, userID int64, hash string) error {
	if f.updateUserCredential == nil {
		panic("unexpected call UpdateUserCredential")
	}
	return f.updateUserCredential(ctx, userID, hash)
}

func (f *fakeRepoDB) UpdateUserVerification(ctx context.Context, in entity.UpdateUserVerification) error {
	if f.updateVerification == nil {
		panic("unexpected call UpdateUserVerification")
	}
	return f.updateVerification(ctx, in)
}

func (f *fakeRepoDB) NewRegistration(ctx context.Context, user entity.NewUser, hash string) error {
	if f.newRegistration == nil {
		panic("unexpected call NewRegistration")
	}
	return f.newRegistration(ctx, user, hash)
}

func (f *fakeRepoDB) VerifyUserEmail(ctx context.Context, in entity.VerifyUserEmail) error {
	if f.verifyUserEmail == nil {
		panic("unexpected call VerifyUserEmail")
	}
	return f.verifyUserEmail(ctx, in)
}

func (f *fakeRepoDB) ResetUserPassword(ctx context.Context, in entity.ResetUserPassword) error {
	if f.resetUserPassword == nil {
		panic("unexpected call ResetUserPassword")
	}
	return f.resetUserPassword(ctx, in)
}

func (f *fakeRepoDB) RotateRefreshToken(ctx context.Context, in entity.RotateRefreshToken) error {
	if f.rotateRefreshToken == nil {
		panic("unexpected call RotateRefreshToken")
	}
	return f.rotateRefreshToken(ctx, in)
}

type fakeMessaging struct {
	verificationEvents []UserVerificationCodeEvent
	resetEvents        []UserPasswordResetEvent
	err                error
}

func (f *fakeMessaging) PublishUserVerificationCode(_ context.Context, msg UserVerificationCodeEvent) error {
	f.verificationEvents = append(f.verificationEvents, msg)
	return f.err
}

func (f *fakeMessaging) PublishUserPasswordReset(_ context.Context, msg UserPasswordResetEvent) error {
	f.resetEvents = append(f.resetEvents, msg)
	return f.err
}

// fakeHash prefixes plaintexts so tests can predict stored values.
type fakeHash struct {
	prefix string
}

func (f fakeHash) Hash(plaintext string) ([]byte, error) {
	return []byte(f.prefix + plaintext), nil
}

func (f fakeHash) Verify(hashed, plaintext string) bool {
	return hashed == f.prefix+plaintext
}

type fakeNumberID struct {
	next int64
}

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeStringID struct {
	value string
}

func (f fakeStringID) Generate() string { return f.value }

type fakeJWT struct {
	token string
	err   error
}

func (f fakeJWT) Generate(int64, string) (string, error) { return f.token, f.err }

func (f fakeJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{}, nil }

const testConfigYAML = `
modules:
  identity:
    refresh_token_ttl_days: 30
`

func newTestUsecase(t *testing.T, db *fakeRepoDB, msg *fakeMessaging) *Usecase {
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

	return New(Dependency{
		RepoDB:        db,
		RepoMessaging: msg,
		Validator:     v,
		Config:        cfg,
		HMAC:          fakeHash{prefix: "hmac:"},
		Bcrypt:        fakeHash{prefix: "bcrypt:"},
		UID:           &fakeNumberID{},
		UUID:          fakeStringID{value: "refresh-uuid"},
		Engine:        otpcode.NewWithRand(zeroReader{}),
		Clock:         clock.Fixed{T: baseTime},
		JWT:           fakeJWT{token: "access-token"},
		Instrument:    instrument.NewNoop(),
	})
}

func activeVerification(code string, expiresAt time.Time) otpcode.State {
	return otpcode.State{Code: &code, ExpiresAt: &expiresAt}
}

// codeOf unwraps the goerror code, failing the test for foreign errors.
func codeOf(t *testing.T, err error) goerror.Code {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("error %v is not a goerror", err)
	}
	return ge.Code()
}
