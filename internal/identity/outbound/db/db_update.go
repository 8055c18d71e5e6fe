package db

import (
	"context"

	"github.com/foliolabs/folio/internal/identity/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

const queryRevokeRefreshToken = `
UPDATE refresh_tokens SET revoked = TRUE
WHERE token = $1 AND revoked = FALSE`

func (s *DB) RevokeRefreshToken(ctx context.Context, token string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryRevokeRefreshToken, token)
	return s.mapError(err)
}

const queryRevokeAllRefreshToken = `
UPDATE refresh_tokens SET revoked = TRUE
WHERE user_id = $1 AND revoked = FALSE`

func (s *DB) RevokeAllRefreshToken(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeAllRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryRevokeAllRefreshToken, userID)
	return s.mapError(err)
}

const queryUpdateUserProfile = `
UPDATE users SET full_name = $2, updated_by = $1, updated_at = NOW()
WHERE id = $1`

func (s *DB) UpdateUserProfile(ctx context.Context, id int64, fullName string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserProfile")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryUpdateUserProfile, id, fullName)
	return s.mapError(err)
}

const queryUpdateUserCredential = `
UPDATE user_credentials SET password = $2, updated_at = NOW()
WHERE user_id = $1`

func (s *DB) UpdateUserCredential(ctx context.Context, userID int64, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserCredential")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryUpdateUserCredential, userID, hash)
	return s.mapError(err)
}

// IS NOT DISTINCT FROM treats two NULLs as equal, so the guard also covers an
// empty slot. Zero rows means another writer replaced the slot first.
const queryUpdateUserVerification = `
UPDATE users
SET verification_code = $2, verification_expires_at = $3, updated_at = NOW()
WHERE id = $1 AND verification_expires_at IS NOT DISTINCT FROM $4`

func (s *DB) UpdateUserVerification(ctx context.Context, in entity.UpdateUserVerification) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserVerification")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryUpdateUserVerification,
		in.UserID, in.NewState.Code, in.NewState.ExpiresAt, in.OldExpiresAt)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

const queryVerifyUserEmail = `
UPDATE users
SET status = $2, verification_code = NULL, verification_expires_at = NULL, updated_at = NOW()
WHERE id = $1 AND status = $3 AND verification_expires_at IS NOT DISTINCT FROM $4`

// VerifyUserEmail activates the account and clears the code slot in one
// guarded statement.
func (s *DB) VerifyUserEmail(ctx context.Context, in entity.VerifyUserEmail) (err error) {
	ctx, span := s.startSpan(ctx, "VerifyUserEmail")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryVerifyUserEmail,
		in.UserID, in.NewStatus, in.OldStatus, in.OldExpiresAt)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
