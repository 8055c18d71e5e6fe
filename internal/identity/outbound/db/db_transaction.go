package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/foliolabs/folio/internal/identity/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

const queryCreateUser = `
INSERT INTO users (id, email, full_name, avatar_url, status, verification_code, verification_expires_at, created_by, updated_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const queryCreateUserCredential = `
INSERT INTO user_credentials (user_id, password)
VALUES ($1, $2)`

func (s *DB) NewRegistration(ctx context.Context, user entity.NewUser, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "NewRegistration")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if _, err := tx.Exec(ctx, queryCreateUser,
		user.ID, user.Email, user.FullName, user.AvatarURL, user.Status,
		user.Verification.Code, user.Verification.ExpiresAt,
		user.CreatedBy, user.UpdatedBy,
	); err != nil {
		return s.mapError(err)
	}

	if _, err := tx.Exec(ctx, queryCreateUserCredential, user.ID, hash); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

const queryClearVerification = `
UPDATE users
SET verification_code = NULL, verification_expires_at = NULL, updated_at = NOW()
WHERE id = $1 AND verification_expires_at IS NOT DISTINCT FROM $2`

// ResetUserPassword swaps the credential hash, clears the code slot, and
// revokes every refresh token in one transaction. The guarded clear runs
// first so a concurrent re-issue aborts the whole reset.
func (s *DB) ResetUserPassword(ctx context.Context, in entity.ResetUserPassword) (err error) {
	ctx, span := s.startSpan(ctx, "ResetUserPassword")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	tag, err := tx.Exec(ctx, queryClearVerification, in.UserID, in.OldExpiresAt)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	if _, err := tx.Exec(ctx, queryUpdateUserCredential, in.UserID, in.NewHash); err != nil {
		return s.mapError(err)
	}

	if _, err := tx.Exec(ctx, queryRevokeAllRefreshToken, in.UserID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

const queryRevokeRotatedToken = `
UPDATE refresh_tokens
SET revoked = TRUE, replaced_by_token_id = $2
WHERE id = $1 AND revoked = FALSE`

func (s *DB) RotateRefreshToken(ctx context.Context, in entity.RotateRefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	tag, err := tx.Exec(ctx, queryRevokeRotatedToken, in.OldID, in.NewID)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	if _, err := tx.Exec(ctx, queryCreateRefreshToken,
		in.NewID, in.UserID, in.NewToken, in.NewExpiresAt,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
