package db

import (
	"context"

	"github.com/foliolabs/folio/internal/identity/entity"
	"github.com/foliolabs/folio/internal/pkg/otpcode"
)

const queryGetUserByEmail = `
SELECT id, email, full_name, avatar_url, status, verification_code, verification_expires_at, updated_at
FROM users
WHERE email = $1`

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	var user entity.User
	var verification otpcode.State
	err = s.conn.QueryRow(ctx, queryGetUserByEmail, email).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.AvatarURL,
		&user.Status,
		&verification.Code,
		&verification.ExpiresAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	user.Verification = verification
	return &user, nil
}

const queryGetUserLoginInfo = `
SELECT u.id, u.email, u.status, c.password
FROM users u
JOIN user_credentials c ON c.user_id = u.id
WHERE u.email = $1`

func (s *DB) GetUserLoginInfo(ctx context.Context, email string) (_ *entity.UserLoginInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserLoginInfo")
	defer func() { s.endSpan(span, err) }()

	var info entity.UserLoginInfo
	err = s.conn.QueryRow(ctx, queryGetUserLoginInfo, email).Scan(
		&info.ID,
		&info.Email,
		&info.Status,
		&info.Password,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &info, nil
}

const queryGetUserCredentialInfo = `
SELECT u.id, u.email, u.status, c.password
FROM users u
JOIN user_credentials c ON c.user_id = u.id
WHERE u.id = $1`

func (s *DB) GetUserCredentialInfo(ctx context.Context, id int64) (_ *entity.UserCredentialInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserCredentialInfo")
	defer func() { s.endSpan(span, err) }()

	var info entity.UserCredentialInfo
	err = s.conn.QueryRow(ctx, queryGetUserCredentialInfo, id).Scan(
		&info.ID,
		&info.Email,
		&info.Status,
		&info.Password,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &info, nil
}

const queryGetUserRefreshToken = `
SELECT u.id, u.email, u.status, r.id, r.token, r.revoked, r.replaced_by_token_id, r.expires_at
FROM refresh_tokens r
JOIN users u ON u.id = r.user_id
WHERE r.token = $1`

func (s *DB) GetUserRefreshToken(ctx context.Context, token string) (_ *entity.UserRefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetUserRefreshToken")
	defer func() { s.endSpan(span, err) }()

	var rt entity.UserRefreshToken
	err = s.conn.QueryRow(ctx, queryGetUserRefreshToken, token).Scan(
		&rt.UserID,
		&rt.UserEmail,
		&rt.UserStatus,
		&rt.RefreshID,
		&rt.RefreshToken,
		&rt.RefreshRevoked,
		&rt.RefreshReplacedByTokenID,
		&rt.RefreshExpiresAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &rt, nil
}
