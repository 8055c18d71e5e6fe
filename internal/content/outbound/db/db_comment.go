package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

const queryGetCommentByID = `
SELECT c.id, c.article_id, c.parent_id, c.author_id, u.full_name, c.body, c.like_count, c.created_at
FROM comments c
JOIN users u ON u.id = c.author_id
WHERE c.id = $1`

func (s *DB) GetCommentByID(ctx context.Context, id int64) (_ *entity.Comment, err error) {
	ctx, span := s.startSpan(ctx, "GetCommentByID")
	defer func() { s.endSpan(span, err) }()

	var c entity.Comment
	err = s.conn.QueryRow(ctx, queryGetCommentByID, id).Scan(
		&c.ID,
		&c.ArticleID,
		&c.ParentID,
		&c.AuthorID,
		&c.AuthorName,
		&c.Body,
		&c.LikeCount,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &c, nil
}

const queryListComments = `
SELECT c.id, c.article_id, c.parent_id, c.author_id, u.full_name, c.body, c.like_count, c.created_at
FROM comments c
JOIN users u ON u.id = c.author_id
WHERE c.article_id = $1
ORDER BY c.created_at ASC, c.id ASC`

func (s *DB) ListComments(ctx context.Context, articleID int64) (_ []entity.Comment, err error) {
	ctx, span := s.startSpan(ctx, "ListComments")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListComments, articleID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	comments := make([]entity.Comment, 0)
	for rows.Next() {
		var c entity.Comment
		if err = rows.Scan(
			&c.ID,
			&c.ArticleID,
			&c.ParentID,
			&c.AuthorID,
			&c.AuthorName,
			&c.Body,
			&c.LikeCount,
			&c.CreatedAt,
		); err != nil {
			return nil, s.mapError(err)
		}
		comments = append(comments, c)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return comments, nil
}

const queryCreateComment = `
INSERT INTO comments (id, article_id, parent_id, author_id, body)
VALUES ($1, $2, $3, $4, $5)`

func (s *DB) CreateComment(ctx context.Context, in entity.NewComment) (err error) {
	ctx, span := s.startSpan(ctx, "CreateComment")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateComment, in.ID, in.ArticleID, in.ParentID, in.AuthorID, in.Body)
	return s.mapError(err)
}

const queryInsertCommentLike = `
INSERT INTO comment_likes (comment_id, user_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`

const queryIncrementLikeCount = `
UPDATE comments SET like_count = like_count + 1
WHERE id = $1`

// LikeComment is idempotent: the counter only moves when the like row is new.
func (s *DB) LikeComment(ctx context.Context, commentID, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "LikeComment")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer s.rollback(ctx, tx)

	tag, err := tx.Exec(ctx, queryInsertCommentLike, commentID, userID)
	if err != nil {
		return s.mapError(err)
	}

	if tag.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx, queryIncrementLikeCount, commentID); err != nil {
			return s.mapError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

const queryDeleteCommentLike = `
DELETE FROM comment_likes
WHERE comment_id = $1 AND user_id = $2`

const queryDecrementLikeCount = `
UPDATE comments SET like_count = GREATEST(like_count - 1, 0)
WHERE id = $1`

const queryCommentExists = `
SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)`

// UnlikeComment is idempotent: removing an absent like leaves the counter
// alone.
func (s *DB) UnlikeComment(ctx context.Context, commentID, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "UnlikeComment")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer s.rollback(ctx, tx)

	var exists bool
	if err = tx.QueryRow(ctx, queryCommentExists, commentID).Scan(&exists); err != nil {
		return s.mapError(err)
	}
	if !exists {
		return goerror.ErrNotFound
	}

	tag, err := tx.Exec(ctx, queryDeleteCommentLike, commentID, userID)
	if err != nil {
		return s.mapError(err)
	}

	if tag.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx, queryDecrementLikeCount, commentID); err != nil {
			return s.mapError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
