package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

const queryCreateArticle = `
INSERT INTO articles (id, author_id, slug, title, body, status)
VALUES ($1, $2, $3, $4, $5, $6)`

func (s *DB) CreateArticle(ctx context.Context, in entity.NewArticle) (err error) {
	ctx, span := s.startSpan(ctx, "CreateArticle")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer s.rollback(ctx, tx)

	if _, err := tx.Exec(ctx, queryCreateArticle,
		in.ID, in.AuthorID, in.Slug, in.Title, in.Body, in.Status,
	); err != nil {
		return s.mapError(err)
	}

	if err := s.attachTags(ctx, tx, in.ID, in.Tags); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

const queryUpdateArticle = `
UPDATE articles SET title = $2, body = $3, updated_at = NOW()
WHERE id = $1`

const queryGetArticleTagNames = `
SELECT t.name
FROM article_tags at2
JOIN tags t ON t.id = at2.tag_id
WHERE at2.article_id = $1`

func (s *DB) UpdateArticle(ctx context.Context, in entity.UpdateArticle) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateArticle")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer s.rollback(ctx, tx)

	tag, err := tx.Exec(ctx, queryUpdateArticle, in.ID, in.Title, in.Body)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	current, err := s.articleTagNames(ctx, tx, in.ID)
	if err != nil {
		return s.mapError(err)
	}

	next := make(map[string]struct{}, len(in.Tags))
	for _, name := range in.Tags {
		next[name] = struct{}{}
	}

	removed := make([]string, 0)
	for _, name := range current {
		if _, keep := next[name]; !keep {
			removed = append(removed, name)
		}
	}

	existing := make(map[string]struct{}, len(current))
	for _, name := range current {
		existing[name] = struct{}{}
	}
	added := make([]string, 0)
	for _, name := range in.Tags {
		if _, have := existing[name]; !have {
			added = append(added, name)
		}
	}

	if err := s.detachTags(ctx, tx, in.ID, removed); err != nil {
		return s.mapError(err)
	}
	if err := s.attachTags(ctx, tx, in.ID, added); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) DeleteArticle(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteArticle")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer s.rollback(ctx, tx)

	names, err := s.articleTagNames(ctx, tx, id)
	if err != nil {
		return s.mapError(err)
	}
	if err := s.detachTags(ctx, tx, id, names); err != nil {
		return s.mapError(err)
	}

	// comments and article_tags rows go with the article via ON DELETE CASCADE
	tag, err := tx.Exec(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

const queryPublishArticle = `
UPDATE articles SET status = $2, published_at = NOW(), updated_at = NOW()
WHERE id = $1 AND status <> $2`

func (s *DB) PublishArticle(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "PublishArticle")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryPublishArticle, id, entity.ArticleStatusPublished)
	return s.mapError(err)
}

const queryUpdateArticleCover = `
UPDATE articles SET cover_url = $2, updated_at = NOW()
WHERE id = $1`

func (s *DB) UpdateArticleCover(ctx context.Context, id int64, coverURL string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateArticleCover")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryUpdateArticleCover, id, coverURL)
	return s.mapError(err)
}

const queryUpsertTag = `
INSERT INTO tags (name, usage_count)
VALUES ($1, 1)
ON CONFLICT (name) DO UPDATE SET usage_count = tags.usage_count + 1
RETURNING id`

const queryAttachTag = `
INSERT INTO article_tags (article_id, tag_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`

// attachTags links names to the article, bumping usage_count inside the same
// transaction.
func (s *DB) attachTags(ctx context.Context, tx pgx.Tx, articleID int64, names []string) error {
	for _, name := range names {
		var tagID int64
		if err := tx.QueryRow(ctx, queryUpsertTag, name).Scan(&tagID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, queryAttachTag, articleID, tagID); err != nil {
			return err
		}
	}

	return nil
}

const queryDetachTag = `
DELETE FROM article_tags
WHERE article_id = $1 AND tag_id = (SELECT id FROM tags WHERE name = $2)`

const queryDecrementTag = `
UPDATE tags SET usage_count = GREATEST(usage_count - 1, 0)
WHERE name = $1`

func (s *DB) detachTags(ctx context.Context, tx pgx.Tx, articleID int64, names []string) error {
	for _, name := range names {
		tag, err := tx.Exec(ctx, queryDetachTag, articleID, name)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			continue
		}
		if _, err := tx.Exec(ctx, queryDecrementTag, name); err != nil {
			return err
		}
	}

	return nil
}

func (s *DB) articleTagNames(ctx context.Context, tx pgx.Tx, articleID int64) ([]string, error) {
	rows, err := tx.Query(ctx, queryGetArticleTagNames, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
