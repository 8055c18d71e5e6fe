package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/foliolabs/folio/internal/content/entity"
)

const queryGetUserRole = `
SELECT role FROM users WHERE id = $1`

func (s *DB) GetUserRole(ctx context.Context, userID int64) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "GetUserRole")
	defer func() { s.endSpan(span, err) }()

	var role string
	if err = s.conn.QueryRow(ctx, queryGetUserRole, userID).Scan(&role); err != nil {
		return "", s.mapError(err)
	}

	return role, nil
}

const queryArticleColumns = `
SELECT a.id, a.author_id, u.full_name, a.slug, a.title, a.body, a.cover_url, a.status,
       a.published_at, a.created_at, a.updated_at,
       COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.name IS NOT NULL), '{}')
FROM articles a
JOIN users u ON u.id = a.author_id
LEFT JOIN article_tags at2 ON at2.article_id = a.id
LEFT JOIN tags t ON t.id = at2.tag_id`

const queryArticleGroupBy = `
GROUP BY a.id, u.full_name`

func (s *DB) scanArticle(row interface{ Scan(dest ...any) error }) (*entity.Article, error) {
	var a entity.Article
	err := row.Scan(
		&a.ID,
		&a.AuthorID,
		&a.AuthorName,
		&a.Slug,
		&a.Title,
		&a.Body,
		&a.CoverURL,
		&a.Status,
		&a.PublishedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.Tags,
	)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (s *DB) GetArticleByID(ctx context.Context, id int64) (_ *entity.Article, err error) {
	ctx, span := s.startSpan(ctx, "GetArticleByID")
	defer func() { s.endSpan(span, err) }()

	query := queryArticleColumns + "\nWHERE a.id = $1" + queryArticleGroupBy
	article, err := s.scanArticle(s.conn.QueryRow(ctx, query, id))
	if err != nil {
		return nil, s.mapError(err)
	}

	return article, nil
}

func (s *DB) GetArticleBySlug(ctx context.Context, slug string) (_ *entity.Article, err error) {
	ctx, span := s.startSpan(ctx, "GetArticleBySlug")
	defer func() { s.endSpan(span, err) }()

	query := queryArticleColumns + "\nWHERE a.slug = $1" + queryArticleGroupBy
	article, err := s.scanArticle(s.conn.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, s.mapError(err)
	}

	return article, nil
}

func (s *DB) ListArticles(ctx context.Context, filter entity.ArticleListFilter) (_ []entity.Article, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "ListArticles")
	defer func() { s.endSpan(span, err) }()

	conds := make([]string, 0, 3)
	args := make([]any, 0, 5)

	if filter.PublishedOnly {
		args = append(args, entity.ArticleStatusPublished)
		conds = append(conds, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if filter.AuthorID != 0 {
		args = append(args, filter.AuthorID)
		conds = append(conds, fmt.Sprintf("a.author_id = $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM article_tags x JOIN tags xt ON xt.id = x.tag_id WHERE x.article_id = a.id AND xt.name = $%d)",
			len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "\nWHERE " + strings.Join(conds, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM articles a" + where
	var total int64
	if err = s.conn.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, s.mapError(err)
	}

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, filter.Offset)
	offsetPos := len(args)

	query := queryArticleColumns + where + queryArticleGroupBy +
		fmt.Sprintf("\nORDER BY a.created_at DESC\nLIMIT $%d OFFSET $%d", limitPos, offsetPos)

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	articles := make([]entity.Article, 0)
	for rows.Next() {
		article, err := s.scanArticle(rows)
		if err != nil {
			return nil, 0, s.mapError(err)
		}
		articles = append(articles, *article)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return articles, total, nil
}

const queryListTags = `
SELECT id, name, usage_count
FROM tags
WHERE usage_count > 0
ORDER BY usage_count DESC, name ASC`

func (s *DB) ListTags(ctx context.Context) (_ []entity.Tag, err error) {
	ctx, span := s.startSpan(ctx, "ListTags")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListTags)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	tags := make([]entity.Tag, 0)
	for rows.Next() {
		var t entity.Tag
		if err = rows.Scan(&t.ID, &t.Name, &t.UsageCount); err != nil {
			return nil, s.mapError(err)
		}
		tags = append(tags, t)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return tags, nil
}
