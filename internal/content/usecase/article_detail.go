package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
	"github.com/foliolabs/folio/internal/pkg/jwt"
)

type ArticleDetailInput struct {
	Slug string `validate:"required"`
}

// ArticleDetail returns one article by slug. Drafts are visible to their
// author only; everyone else gets not-found.
func (s *Usecase) ArticleDetail(ctx context.Context, in ArticleDetailInput) (*entity.Article, error) {
	ctx, span := s.startSpan(ctx, "ArticleDetail")
	defer span.End()

	in.Slug = strings.TrimSpace(in.Slug)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	article, err := s.repoDB.GetArticleBySlug(ctx, in.Slug)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("article not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get article by slug", "slug", in.Slug, "error", err)
		return nil, goerror.NewServer(err)
	}

	if article.Status != entity.ArticleStatusPublished {
		clm := jwt.GetAuth(ctx)
		if clm == nil || clm.UserID != article.AuthorID {
			return nil, goerror.NewBusiness("article not found", goerror.CodeNotFound)
		}
	}

	return article, nil
}
