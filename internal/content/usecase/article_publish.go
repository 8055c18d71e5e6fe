package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

type ArticlePublishInput struct {
	ID int64 `validate:"required,gt=0"`
}

func (s *Usecase) ArticlePublish(ctx context.Context, in ArticlePublishInput) error {
	ctx, span := s.startSpan(ctx, "ArticlePublish")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	article, err := s.repoDB.GetArticleByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("article not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get article by id", "article_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	if _, err := s.authorizeOwner(ctx, article.AuthorID, objArticles); err != nil {
		return err
	}

	if article.Status == entity.ArticleStatusPublished {
		return nil
	}

	if err := s.repoDB.PublishArticle(ctx, in.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo publish article", "article_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
