package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/foliolabs/folio/internal/pkg/goerror"
)

type ArticleDeleteInput struct {
	ID int64 `validate:"required,gt=0"`
}

func (s *Usecase) ArticleDelete(ctx context.Context, in ArticleDeleteInput) error {
	ctx, span := s.startSpan(ctx, "ArticleDelete")
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

	if err := s.repoDB.DeleteArticle(ctx, in.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete article", "article_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
