package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

type ArticleUpdateInput struct {
	ID    int64    `validate:"required,gt=0"`
	Title string   `validate:"required,min=3,max=200"`
	Body  string   `validate:"required"`
	Tags  []string `validate:"max=10,dive,min=2,max=40"`
}

func (s *Usecase) ArticleUpdate(ctx context.Context, in ArticleUpdateInput) error {
	ctx, span := s.startSpan(ctx, "ArticleUpdate")
	defer span.End()

	in.Title = strings.TrimSpace(in.Title)
	in.Tags = normalizeTags(in.Tags)

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

	if err := s.repoDB.UpdateArticle(ctx, entity.UpdateArticle{
		ID:    in.ID,
		Title: in.Title,
		Body:  in.Body,
		Tags:  in.Tags,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo update article", "article_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
