package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

type ArticleCreateInput struct {
	Title string   `validate:"required,min=3,max=200"`
	Body  string   `validate:"required"`
	Tags  []string `validate:"max=10,dive,min=2,max=40"`
}

type ArticleCreateOutput struct {
	ID   int64
	Slug string
}

func (s *Usecase) ArticleCreate(ctx context.Context, in ArticleCreateInput) (*ArticleCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "ArticleCreate")
	defer span.End()

	in.Title = strings.TrimSpace(in.Title)
	in.Tags = normalizeTags(in.Tags)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := s.authorize(ctx, objArticles, actWrite)
	if err != nil {
		return nil, err
	}

	id := s.uid.Generate()
	article := entity.NewArticle{
		ID:       id,
		AuthorID: clm.UserID,
		Slug:     slugify(in.Title, id),
		Title:    in.Title,
		Body:     in.Body,
		Status:   entity.ArticleStatusDraft,
		Tags:     in.Tags,
	}

	if err := s.repoDB.CreateArticle(ctx, article); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("article slug already exists", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create article", "author_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ArticleCreateOutput{ID: article.ID, Slug: article.Slug}, nil
}

// normalizeTags lowercases, trims, and de-duplicates while keeping order.
func normalizeTags(tags []string) []string {
	cleaned := lo.FilterMap(tags, func(tag string, _ int) (string, bool) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		return tag, tag != ""
	})

	return lo.Uniq(cleaned)
}
