package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
	"github.com/foliolabs/folio/internal/pkg/jwt"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type ArticleListInput struct {
	Tag    string
	Mine   bool
	Limit  int32
	Offset int32
}

type ArticleListOutput struct {
	Articles []entity.Article
	Total    int64
}

// ArticleList returns published articles. Authenticated callers asking for
// their own articles also see drafts.
func (s *Usecase) ArticleList(ctx context.Context, in ArticleListInput) (*ArticleListOutput, error) {
	ctx, span := s.startSpan(ctx, "ArticleList")
	defer span.End()

	if in.Limit <= 0 {
		in.Limit = defaultListLimit
	}
	if in.Limit > maxListLimit {
		in.Limit = maxListLimit
	}
	if in.Offset < 0 {
		in.Offset = 0
	}

	filter := entity.ArticleListFilter{
		PublishedOnly: true,
		Tag:           strings.ToLower(strings.TrimSpace(in.Tag)),
		Limit:         in.Limit,
		Offset:        in.Offset,
	}

	if in.Mine {
		clm := jwt.GetAuth(ctx)
		if clm == nil {
			return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
		}
		filter.AuthorID = clm.UserID
		filter.PublishedOnly = false
	}

	articles, total, err := s.repoDB.ListArticles(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list articles", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ArticleListOutput{Articles: articles, Total: total}, nil
}
