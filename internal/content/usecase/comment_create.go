package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

type CommentCreateInput struct {
	Slug     string `validate:"required"`
	ParentID *int64
	Body     string `validate:"required,min=1,max=2000"`
}

type CommentCreateOutput struct {
	ID int64
}

// CommentCreate adds a comment to a published article. A reply's parent must
// belong to the same article.
func (s *Usecase) CommentCreate(ctx context.Context, in CommentCreateInput) (*CommentCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "CommentCreate")
	defer span.End()

	in.Body = strings.TrimSpace(in.Body)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := s.authorize(ctx, objComments, actWrite)
	if err != nil {
		return nil, err
	}

	article, err := s.repoDB.GetArticleBySlug(ctx, strings.TrimSpace(in.Slug))
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("article not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get article by slug", "slug", in.Slug, "error", err)
		return nil, goerror.NewServer(err)
	}

	if article.Status != entity.ArticleStatusPublished {
		return nil, goerror.NewBusiness("article not found", goerror.CodeNotFound)
	}

	if in.ParentID != nil {
		parent, err := s.repoDB.GetCommentByID(ctx, *in.ParentID)
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, goerror.NewBusiness("parent comment not found", goerror.CodeNotFound)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get comment by id", "comment_id", *in.ParentID, "error", err)
			return nil, goerror.NewServer(err)
		}

		if parent.ArticleID != article.ID {
			return nil, goerror.NewBusiness("parent comment belongs to another article", goerror.CodeInvalidInput)
		}
	}

	comment := entity.NewComment{
		ID:        s.uid.Generate(),
		ArticleID: article.ID,
		ParentID:  in.ParentID,
		AuthorID:  clm.UserID,
		Body:      in.Body,
	}

	if err := s.repoDB.CreateComment(ctx, comment); err != nil {
		slog.ErrorContext(ctx, "failed to repo create comment", "article_id", article.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &CommentCreateOutput{ID: comment.ID}, nil
}
