package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
	"github.com/foliolabs/folio/internal/pkg/jwt"
)

type CommentListInput struct {
	Slug string `validate:"required"`
}

type CommentNode struct {
	entity.Comment
	Replies []*CommentNode
}

// CommentList returns the article's comments as a tree ordered by creation
// time within each level.
func (s *Usecase) CommentList(ctx context.Context, in CommentListInput) ([]*CommentNode, error) {
	ctx, span := s.startSpan(ctx, "CommentList")
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

	comments, err := s.repoDB.ListComments(ctx, article.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list comments", "article_id", article.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return buildCommentTree(comments), nil
}

// buildCommentTree links replies under their parents; orphaned replies (the
// parent was deleted) surface at the top level rather than disappearing.
func buildCommentTree(comments []entity.Comment) []*CommentNode {
	nodes := lo.Map(comments, func(c entity.Comment, _ int) *CommentNode {
		return &CommentNode{Comment: c}
	})
	byID := lo.KeyBy(nodes, func(n *CommentNode) int64 {
		return n.ID
	})

	roots := make([]*CommentNode, 0, len(nodes))
	for _, node := range nodes {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}

		parent, ok := byID[*node.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}

	return roots
}
