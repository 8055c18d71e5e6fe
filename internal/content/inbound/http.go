package inbound

import (
	"context"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/content/usecase"
	"github.com/foliolabs/folio/internal/pkg/router"
)

type uc interface {
	ArticleList(ctx context.Context, in usecase.ArticleListInput) (*usecase.ArticleListOutput, error)
	ArticleDetail(ctx context.Context, in usecase.ArticleDetailInput) (*entity.Article, error)
	ArticleCreate(ctx context.Context, in usecase.ArticleCreateInput) (*usecase.ArticleCreateOutput, error)
	ArticleUpdate(ctx context.Context, in usecase.ArticleUpdateInput) error
	ArticleDelete(ctx context.Context, in usecase.ArticleDeleteInput) error
	ArticlePublish(ctx context.Context, in usecase.ArticlePublishInput) error
	ArticleCover(ctx context.Context, in usecase.ArticleCoverInput) error

	TagList(ctx context.Context) ([]entity.Tag, error)

	CommentList(ctx context.Context, in usecase.CommentListInput) ([]*usecase.CommentNode, error)
	CommentCreate(ctx context.Context, in usecase.CommentCreateInput) (*usecase.CommentCreateOutput, error)
	CommentLike(ctx context.Context, in usecase.CommentLikeInput) error
	CommentUnlike(ctx context.Context, in usecase.CommentUnlikeInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Articles (mutations need authentication)
	r.GET("/api/v1/content/articles", end.ArticleList)
	r.GET("/api/v1/content/articles/:slug", end.ArticleDetail)
	r.POST("/api/v1/content/articles", end.ArticleCreate)
	r.PUT("/api/v1/content/articles/:id", end.ArticleUpdate)
	r.DELETE("/api/v1/content/articles/:id", end.ArticleDelete)
	r.POST("/api/v1/content/articles/:id/publish", end.ArticlePublish)
	r.PUT("/api/v1/content/articles/:id/cover", end.ArticleCover)

	// Tags
	r.GET("/api/v1/content/tags", end.TagList)

	// Comments (mutations need authentication)
	r.GET("/api/v1/content/articles/:slug/comments", end.CommentList)
	r.POST("/api/v1/content/comments", end.CommentCreate)
	r.POST("/api/v1/content/comments/:id/like", end.CommentLike)
	r.DELETE("/api/v1/content/comments/:id/like", end.CommentUnlike)
}
