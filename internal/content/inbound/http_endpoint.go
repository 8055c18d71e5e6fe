package inbound

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/foliolabs/folio/internal/content/usecase"
	"github.com/foliolabs/folio/internal/pkg/goerror"
	"github.com/foliolabs/folio/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for articles, tags, and comments.
type HTTPEndpoint struct {
	uc uc
}

// ArticleList returns a page of published articles, filterable by tag. With
// mine=true it returns the caller's own articles including drafts.
func (h *HTTPEndpoint) ArticleList(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ArticleList(r.Context(), usecase.ArticleListInput{
		Tag:    r.GetQuery("tag"),
		Mine:   r.GetQuery("mine") == "true",
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	articles := make([]ArticleResponse, 0, len(resp.Articles))
	for _, article := range resp.Articles {
		articles = append(articles, newArticleResponse(article))
	}

	return ArticleListResponse{
		Articles: articles,
		Total:    resp.Total,
	}, nil
}

// ArticleDetail returns one article by slug.
func (h *HTTPEndpoint) ArticleDetail(r *router.Request) (any, error) {
	article, err := h.uc.ArticleDetail(r.Context(), usecase.ArticleDetailInput{Slug: r.GetParam("slug")})
	if err != nil {
		return nil, err
	}

	return newArticleResponse(*article), nil
}

// ArticleCreate creates a draft article.
func (h *HTTPEndpoint) ArticleCreate(r *router.Request) (any, error) {
	var req ArticleCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ArticleCreate(r.Context(), usecase.ArticleCreateInput{
		Title: req.Title,
		Body:  req.Body,
		Tags:  req.Tags,
	})
	if err != nil {
		return nil, err
	}

	return ArticleCreateResponse{
		ID:   resp.ID,
		Slug: resp.Slug,
	}, nil
}

// ArticleUpdate replaces the article's title, body, and tags.
func (h *HTTPEndpoint) ArticleUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req ArticleUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.ArticleUpdate(r.Context(), usecase.ArticleUpdateInput{
		ID:    id,
		Title: req.Title,
		Body:  req.Body,
		Tags:  req.Tags,
	})
}

// ArticleDelete removes the article with its comments and tag links.
func (h *HTTPEndpoint) ArticleDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.ArticleDelete(r.Context(), usecase.ArticleDeleteInput{ID: id})
}

// ArticlePublish makes a draft article publicly visible.
func (h *HTTPEndpoint) ArticlePublish(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.ArticlePublish(r.Context(), usecase.ArticlePublishInput{ID: id})
}

// ArticleCover uploads a cover image for the article.
func (h *HTTPEndpoint) ArticleCover(r *router.Request) (any, error) {
	ctx := r.Context()

	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	file, err := r.StreamSingleFile("cover")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close file", "error", err)
		}
	}()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, goerror.NewInvalidFormat()
	}

	return nil, h.uc.ArticleCover(ctx, usecase.ArticleCoverInput{
		ID:          id,
		File:        io.MultiReader(bytes.NewReader(head[:n]), file),
		ContentType: http.DetectContentType(head[:n]),
	})
}

// TagList returns every tag currently attached to at least one article.
func (h *HTTPEndpoint) TagList(r *router.Request) (any, error) {
	tags, err := h.uc.TagList(r.Context())
	if err != nil {
		return nil, err
	}

	resp := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		resp = append(resp, TagResponse{
			ID:         tag.ID,
			Name:       tag.Name,
			UsageCount: tag.UsageCount,
		})
	}

	return resp, nil
}

// CommentList returns the article's comment tree.
func (h *HTTPEndpoint) CommentList(r *router.Request) (any, error) {
	nodes, err := h.uc.CommentList(r.Context(), usecase.CommentListInput{Slug: r.GetParam("slug")})
	if err != nil {
		return nil, err
	}

	resp := make([]CommentResponse, 0, len(nodes))
	for _, node := range nodes {
		resp = append(resp, newCommentResponse(node))
	}

	return resp, nil
}

// CommentCreate adds a comment, or a reply when parent_id is set.
func (h *HTTPEndpoint) CommentCreate(r *router.Request) (any, error) {
	var req CommentCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CommentCreate(r.Context(), usecase.CommentCreateInput{
		Slug:     req.Slug,
		ParentID: req.ParentID,
		Body:     req.Body,
	})
	if err != nil {
		return nil, err
	}

	return CommentCreateResponse{ID: resp.ID}, nil
}

// CommentLike records the caller's like on a comment.
func (h *HTTPEndpoint) CommentLike(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.CommentLike(r.Context(), usecase.CommentLikeInput{CommentID: id})
}

// CommentUnlike removes the caller's like from a comment.
func (h *HTTPEndpoint) CommentUnlike(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.CommentUnlike(r.Context(), usecase.CommentUnlikeInput{CommentID: id})
}
