package inbound

import (
	"time"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/content/usecase"
)

type ArticleResponse struct {
	ID          int64      `json:"id,string"`
	AuthorID    int64      `json:"author_id,string"`
	AuthorName  string     `json:"author_name"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	CoverURL    string     `json:"cover_url"`
	Status      string     `json:"status"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newArticleResponse(a entity.Article) ArticleResponse {
	return ArticleResponse{
		ID:          a.ID,
		AuthorID:    a.AuthorID,
		AuthorName:  a.AuthorName,
		Slug:        a.Slug,
		Title:       a.Title,
		Body:        a.Body,
		CoverURL:    a.CoverURL,
		Status:      a.Status.String(),
		Tags:        a.Tags,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

type ArticleListResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Total    int64             `json:"total"`
}

type ArticleCreateRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

type ArticleCreateResponse struct {
	ID   int64  `json:"id,string"`
	Slug string `json:"slug"`
}

type ArticleUpdateRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

type TagResponse struct {
	ID         int64  `json:"id,string"`
	Name       string `json:"name"`
	UsageCount int64  `json:"usage_count"`
}

type CommentResponse struct {
	ID         int64             `json:"id,string"`
	ParentID   *int64            `json:"parent_id,omitempty"`
	AuthorID   int64             `json:"author_id,string"`
	AuthorName string            `json:"author_name"`
	Body       string            `json:"body"`
	LikeCount  int64             `json:"like_count"`
	CreatedAt  time.Time         `json:"created_at"`
	Replies    []CommentResponse `json:"replies"`
}

func newCommentResponse(node *usecase.CommentNode) CommentResponse {
	replies := make([]CommentResponse, 0, len(node.Replies))
	for _, reply := range node.Replies {
		replies = append(replies, newCommentResponse(reply))
	}

	return CommentResponse{
		ID:         node.ID,
		ParentID:   node.ParentID,
		AuthorID:   node.AuthorID,
		AuthorName: node.AuthorName,
		Body:       node.Body,
		LikeCount:  node.LikeCount,
		CreatedAt:  node.CreatedAt,
		Replies:    replies,
	}
}

type CommentCreateRequest struct {
	Slug     string `json:"slug"`
	ParentID *int64 `json:"parent_id"`
	Body     string `json:"body"`
}

type CommentCreateResponse struct {
	ID int64 `json:"id,string"`
}
