package entity

import "time"

type Article struct {
	ID          int64
	AuthorID    int64
	AuthorName  string
	Slug        string
	Title       string
	Body        string
	CoverURL    string
	Status      ArticleStatus
	Tags        []string
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type NewArticle struct {
	ID       int64
	AuthorID int64
	Slug     string
	Title    string
	Body     string
	Status   ArticleStatus
	Tags     []string
}

type UpdateArticle struct {
	ID    int64
	Title string
	Body  string
	Tags  []string
}

type ArticleListFilter struct {
	// AuthorID limits results to one author when non-zero.
	AuthorID int64
	// PublishedOnly hides drafts; always set for anonymous readers.
	PublishedOnly bool
	Tag           string
	Limit         int32
	Offset        int32
}

type Tag struct {
	ID         int64
	Name       string
	UsageCount int64
}

type Comment struct {
	ID         int64
	ArticleID  int64
	ParentID   *int64
	AuthorID   int64
	AuthorName string
	Body       string
	LikeCount  int64
	CreatedAt  time.Time
}

type NewComment struct {
	ID        int64
	ArticleID int64
	ParentID  *int64
	AuthorID  int64
	Body      string
}
