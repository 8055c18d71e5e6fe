package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

func TestCommentCreate(t *testing.T) {
	published := &entity.Article{ID: 5, AuthorID: 42, Slug: "live-post-5", Status: entity.ArticleStatusPublished}

	t.Run("comment lands on a published article", func(t *testing.T) {
		var created entity.NewComment
		db := &fakeRepoDB{
			getArticleBySlug: func(context.Context, string) (*entity.Article, error) {
				return published, nil
			},
			createComment: func(_ context.Context, in entity.NewComment) error {
				created = in
				return nil
			},
		}

		out, err := newTestUsecase(t, db, nil).CommentCreate(authCtx(7), CommentCreateInput{
			Slug: "live-post-5",
			Body: "  nice write-up  ",
		})
		if err != nil {
			t.Fatalf("CommentCreate() error = %v", err)
		}

		if created.ArticleID != 5 || created.AuthorID != 7 {
			t.Errorf("comment = %+v", created)
		}
		if created.Body != "nice write-up" {
			t.Errorf("body = %q, want trimmed", created.Body)
		}
		if out.ID != created.ID {
			t.Errorf("output id = %d, want %d", out.ID, created.ID)
		}
	})

	t.Run("reply keeps its parent", func(t *testing.T) {
		parentID := int64(30)
		var created entity.NewComment
		db := &fakeRepoDB{
			getArticleBySlug: func(context.Context, string) (*entity.Article, error) {
				return published, nil
			},
			getCommentByID: func(context.Context, int64) (*entity.Comment, error) {
				return &entity.Comment{ID: parentID, ArticleID: 5}, nil
			},
			createComment: func(_ context.Context, in entity.NewComment) error {
				created = in
				return nil
			},
		}

		_, err := newTestUsecase(t, db, nil).CommentCreate(authCtx(7), CommentCreateInput{
			Slug:     "live-post-5",
			ParentID: &parentID,
			Body:     "agreed",
		})
		if err != nil {
			t.Fatalf("CommentCreate() error = %v", err)
		}

		if created.ParentID == nil || *created.ParentID != parentID {
			t.Errorf("parent id = %v, want %d", created.ParentID, parentID)
		}
	})

	t.Run("parent from another article is rejected", func(t *testing.T) {
		parentID := int64(30)
		db := &fakeRepoDB{
			getArticleBySlug: func(context.Context, string) (*entity.Article, error) {
				return published, nil
			},
			getCommentByID: func(context.Context, int64) (*entity.Comment, error) {
				return &entity.Comment{ID: parentID, ArticleID: 99}, nil
			},
		}

		_, err := newTestUsecase(t, db, nil).CommentCreate(authCtx(7), CommentCreateInput{
			Slug:     "live-post-5",
			ParentID: &parentID,
			Body:     "agreed",
		})
		if got := codeOf(t, err); got != goerror.CodeInvalidInput {
			t.Errorf("code = %v, want invalid input", got)
		}
	})

	t.Run("draft article accepts no comments", func(t *testing.T) {
		db := &fakeRepoDB{
			getArticleBySlug: func(context.Context, string) (*entity.Article, error) {
				return &entity.Article{ID: 5, Slug: "draft-post-5", Status: entity.ArticleStatusDraft}, nil
			},
		}

		_, err := newTestUsecase(t, db, nil).CommentCreate(authCtx(7), CommentCreateInput{
			Slug: "draft-post-5",
			Body: "first",
		})
		if got := codeOf(t, err); got != goerror.CodeNotFound {
			t.Errorf("code = %v, want not found", got)
		}
	})

	t.Run("missing parent is not found", func(t *testing.T) {
		parentID := int64(30)
		db := &fakeRepoDB{
			getArticleBySlug: func(context.Context, string) (*entity.Article, error) {
				return published, nil
			},
			getCommentByID: func(context.Context, int64) (*entity.Comment, error) {
				return nil, goerror.ErrNotFound
			},
		}

		_, err := newTestUsecase(t, db, nil).CommentCreate(authCtx(7), CommentCreateInput{
			Slug:     "live-post-5",
			ParentID: &parentID,
			Body:     "agreed",
		})
		if got := codeOf(t, err); got != goerror.CodeNotFound {
			t.Errorf("code = %v, want not found", got)
		}
	})
}

func TestCommentList(t *testing.T) {
	published := &entity.Article{ID: 5, AuthorID: 42, Slug: "live-post-5", Status: entity.ArticleStatusPublished}

	t.Run("flat rows become a tree with orphans on top", func(t *testing.T) {
		missingParent := int64(999)
		parentOf := func(id int64) *int64 { return &id }
		rows := []entity.Comment{
			{ID: 1, ArticleID: 5, CreatedAt: baseTime},
			{ID: 2, ArticleID: 5, ParentID: parentOf(1), CreatedAt: baseTime.Add(time.Minute)},
			{ID: 3, ArticleID: 5, ParentID: parentOf(1), CreatedAt: baseTime.Add(2 * time.Minute)},
			{ID: 4, ArticleID: 5, ParentID: &missingParent, CreatedAt: baseTime.Add(3 * time.Minute)},
		}
		db := &fakeRepoDB{
			getArticleBySlug: func(context.Context, string) (*entity.Article, error) {
				return published, nil
			},
			listComments: func(context.Context, int64) ([]entity.Comment, error) {
				return rows, nil
			},
		}

		tree, err := newTestUsecase(t, db, nil).CommentList(context.Background(), CommentListInput{Slug: "live-post-5"})
		if err != nil {
			t.Fatalf("CommentList() error = %v", err)
		}

		if len(tree) != 2 {
			t.Fatalf("roots = %d, want 2 (comment plus orphan)", len(tree))
		}
		if tree[0].ID != 1 || tree[1].ID != 4 {
			t.Errorf("root ids = %d, %d", tree[0].ID, tree[1].ID)
		}
		if len(tree[0].Replies) != 2 || tree[0].Replies[0].ID != 2 || tree[0].Replies[1].ID != 3 {
			t.Errorf("replies of 1 = %+v", tree[0].Replies)
		}
	})

	t.Run("draft comments are hidden from strangers", func(t *testing.T) {
		db := &fakeRepoDB{
			getArticleBySlug: func(context.Context, string) (*entity.Article, error) {
				return &entity.Article{ID: 5, AuthorID: 42, Slug: "draft-post-5", Status: entity.ArticleStatusDraft}, nil
			},
			listComments: func(context.Context, int64) ([]entity.Comment, error) {
				return nil, nil
			},
		}
		uc := newTestUsecase(t, db, nil)

		if _, err := uc.CommentList(authCtx(42), CommentListInput{Slug: "draft-post-5"}); err != nil {
			t.Fatalf("author view error = %v", err)
		}

		_, err := uc.CommentList(context.Background(), CommentListInput{Slug: "draft-post-5"})
		if got := codeOf(t, err); got != goerror.CodeNotFound {
			t.Errorf("code = %v, want not found", got)
		}
	})
}

func TestCommentLike(t *testing.T) {
	t.Run("like reaches the repo with the caller's id", func(t *testing.T) {
		var gotComment, gotUser int64
		db := &fakeRepoDB{
			likeComment: func(_ context.Context, commentID, userID int64) error {
				gotComment, gotUser = commentID, userID
				return nil
			},
		}

		if err := newTestUsecase(t, db, nil).CommentLike(authCtx(7), CommentLikeInput{CommentID: 30}); err != nil {
			t.Fatalf("CommentLike() error = %v", err)
		}
		if gotComment != 30 || gotUser != 7 {
			t.Errorf("like = comment %d by user %d", gotComment, gotUser)
		}
	})

	t.Run("unknown comment is not found", func(t *testing.T) {
		db := &fakeRepoDB{
			likeComment: func(context.Context, int64, int64) error {
				return goerror.ErrNotFound
			},
		}

		err := newTestUsecase(t, db, nil).CommentLike(authCtx(7), CommentLikeInput{CommentID: 30})
		if got := codeOf(t, err); got != goerror.CodeNotFound {
			t.Errorf("code = %v, want not found", got)
		}
	})

	t.Run("unlike tolerates a like that never happened", func(t *testing.T) {
		db := &fakeRepoDB{
			unlikeComment: func(context.Context, int64, int64) error {
				return nil
			},
		}

		if err := newTestUsecase(t, db, nil).CommentUnlike(authCtx(7), CommentUnlikeInput{CommentID: 30}); err != nil {
			t.Fatalf("CommentUnlike() error = %v", err)
		}
	})

	t.Run("anonymous caller cannot like", func(t *testing.T) {
		err := newTestUsecase(t, &fakeRepoDB{}, nil).CommentLike(context.Background(), CommentLikeInput{CommentID: 30})
		if got := codeOf(t, err); got != goerror.CodeUnauthorized {
			t.Errorf("code = %v, want unauthorized", got)
		}
	})
}
