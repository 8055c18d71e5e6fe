package usecase

import (
	"context"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
	"github.com/foliolabs/folio/internal/pkg/storage"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		id    int64
		want  string
	}{
		{name: "plain title", title: "Hello World", id: 35, want: "hello-world-z"},
		{name: "punctuation collapses", title: "  Go, Concurrency & You!  ", id: 36, want: "go-concurrency-you-10"},
		{name: "only symbols falls back", title: "!!!", id: 35, want: "article-z"},
		{name: "empty falls back", title: "", id: 35, want: "article-z"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := slugify(tc.title, tc.id); got != tc.want {
				t.Errorf("slugify(%q, %d) = %q, want %q", tc.title, tc.id, got, tc.want)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	got := normalizeTags([]string{" Go ", "go", "Databases", "", "  ", "databases", "sql"})
	want := []string{"go", "databases", "sql"}

	if len(got) != len(want) {
		t.Fatalf("normalizeTags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestArticleList(t *testing.T) {
	t.Run("anonymous defaults to published with a clamped page", func(t *testing.T) {
		tests := []struct {
			name       string
			in         ArticleListInput
			wantLimit  int32
			wantOffset int32
		}{
			{name: "zero limit uses default", in: ArticleListInput{}, wantLimit: 20},
			{name: "oversized limit is capped", in: ArticleListInput{Limit: 500}, wantLimit: 100},
			{name: "negative offset resets", in: ArticleListInput{Limit: 10, Offset: -3}, wantLimit: 10},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				var captured entity.ArticleListFilter
				db := &fakeRepoDB{
					listArticles: func(_ context.Context, filter entity.ArticleListFilter) ([]entity.Article, int64, error) {
						captured = filter
						return nil, 0, nil
					},
				}

				_, err := newTestUsecase(t, db, nil).ArticleList(context.Background(), tc.in)
				if err != nil {
					t.Fatalf("ArticleList() error = %v", err)
				}

				if !captured.PublishedOnly {
					t.Error("anonymous listing must be published-only")
				}
				if captured.Limit != tc.wantLimit || captured.Offset != tc.wantOffset {
					t.Errorf("page = %d/%d, want %d/%d", captured.Limit, captured.Offset, tc.wantLimit, tc.wantOffset)
				}
			})
		}
	})

	t.Run("mine includes the caller's drafts", func(t *testing.T) {
		var captured entity.ArticleListFilter
		db := &fakeRepoDB{
			listArticles: func(_ context.Context, filter entity.ArticleListFilter) ([]entity.Article, int64, error) {
				captured = filter
				return []entity.Article{{ID: 1}}, 1, nil
			},
		}

		out, err := newTestUsecase(t, db, nil).ArticleList(authCtx(42), ArticleListInput{Mine: true})
		if err != nil {
			t.Fatalf("ArticleList() error = %v", err)
		}

		if captured.AuthorID != 42 {
			t.Errorf("author filter = %d, want 42", captured.AuthorID)
		}
		if captured.PublishedOnly {
			t.Error("own listing must include drafts")
		}
		if out.Total != 1 {
			t.Errorf("total = %d, want 1", out.Total)
		}
	})

	t.Run("mine without authentication is rejected", func(t *testing.T) {
		_, err := newTestUsecase(t, &fakeRepoDB{}, nil).ArticleList(context.Background(), ArticleListInput{Mine: true})
		if got := codeOf(t, err); got != goerror.CodeUnauthorized {
			t.Errorf("code = %v, want unauthorized", got)
		}
	})
}

func TestArticleDetail(t *testing.T) {
	draft := &entity.Article{ID: 5, AuthorID: 42, Slug: "draft-post-5", Status: entity.ArticleStatusDraft}

	t.Run("published article is public", func(t *testing.T) {
		db := &fakeRepoDB{
			getArticleBySlug: func(context.Context, string) (*entity.Article, error) {
				return &entity.Article{ID: 5, Slug: "live-post-5", Status: entity.ArticleStatusPublished}, nil
			},
		}

		article, err := newTestUsecase(t, db, nil).ArticleDetail(context.Background(), ArticleDetailInput{Slug: "live-post-5"})
		if err != nil {
			t.Fatalf("ArticleDetail() error = %v", err)
		}
		if article.ID != 5 {
			t.Errorf("article id = %d, want 5", article.ID)
		}
	})

	t.Run("draft is visible to its author only", func(t *testing.T) {
		db := &fakeRepoDB{
			getArticleBySlug: func(context.Context, string) (*entity.Article, error) {
				return draft, nil
			},
		}
		uc := newTestUsecase(t, db, nil)

		if _, err := uc.ArticleDetail(authCtx(42), ArticleDetailInput{Slug: "draft-post-5"}); err != nil {
			t.Fatalf("author view error = %v", err)
		}

		for name, ctx := range map[string]context.Context{
			"anonymous":  context.Background(),
			"other user": authCtx(7),
		} {
			if _, err := uc.ArticleDetail(ctx, ArticleDetailInput{Slug: "draft-post-5"}); codeOf(t, err) != goerror.CodeNotFound {
				t.Errorf("%s: draft leaked, err = %v", name, err)
			}
		}
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		db := &fakeRepoDB{
			getArticleBySlug: func(context.Context, string) (*entity.Article, error) {
				return nil, goerror.ErrNotFound
			},
		}

		_, err := newTestUsecase(t, db, nil).ArticleDetail(context.Background(), ArticleDetailInput{Slug: "nope"})
		if got := codeOf(t, err); got != goerror.CodeNotFound {
			t.Errorf("code = %v, want not found", got)
		}
	})
}

func TestArticleCreate(t *testing.T) {
	t.Run("success creates a draft owned by the caller", func(t *testing.T) {
		var created entity.NewArticle
		db := &fakeRepoDB{
			createArticle: func(_ context.Context, in entity.NewArticle) error {
				created = in
				return nil
			},
		}

		out, err := newTestUsecase(t, db, nil).ArticleCreate(authCtx(42), ArticleCreateInput{
			Title: "  My First Post  ",
			Body:  "hello",
			Tags:  []string{"Go", "go", " Web "},
		})
		if err != nil {
			t.Fatalf("ArticleCreate() error = %v", err)
		}

		if created.AuthorID != 42 {
			t.Errorf("author id = %d, want 42", created.AuthorID)
		}
		if created.Status != entity.ArticleStatusDraft {
			t.Errorf("status = %v, want draft", created.Status)
		}
		if want := "my-first-post-" + strconv.FormatInt(created.ID, 36); created.Slug != want {
			t.Errorf("slug = %q, want %q", created.Slug, want)
		}
		if len(created.Tags) != 2 || created.Tags[0] != "go" || created.Tags[1] != "web" {
			t.Errorf("tags = %v, want [go web]", created.Tags)
		}
		if out.Slug != created.Slug {
			t.Errorf("output slug = %q, want %q", out.Slug, created.Slug)
		}
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		_, err := newTestUsecase(t, &fakeRepoDB{}, nil).ArticleCreate(context.Background(), ArticleCreateInput{
			Title: "My First Post",
			Body:  "hello",
		})
		if got := codeOf(t, err); got != goerror.CodeUnauthorized {
			t.Errorf("code = %v, want unauthorized", got)
		}
	})

	t.Run("role outside the policy is forbidden", func(t *testing.T) {
		db := &fakeRepoDB{
			getUserRole: func(context.Context, int64) (string, error) {
				return "reader", nil
			},
		}

		_, err := newTestUsecase(t, db, nil).ArticleCreate(authCtx(42), ArticleCreateInput{
			Title: "My First Post",
			Body:  "hello",
		})
		if got := codeOf(t, err); got != goerror.CodeForbidden {
			t.Errorf("code = %v, want forbidden", got)
		}
	})

	t.Run("slug collision maps to conflict", func(t *testing.T) {
		db := &fakeRepoDB{
			createArticle: func(context.Context, entity.NewArticle) error {
				return goerror.ErrConflict
			},
		}

		_, err := newTestUsecase(t, db, nil).ArticleCreate(authCtx(42), ArticleCreateInput{
			Title: "My First Post",
			Body:  "hello",
		})
		if got := codeOf(t, err); got != goerror.CodeConflict {
			t.Errorf("code = %v, want conflict", got)
		}
	})

	t.Run("short title fails validation", func(t *testing.T) {
		_, err := newTestUsecase(t, &fakeRepoDB{}, nil).ArticleCreate(authCtx(42), ArticleCreateInput{
			Title: "ab",
			Body:  "hello",
		})
		if got := codeOf(t, err); got != goerror.CodeInvalidInput {
			t.Errorf("code = %v, want invalid input", got)
		}
	})
}

func TestArticlePublish(t *testing.T) {
	draft := &entity.Article{ID: 5, AuthorID: 42, Status: entity.ArticleStatusDraft}

	t.Run("owner publishes a draft", func(t *testing.T) {
		published := false
		db := &fakeRepoDB{
			getArticleByID: func(context.Context, int64) (*entity.Article, error) {
				return draft, nil
			},
			publishArticle: func(_ context.Context, id int64) error {
				published = id == 5
				return nil
			},
		}

		if err := newTestUsecase(t, db, nil).ArticlePublish(authCtx(42), ArticlePublishInput{ID: 5}); err != nil {
			t.Fatalf("ArticlePublish() error = %v", err)
		}
		if !published {
			t.Error("article was not published")
		}
	})

	t.Run("admin publishes someone else's draft", func(t *testing.T) {
		db := &fakeRepoDB{
			getArticleByID: func(context.Context, int64) (*entity.Article, error) {
				return draft, nil
			},
			getUserRole: func(context.Context, int64) (string, error) {
				return "admin", nil
			},
			publishArticle: func(context.Context, int64) error { return nil },
		}

		if err := newTestUsecase(t, db, nil).ArticlePublish(authCtx(7), ArticlePublishInput{ID: 5}); err != nil {
			t.Fatalf("ArticlePublish() error = %v", err)
		}
	})

	t.Run("non-owner author is forbidden", func(t *testing.T) {
		db := &fakeRepoDB{
			getArticleByID: func(context.Context, int64) (*entity.Article, error) {
				return draft, nil
			},
		}

		err := newTestUsecase(t, db, nil).ArticlePublish(authCtx(7), ArticlePublishInput{ID: 5})
		if got := codeOf(t, err); got != goerror.CodeForbidden {
			t.Errorf("code = %v, want forbidden", got)
		}
	})

	t.Run("publishing twice is a no-op", func(t *testing.T) {
		db := &fakeRepoDB{
			getArticleByID: func(context.Context, int64) (*entity.Article, error) {
				return &entity.Article{ID: 5, AuthorID: 42, Status: entity.ArticleStatusPublished}, nil
			},
		}

		if err := newTestUsecase(t, db, nil).ArticlePublish(authCtx(42), ArticlePublishInput{ID: 5}); err != nil {
			t.Fatalf("ArticlePublish() error = %v", err)
		}
	})
}

func TestArticleCover(t *testing.T) {
	article := &entity.Article{ID: 5, AuthorID: 42, Status: entity.ArticleStatusDraft}

	t.Run("upload stores the object and records its URL", func(t *testing.T) {
		var gotBucket, gotKey, gotURL string
		db := &fakeRepoDB{
			getArticleByID: func(context.Context, int64) (*entity.Article, error) {
				return article, nil
			},
			updateArticleCover: func(_ context.Context, _ int64, coverURL string) error {
				gotURL = coverURL
				return nil
			},
		}
		st := &fakeStorage{
			putObject: func(_ context.Context, bucket, key string, r io.Reader, opts storage.PutOptions) (storage.ObjectInfo, error) {
				gotBucket, gotKey = bucket, key
				if _, err := io.Copy(io.Discard, r); err != nil {
					return storage.ObjectInfo{}, err
				}
				return storage.ObjectInfo{Bucket: bucket, Key: key}, nil
			},
		}

		err := newTestUsecase(t, db, st).ArticleCover(authCtx(42), ArticleCoverInput{
			ID:          5,
			File:        strings.NewReader("tiny png bits"),
			ContentType: "image/png",
		})
		if err != nil {
			t.Fatalf("ArticleCover() error = %v", err)
		}

		if gotBucket != "covers" {
			t.Errorf("bucket = %q, want covers", gotBucket)
		}
		if gotKey != "5/object-uuid.png" {
			t.Errorf("key = %q", gotKey)
		}
		if gotURL != "https://cdn.example.com/covers/5/object-uuid.png" {
			t.Errorf("cover url = %q", gotURL)
		}
	})

	t.Run("oversized upload fails before storage accepts it", func(t *testing.T) {
		db := &fakeRepoDB{
			getArticleByID: func(context.Context, int64) (*entity.Article, error) {
				return article, nil
			},
		}
		st := &fakeStorage{
			putObject: func(_ context.Context, _, _ string, r io.Reader, _ storage.PutOptions) (storage.ObjectInfo, error) {
				_, err := io.Copy(io.Discard, r)
				return storage.ObjectInfo{}, err
			},
		}

		// test config caps covers at 16 bytes
		err := newTestUsecase(t, db, st).ArticleCover(authCtx(42), ArticleCoverInput{
			ID:          5,
			File:        strings.NewReader(strings.Repeat("x", 17)),
			ContentType: "image/jpeg",
		})
		if got := codeOf(t, err); got != goerror.CodeInvalidInput {
			t.Errorf("code = %v, want invalid input", got)
		}
	})

	t.Run("unsupported content type is rejected", func(t *testing.T) {
		err := newTestUsecase(t, &fakeRepoDB{}, nil).ArticleCover(authCtx(42), ArticleCoverInput{
			ID:          5,
			File:        strings.NewReader("GIF89a"),
			ContentType: "image/gif",
		})
		if got := codeOf(t, err); got != goerror.CodeInvalidInput {
			t.Errorf("code = %v, want invalid input", got)
		}
	})
}
