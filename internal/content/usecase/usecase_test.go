package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/clock"
	"github.com/foliolabs/folio/internal/pkg/config"
	"github.com/foliolabs/folio/internal/pkg/goerror"
	"github.com/foliolabs/folio/internal/pkg/instrument"
	"github.com/foliolabs/folio/internal/pkg/jwt"
	"github.com/foliolabs/folio/internal/pkg/storage"
	"github.com/foliolabs/folio/internal/pkg/validator"
)

var baseTime = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type fakeRepoDB struct {
	getUserRole        func(ctx context.Context, userID int64) (string, error)
	getArticleByID     func(ctx context.Context, id int64) (*entity.Article, error)
	getArticleBySlug   func(ctx context.Context, slug string) (*entity.Article, error)
	listArticles       func(ctx context.Context, filter entity.ArticleListFilter) ([]entity.Article, int64, error)
	listTags           func(ctx context.Context) ([]entity.Tag, error)
	getCommentByID     func(ctx context.Context, id int64) (*entity.Comment, error)
	listComments       func(ctx context.Context, articleID int64) ([]entity.Comment, error)
	createArticle      func(ctx context.Context, in entity.NewArticle) error
	updateArticle      func(ctx context.Context, in entity.UpdateArticle) error
	deleteArticle      func(ctx context.Context, id int64) error
	publishArticle     func(ctx context.Context, id int64) error
	updateArticleCover func(ctx context.Context, id int64, coverURL string) error
	createComment      func(ctx context.Context, in entity.NewComment) error
	likeComment        func(ctx context.Context, commentID, userID int64) error
	unlikeComment      func(ctx context.Context, commentID, userID int64) error
}

func (f *fakeRepoDB) GetUserRole(ctx context.Context, userID int64) (string, error) {
	if f.getUserRole == nil {
		return "author", nil
	}
	return f.getUserRole(ctx, userID)
}

func (f *fakeRepoDB) GetArticleByID(ctx context.Context, id int64) (*entity.Article, error) {
	if f.getArticleByID == nil {
		panic("unexpected call GetArticleByID")
	}
	return f.getArticleByID(ctx, id)
}

func (f *fakeRepoDB) GetArticleBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	if f.getArticleBySlug == nil {
		panic("unexpected call GetArticleBySlug")
	}
	return f.getArticleBySlug(ctx, slug)
}

func (f *fakeRepoDB) ListArticles(ctx context.Context, filter entity.ArticleListFilter) ([]entity.Article, int64, error) {
	if f.listArticles == nil {
		panic("unexpected call ListArticles")
	}
	return f.listArticles(ctx, filter)
}

func (f *fakeRepoDB) ListTags(ctx context.Context) ([]entity.Tag, error) {
	if f.listTags == nil {
		panic("unexpected call ListTags")
	}
	return f.listTags(ctx)
}

func (f *fakeRepoDB) GetCommentByID(ctx context.Context, id int64) (*entity.Comment, error) {
	if f.getCommentByID == nil {
		panic("unexpected call GetCommentByID")
	}
	return f.getCommentByID(ctx, id)
}

func (f *fakeRepoDB) ListComments(ctx context.Context, articleID int64) ([]entity.Comment, error) {
	if f.listComments == nil {
		panic("unexpected call ListComments")
	}
	return f.listComments(ctx, articleID)
}

func (f *fakeRepoDB) CreateArticle(ctx context.Context, in entity.NewArticle) error {
	if f.createArticle == nil {
		panic("unexpected call CreateArticle")
	}
	return f.createArticle(ctx, in)
}

func (f *fakeRepoDB) UpdateArticle(ctx context.Context, in entity.UpdateArticle) error {
	if f.updateArticle == nil {
		panic("unexpected call UpdateArticle")
	}
	return f.updateArticle(ctx, in)
}

func (f *fakeRepoDB) DeleteArticle(ctx context.Context, id int64) error {
	if f.deleteArticle == nil {
		panic("unexpected call DeleteArticle")
	}
	return f.deleteArticle(ctx, id)
}

func (f *fakeRepoDB) PublishArticle(ctx context.Context, id int64) error {
	if f.publishArticle == nil {
		panic("unexpected call PublishArticle")
	}
	return f.publishArticle(ctx, id)
}

func (f *fakeRepoDB) UpdateArticleCover(ctx context.Context, id int64, coverURL string) error {
	if f.updateArticleCover == nil {
		panic("unexpected call UpdateArticleCover")
	}
	return f.updateArticleCover(ctx, id, coverURL)
}

func (f *fakeRepoDB) CreateComment(ctx context.Context, in entity.NewComment) error {
	if f.createComment == nil {
		panic("unexpected call CreateComment")
	}
	return f.createComment(ctx, in)
}

func (f *fakeRepoDB) LikeComment(ctx context.Context, commentID, userID int64) error {
	if f.likeComment == nil {
		panic("unexpected call LikeComment")
	}
	return f.likeComment(ctx, commentID, userID)
}

func (f *fakeRepoDB) UnlikeComment(ctx context.Context, commentID, userID int64) error {
	if f.unlikeComment == nil {
		panic("unexpected call UnlikeComment")
	}
	return f.unlikeComment(ctx, commentID, userID)
}

type fakeStorage struct {
	putObject func(ctx context.Context, bucket, key string, r io.Reader, opts storage.PutOptions) (storage.ObjectInfo, error)
}

func (f *fakeStorage) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts storage.PutOptions) (storage.ObjectInfo, error) {
	if f.putObject == nil {
		panic("unexpected call PutObject")
	}
	return f.putObject(ctx, bucket, key, r, opts)
}

func (f *fakeStorage) GetObject(context.Context, string, string) (io.ReadCloser, storage.ObjectInfo, error) {
	panic("unexpected call GetObject")
}

func (f *fakeStorage) StatObject(context.Context, string, string) (storage.ObjectInfo, error) {
	panic("unexpected call StatObject")
}

func (f *fakeStorage) DeleteObject(context.Context, string, string) error {
	panic("unexpected call DeleteObject")
}

func (f *fakeStorage) ListObjects(context.Context, string, string, int32) ([]storage.ObjectInfo, error) {
	panic("unexpected call ListObjects")
}

func (f *fakeStorage) PresignGet(context.Context, string, string, time.Duration) (string, error) {
	panic("unexpected call PresignGet")
}

func (f *fakeStorage) Close() error { return nil }

type fakeNumberID struct {
	next int64
}

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeStringID struct {
	value string
}

func (f fakeStringID) Generate() string { return f.value }

const testModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()

	m, err := model.NewModelFromString(testModel)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}

	policies := [][]string{
		{"author", "articles", "write"},
		{"author", "comments", "write"},
		{"admin", "articles", "manage"},
		{"admin", "comments", "manage"},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			t.Fatalf("add policy %v: %v", p, err)
		}
	}
	if _, err := e.AddGroupingPolicy("admin", "author"); err != nil {
		t.Fatalf("add grouping policy: %v", err)
	}

	return e
}

const testConfigYAML = `
modules:
  content:
    cover_bucket: covers
    cover_base_url: https://cdn.example.com/covers
    cover_max_size_bytes: 16
`

func newTestUsecase(t *testing.T, db *fakeRepoDB, st *fakeStorage) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	t.Cleanup(func() { cfg.Close() })

	if st == nil {
		st = &fakeStorage{}
	}

	return New(Dependency{
		RepoDB:     db,
		Validator:  v,
		Config:     cfg,
		Storage:    st,
		UID:        &fakeNumberID{next: 999},
		UUID:       fakeStringID{value: "object-uuid"},
		Clock:      clock.Fixed{T: baseTime},
		Instrument: instrument.NewNoop(),
		Enforcer:   newTestEnforcer(t),
	})
}

// authCtx simulates a request that passed the JWT middleware.
func authCtx(userID int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: userID})
}

func codeOf(t *testing.T, err error) goerror.Code {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("error %v is not a goerror", err)
	}
	return ge.Code()
}
