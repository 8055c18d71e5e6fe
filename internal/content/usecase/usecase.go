package usecase

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/casbin/casbin/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/clock"
	"github.com/foliolabs/folio/internal/pkg/config"
	"github.com/foliolabs/folio/internal/pkg/goerror"
	"github.com/foliolabs/folio/internal/pkg/instrument"
	"github.com/foliolabs/folio/internal/pkg/jwt"
	"github.com/foliolabs/folio/internal/pkg/storage"
	"github.com/foliolabs/folio/internal/pkg/uid"
	"github.com/foliolabs/folio/internal/pkg/validator"
)

// Casbin objects and actions used by the content policies.
const (
	objArticles = "articles"
	objComments = "comments"

	actWrite  = "write"  // own resources
	actManage = "manage" // any resource, admin only
)

type repoDB interface {
	GetUserRole(ctx context.Context, userID int64) (string, error)
	GetArticleByID(ctx context.Context, id int64) (*entity.Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*entity.Article, error)
	ListArticles(ctx context.Context, filter entity.ArticleListFilter) ([]entity.Article, int64, error)
	ListTags(ctx context.Context) ([]entity.Tag, error)
	GetCommentByID(ctx context.Context, id int64) (*entity.Comment, error)
	ListComments(ctx context.Context, articleID int64) ([]entity.Comment, error)

	CreateArticle(ctx context.Context, in entity.NewArticle) error
	UpdateArticle(ctx context.Context, in entity.UpdateArticle) error
	DeleteArticle(ctx context.Context, id int64) error
	PublishArticle(ctx context.Context, id int64) error
	UpdateArticleCover(ctx context.Context, id int64, coverURL string) error

	CreateComment(ctx context.Context, in entity.NewComment) error
	LikeComment(ctx context.Context, commentID, userID int64) error
	UnlikeComment(ctx context.Context, commentID, userID int64) error
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	cfg       config.Config
	storage   storage.Storage
	uid       uid.NumberID
	uuid      uid.StringID
	clock     clock.Clocker
	ins       instrument.Instrumentation
	enforcer  *casbin.Enforcer
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	Config     config.Config
	Storage    storage.Storage
	UID        uid.NumberID
	UUID       uid.StringID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
	Enforcer   *casbin.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		cfg:       dep.Config,
		storage:   dep.Storage,
		uid:       dep.UID,
		uuid:      dep.UUID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
		enforcer:  dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("content.usecase").Start(ctx, name)
}

// authorize resolves the caller's role and checks it against the casbin
// policy for obj/act.
func (s *Usecase) authorize(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	role, err := s.repoDB.GetUserRole(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user role", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	ok, err := s.enforcer.Enforce(role, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.UserID, "role", role, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !ok {
		return nil, goerror.NewBusiness("account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

// authorizeOwner is authorize for resources that belong to someone: owners
// need the write action, everyone else needs manage.
func (s *Usecase) authorizeOwner(ctx context.Context, ownerID int64, obj string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	act := actManage
	if clm.UserID == ownerID {
		act = actWrite
	}

	return s.authorize(ctx, obj, act)
}

var reSlugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL slug from the title, suffixed with the article ID in
// base36 so two articles can share a title.
func slugify(title string, id int64) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = reSlugStrip.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "article"
	}

	return slug + "-" + strconv.FormatInt(id, 36)
}
