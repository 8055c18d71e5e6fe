package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/foliolabs/folio/internal/pkg/goerror"
	"github.com/foliolabs/folio/internal/pkg/storage"
)

//nolint:gochecknoglobals // global for fast reuse
var coverContentTypeExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var errCoverTooLarge = errors.New("cover exceeds max size")

type ArticleCoverInput struct {
	ID          int64
	File        io.Reader
	ContentType string
}

// ArticleCover uploads a cover image to object storage and records its URL.
func (s *Usecase) ArticleCover(ctx context.Context, in ArticleCoverInput) error {
	ctx, span := s.startSpan(ctx, "ArticleCover")
	defer span.End()

	if in.ID <= 0 {
		return goerror.NewInvalidInput(nil, "id", "article id is required")
	}
	if in.File == nil {
		return goerror.NewInvalidInput(nil, "cover", "cover file is required")
	}

	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	ext, ok := coverContentTypeExt[contentType]
	if !ok {
		return goerror.NewInvalidInput(nil, "cover", "unsupported cover content type")
	}

	article, err := s.repoDB.GetArticleByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("article not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get article by id", "article_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	if _, err := s.authorizeOwner(ctx, article.AuthorID, objArticles); err != nil {
		return err
	}

	bucket := strings.TrimSpace(s.cfg.GetString("modules.content.cover_bucket"))
	baseURL := strings.TrimSpace(s.cfg.GetString("modules.content.cover_base_url"))
	key := fmt.Sprintf("%d/%s%s", article.ID, s.uuid.Generate(), ext)
	maxSize := s.cfg.GetInt64("modules.content.cover_max_size_bytes")

	reader := &maxBytesReader{
		r:   in.File,
		max: maxSize,
	}
	_, err = s.storage.PutObject(ctx, bucket, key, reader, storage.PutOptions{
		Size:        -1,
		ContentType: contentType,
		Metadata:    map[string]string{"article_id": strconv.FormatInt(article.ID, 10)},
	})
	if err != nil {
		if errors.Is(err, errCoverTooLarge) {
			return goerror.NewInvalidInput(errCoverTooLarge)
		}
		slog.ErrorContext(ctx, "failed to upload article cover", "article_id", article.ID, "error", err)
		return goerror.NewServer(err)
	}

	coverURL := baseURL + "/" + key
	if err := s.repoDB.UpdateArticleCover(ctx, article.ID, coverURL); err != nil {
		slog.ErrorContext(ctx, "failed to update article cover", "article_id", article.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

// maxBytesReader caps how much of the upload reaches storage, failing once a
// single byte past max is read.
type maxBytesReader struct {
	r     io.Reader
	max   int64
	read  int64
	buf   [1]byte
	ended bool
}

func (m *maxBytesReader) Read(p []byte) (int, error) {
	if m.read >= m.max {
		if m.ended {
			return 0, errCoverTooLarge
		}

		n, err := m.r.Read(m.buf[:])
		if n > 0 {
			m.ended = true
			return 0, errCoverTooLarge
		}
		if err == nil {
			m.ended = true
			return 0, errCoverTooLarge
		}
		return 0, err
	}

	remaining := m.max - m.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := m.r.Read(p)
	m.read += int64(n)
	return n, err
}
