package usecase

import (
	"context"
	"log/slog"

	"github.com/foliolabs/folio/internal/content/entity"
	"github.com/foliolabs/folio/internal/pkg/goerror"
)

func (s *Usecase) TagList(ctx context.Context) ([]entity.Tag, error) {
	ctx, span := s.startSpan(ctx, "TagList")
	defer span.End()

	tags, err := s.repoDB.ListTags(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list tags", "error", err)
		return nil, goerror.NewServer(err)
	}

	return tags, nil
}
