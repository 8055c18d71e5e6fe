package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/foliolabs/folio/internal/pkg/goerror"
)

type CommentLikeInput struct {
	CommentID int64 `validate:"required,gt=0"`
}

// CommentLike records a like. Liking the same comment twice is a no-op.
func (s *Usecase) CommentLike(ctx context.Context, in CommentLikeInput) error {
	ctx, span := s.startSpan(ctx, "CommentLike")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.authorize(ctx, objComments, actWrite)
	if err != nil {
		return err
	}

	err = s.repoDB.LikeComment(ctx, in.CommentID, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("comment not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo like comment", "comment_id", in.CommentID, "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

type CommentUnlikeInput struct {
	CommentID int64 `validate:"required,gt=0"`
}

// CommentUnlike removes a like. Unliking a comment that was never liked is a
// no-op.
func (s *Usecase) CommentUnlike(ctx context.Context, in CommentUnlikeInput) error {
	ctx, span := s.startSpan(ctx, "CommentUnlike")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.authorize(ctx, objComments, actWrite)
	if err != nil {
		return err
	}

	err = s.repoDB.UnlikeComment(ctx, in.CommentID, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("comment not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo unlike comment", "comment_id", in.CommentID, "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
