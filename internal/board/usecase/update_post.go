package usecase

import (
	"context"
	"strings"

	"stock-board/internal/board/event"
	"stock-board/internal/board/repository"
	"stock-board/internal/entity"
	"stock-board/pkg/logger"

	"github.com/shopspring/decimal"
)

// OptionalPrice is a price in a patch. Set reports whether the field was
// supplied at all; a supplied price with a nil Value clears the stored one.
type OptionalPrice struct {
	Set   bool
	Value *float64
}

// UpdatePostInput carries the fields to change. Nil fields are left untouched.
type UpdatePostInput struct {
	Title        *string
	Content      *string
	Author       *string
	StockCode    *string
	StockName    *string
	Sentiment    *entity.Sentiment
	PositionType *entity.PositionType
	EntryPrice   OptionalPrice
	TargetPrice  OptionalPrice
}

// UpdatePostUseCase applies a partial update to an existing post.
type UpdatePostUseCase struct {
	repo    repository.PostRepository
	changes *postChanges
	logger  *logger.Logger
}

// NewUpdatePostUseCase creates a new UpdatePostUseCase.
func NewUpdatePostUseCase(repo repository.PostRepository, changes *postChanges, log *logger.Logger) *UpdatePostUseCase {
	return &UpdatePostUseCase{repo: repo, changes: changes, logger: log}
}

func (uc *UpdatePostUseCase) Execute(ctx context.Context, id int64, input UpdatePostInput) (*entity.Post, error) {
	if !validID(id) {
		return nil, errInvalidPostID
	}

	patch, err := buildPatch(input)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, errNoFields
	}

	post, err := uc.repo.Update(ctx, toPostID(id), patch)
	if err != nil {
		err = notFoundOr(err)
		if err != errPostNotFound {
			uc.logger.Error("Failed to update post", logger.ErrorField(err), logger.Field("post_id", id))
		}
		return nil, err
	}

	uc.logger.Info("Post updated", logger.Field("post_id", id))
	uc.changes.record(ctx, event.PostUpdated, post)
	return post, nil
}

func buildPatch(input UpdatePostInput) (entity.PostPatch, error) {
	var patch entity.PostPatch

	required := []struct {
		field  string
		maxLen int
		in     *string
		out    **string
	}{
		{"title", entity.MaxTitleLength, input.Title, &patch.Title},
		{"content", 0, input.Content, &patch.Content},
		{"author", entity.MaxAuthorLength, input.Author, &patch.Author},
	}
	for _, r := range required {
		if r.in == nil {
			continue
		}
		value, err := requiredText(r.field, *r.in, r.maxLen)
		if err != nil {
			return patch, err
		}
		*r.out = &value
	}

	// A blank stock code or name clears the column, so these are trimmed
	// rather than required.
	optional := []struct {
		field  string
		maxLen int
		in     *string
		out    **string
	}{
		{"stock code", entity.MaxStockCodeLength, input.StockCode, &patch.StockCode},
		{"stock name", entity.MaxStockNameLength, input.StockName, &patch.StockName},
	}
	for _, o := range optional {
		if o.in == nil {
			continue
		}
		value := strings.TrimSpace(*o.in)
		if err := checkLength(o.field, value, o.maxLen); err != nil {
			return patch, err
		}
		*o.out = &value
	}

	if input.Sentiment != nil {
		if !input.Sentiment.IsValid() {
			return patch, validationErrorf("invalid sentiment %q", *input.Sentiment)
		}
		patch.Sentiment = input.Sentiment
	}
	if input.PositionType != nil {
		if !input.PositionType.IsValid() {
			return patch, validationErrorf("invalid position type %q", *input.PositionType)
		}
		patch.PositionType = input.PositionType
	}

	var err error
	if patch.EntryPrice, err = pricePatch("entry price", input.EntryPrice); err != nil {
		return patch, err
	}
	if patch.TargetPrice, err = pricePatch("target price", input.TargetPrice); err != nil {
		return patch, err
	}

	return patch, nil
}

func pricePatch(field string, p OptionalPrice) (*decimal.NullDecimal, error) {
	if !p.Set {
		return nil, nil
	}
	value, err := price(field, p.Value)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
