package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	commentusecase "stock_api/internal/feature/comments/usecase"
	"stock_api/internal/feature/stocks/domain/entity"
)

// InvalidatingCommentRepository decorates a CommentRepository so that every
// effective comment write clears the stock cache namespace. The Statistics
// comment counts and HasComment-filtered aggregates are computed from the
// comments table, so a comment write makes cached aggregates stale just like
// a stock write does. The embedded repository serves all reads untouched.
type InvalidatingCommentRepository struct {
	commentusecase.CommentRepository
	rdb       *redis.Client
	namespace string
}

// NewInvalidatingCommentRepository decorates a CommentRepository with cache
// invalidation. The namespace must match the one the stock cache writes under;
// if empty, it uses "stocks".
func NewInvalidatingCommentRepository(rdb *redis.Client, inner commentusecase.CommentRepository, namespace string) *InvalidatingCommentRepository {
	if namespace == "" {
		namespace = "stocks"
	}
	return &InvalidatingCommentRepository{
		CommentRepository: inner,
		rdb:               rdb,
		namespace:         namespace,
	}
}

// invalidate removes every cache entry in the shared namespace.
func (r *InvalidatingCommentRepository) invalidate(ctx context.Context) {
	if r.rdb == nil {
		return
	}
	// Best effort: don't fail the write if cache deletion fails
	_ = deleteByPattern(ctx, r.rdb, r.namespace+":*")
}

// Create delegates to the inner repository and invalidates cached aggregates.
func (r *InvalidatingCommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	if err := r.CommentRepository.Create(ctx, c); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// Update delegates to the inner repository and invalidates cached aggregates
// when the comment existed.
func (r *InvalidatingCommentRepository) Update(ctx context.Context, id uint, patch commentusecase.CommentPatch) (*entity.Comment, error) {
	out, err := r.CommentRepository.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if out != nil {
		r.invalidate(ctx)
	}
	return out, nil
}

// Delete delegates to the inner repository and invalidates cached aggregates
// when a row was actually removed.
func (r *InvalidatingCommentRepository) Delete(ctx context.Context, id uint) (bool, error) {
	deleted, err := r.CommentRepository.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		r.invalidate(ctx)
	}
	return deleted, nil
}

var _ commentusecase.CommentRepository = (*InvalidatingCommentRepository)(nil)
