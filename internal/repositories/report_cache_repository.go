package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCacheRepository keeps rendered report text available for retrieval by
// run id without re-reading the artifact files.
type ReportCacheRepository struct {
	rdb *redis.Client
}

func NewReportCacheRepository(rdb *redis.Client) *ReportCacheRepository {
	return &ReportCacheRepository{rdb: rdb}
}

const reportTTL = 24 * time.Hour

func (r *ReportCacheRepository) StoreGuide(ctx context.Context, runID string, text string) error {
	return r.rdb.Set(ctx, "report:guide:"+runID, text, reportTTL).Err()
}

func (r *ReportCacheRepository) StoreDigest(ctx context.Context, runID string, text string) error {
	return r.rdb.Set(ctx, "report:digest:"+runID, text, reportTTL).Err()
}

// GetGuide returns the cached guide text, or "" when the entry has expired.
func (r *ReportCacheRepository) GetGuide(ctx context.Context, runID string) (string, error) {
	text, err := r.rdb.Get(ctx, "report:guide:"+runID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return text, err
}

func (r *ReportCacheRepository) GetDigest(ctx context.Context, runID string) (string, error) {
	text, err := r.rdb.Get(ctx, "report:digest:"+runID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return text, err
}
