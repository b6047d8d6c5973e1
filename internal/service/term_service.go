package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nipitpongpan/Jenzabar/internal/models"
	appErrors "github.com/nipitpongpan/Jenzabar/pkg/errors"
)

type termLister interface {
	List(ctx context.Context, filter models.TermFilter) ([]models.Term, int, error)
	FindByKey(ctx context.Context, yearCode, termCode string) (*models.Term, error)
}

type snapshotCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// termPage is the cached calendar snapshot for one filter/page combination.
type termPage struct {
	Terms []models.Term `json:"terms"`
	Total int           `json:"total"`
}

// TermService serves the operator-facing calendar endpoints with a
// read-through cache over the listing. The classifier does not go through
// this service; it reads the repository directly.
type TermService struct {
	repo     termLister
	cache    snapshotCache
	cacheTTL time.Duration
	logger   *zap.Logger
	metrics  *MetricsService
}

// NewTermService creates a term service instance. A nil cache disables the
// read-through path.
func NewTermService(repo termLister, cache snapshotCache, cacheTTL time.Duration, logger *zap.Logger, metrics *MetricsService) *TermService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger, metrics: metrics}
}

// List returns paginated calendar terms, consulting the snapshot cache first.
func (s *TermService) List(ctx context.Context, filter models.TermFilter) ([]models.Term, *models.Pagination, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	key := fmt.Sprintf("calendar:%s:%s:%d:%d", filter.YearCode, filter.SortOrder, page, size)

	if s.cache != nil {
		var cached termPage
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return cached.Terms, &models.Pagination{Page: page, PageSize: size, TotalCount: cached.Total}, nil
		}
		s.metrics.RecordCacheOperation(false)
	}

	started := time.Now()
	terms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to list terms")
	}
	s.metrics.ObserveDBQuery("terms_list", time.Since(started))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, termPage{Terms: terms, Total: total}, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache calendar snapshot", zap.Error(err))
		}
	}

	return terms, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single term by its composite key.
func (s *TermService) Get(ctx context.Context, yearCode, termCode string) (*models.Term, error) {
	term, err := s.repo.FindByKey(ctx, yearCode, termCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrTermNotFound, "term "+yearCode+"-"+termCode+" not found in calendar")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load term")
	}
	return term, nil
}
