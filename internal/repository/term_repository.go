package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nipitpongpan/Jenzabar/internal/models"
)

// TermRepository provides read-only access to the institution calendar
// (year_term_table). Placeholder rows for transfer and unassigned work are
// filtered out at the query level; they are not offering periods.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository instantiates a term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

const termColumns = "yr_cde, trm_cde, trm_begin_dte, trm_end_dte"

// ListOrderedByBeginDate returns the full calendar ordered by begin date
// ascending. Begin dates are unique per the calendar invariant; the key
// tiebreak keeps the scan deterministic regardless.
func (r *TermRepository) ListOrderedByBeginDate(ctx context.Context) ([]models.Term, error) {
	query := fmt.Sprintf(`SELECT %s FROM year_term_table WHERE yr_cde NOT IN ($1, $2) ORDER BY trm_begin_dte ASC, yr_cde ASC, trm_cde ASC`, termColumns)

	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query, models.YearCodeTransfer, models.YearCodeUnassigned); err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return terms, nil
}

// FindByKey loads a single term by its composite year+term key.
func (r *TermRepository) FindByKey(ctx context.Context, yearCode, termCode string) (*models.Term, error) {
	query := fmt.Sprintf(`SELECT %s FROM year_term_table WHERE yr_cde = $1 AND trm_cde = $2`, termColumns)

	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, yearCode, termCode); err != nil {
		return nil, err
	}
	return &term, nil
}

// List returns calendar pages for the operator-facing listing endpoint.
func (r *TermRepository) List(ctx context.Context, filter models.TermFilter) ([]models.Term, int, error) {
	base := "FROM year_term_table WHERE yr_cde NOT IN ($1, $2)"
	args := []interface{}{models.YearCodeTransfer, models.YearCodeUnassigned}

	if filter.YearCode != "" {
		base += fmt.Sprintf(" AND yr_cde = $%d", len(args)+1)
		args = append(args, filter.YearCode)
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY trm_begin_dte %s LIMIT %d OFFSET %d", termColumns, base, order, size, offset)

	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list terms page: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count terms: %w", err)
	}

	return terms, total, nil
}
