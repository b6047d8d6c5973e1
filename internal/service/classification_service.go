package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nipitpongpan/Jenzabar/internal/models"
	appErrors "github.com/nipitpongpan/Jenzabar/pkg/errors"
)

// Fall follows both Summer and Spring of the prior academic cycle, so its
// immediate-prior window covers two terms. Every other term has exactly one
// natural predecessor.
const (
	fallPriorWindow    = 2
	defaultPriorWindow = 1
)

// Grade codes excluded from the validity predicates. Withdrawal codes never
// count toward Continue; the Return check additionally ignores transfer and
// substitute-work codes, so its exclusion set is a strict superset.
var (
	continueExcludedGrades = map[string]struct{}{
		"nw": {}, "ew": {}, "X": {},
	}
	returnExcludedGrades = map[string]struct{}{
		"nw": {}, "ew": {}, "X": {}, "t": {}, "tu": {}, "sw": {},
	}
)

type calendarReader interface {
	ListOrderedByBeginDate(ctx context.Context) ([]models.Term, error)
	FindByKey(ctx context.Context, yearCode, termCode string) (*models.Term, error)
}

type historyReader interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.CourseEnrollment, error)
}

// ClassifyRequest identifies the queried term and student.
type ClassifyRequest struct {
	YearCode  string `json:"year_code" validate:"required,len=4,alphanum"`
	TermCode  string `json:"term_code" validate:"required,len=2,alphanum"`
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
}

// ClassificationService labels a student's enrollment history for a term as
// New, Continue or Return. It is stateless: every call re-reads the calendar
// and the student's history, and repeated calls over unchanged data return
// the same label.
type ClassificationService struct {
	terms     calendarReader
	history   historyReader
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewClassificationService creates a classification service instance.
func NewClassificationService(terms calendarReader, history historyReader, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *ClassificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassificationService{terms: terms, history: history, validator: validate, logger: logger, metrics: metrics}
}

// Classify resolves the queried term, derives the immediate-prior window and
// evaluates the ordered three-way rule against the student's history.
func (s *ClassificationService) Classify(ctx context.Context, req ClassifyRequest) (*models.EnrollmentStatus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classification request")
	}

	started := time.Now()

	queried, err := s.terms.FindByKey(ctx, req.YearCode, req.TermCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrTermNotFound, "term "+req.YearCode+"-"+req.TermCode+" not found in calendar")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load queried term")
	}

	calendar, err := s.terms.ListOrderedByBeginDate(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load term calendar")
	}

	records, err := s.history.ListByStudent(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load course history")
	}

	window := priorWindow(calendar, *queried, windowSize(req.TermCode))
	category := evaluate(window, calendar, records)

	s.metrics.ObserveClassification(string(category), time.Since(started))
	s.logger.Debug("classified student",
		zap.Int64("student_id", req.StudentID),
		zap.String("term", queried.Key()),
		zap.Int("window_terms", len(window)),
		zap.String("category", string(category)),
	)

	return &models.EnrollmentStatus{
		StudentID: req.StudentID,
		YearCode:  req.YearCode,
		TermCode:  req.TermCode,
		Category:  category,
	}, nil
}

func windowSize(termCode string) int {
	if termCode == models.TermCodeFall {
		return fallPriorWindow
	}
	return defaultPriorWindow
}

// priorWindow returns up to n terms beginning strictly before the queried
// term, nearest first. The calendar must be ordered by begin date ascending.
// Short calendars yield a smaller, possibly empty, window.
func priorWindow(calendar []models.Term, queried models.Term, n int) []models.Term {
	window := make([]models.Term, 0, n)
	for i := len(calendar) - 1; i >= 0 && len(window) < n; i-- {
		if calendar[i].BeginDate.Before(queried.BeginDate) {
			window = append(window, calendar[i])
		}
	}
	return window
}

// evaluate runs the ordered decision list. Rule order is part of the
// contract: Continue is checked before Return, New is the fallback.
func evaluate(window, calendar []models.Term, records []models.CourseEnrollment) models.EnrollmentCategory {
	windowKeys := make(map[string]struct{}, len(window))
	for _, t := range window {
		windowKeys[t.Key()] = struct{}{}
	}

	termsByKey := make(map[string]models.Term, len(calendar))
	for _, t := range calendar {
		termsByKey[t.Key()] = t
	}

	// The window is nearest-first, so its last element is the earliest term;
	// Return history must end before that term begins.
	var windowStart time.Time
	if len(window) > 0 {
		windowStart = window[len(window)-1].BeginDate
	}

	rules := []struct {
		category models.EnrollmentCategory
		matches  func(models.CourseEnrollment) bool
	}{
		{
			category: models.CategoryContinue,
			matches: func(rec models.CourseEnrollment) bool {
				if !isValidForContinueCheck(rec) {
					return false
				}
				_, inWindow := windowKeys[rec.TermKey()]
				return inWindow
			},
		},
		{
			category: models.CategoryReturn,
			matches: func(rec models.CourseEnrollment) bool {
				if len(window) == 0 || !isValidForReturnCheck(rec) {
					return false
				}
				term, known := termsByKey[rec.TermKey()]
				if !known {
					// End date unresolvable for terms absent from the calendar.
					return false
				}
				return term.EndDate.Before(windowStart)
			},
		},
	}

	for _, rule := range rules {
		for _, rec := range records {
			if rule.matches(rec) {
				return rule.category
			}
		}
	}
	return models.CategoryNew
}

// isValidForContinueCheck reports whether a history row may satisfy the
// Continue rule: not dropped, positive credit, real year code, and a grade
// outside the Continue exclusion set. A missing grade is valid.
func isValidForContinueCheck(rec models.CourseEnrollment) bool {
	return isValidRecord(rec, continueExcludedGrades)
}

// isValidForReturnCheck is the stricter predicate used by the Return rule;
// it additionally rejects transfer and substitute-work grade codes.
func isValidForReturnCheck(rec models.CourseEnrollment) bool {
	return isValidRecord(rec, returnExcludedGrades)
}

func isValidRecord(rec models.CourseEnrollment, excludedGrades map[string]struct{}) bool {
	if rec.TransactionStatus == models.TransactionDropped {
		return false
	}
	if rec.CreditHours <= 0 {
		return false
	}
	if models.IsPlaceholderYear(rec.YearCode) {
		return false
	}
	if rec.GradeCode != nil {
		if _, excluded := excludedGrades[*rec.GradeCode]; excluded {
			return false
		}
	}
	return true
}
