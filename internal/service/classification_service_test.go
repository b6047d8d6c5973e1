package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nipitpongpan/Jenzabar/internal/models"
	appErrors "github.com/nipitpongpan/Jenzabar/pkg/errors"
)

type mockCalendar struct {
	terms   []models.Term
	listErr error
	findErr error
}

func (m *mockCalendar) ListOrderedByBeginDate(ctx context.Context) ([]models.Term, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.terms, nil
}

func (m *mockCalendar) FindByKey(ctx context.Context, yearCode, termCode string) (*models.Term, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, term := range m.terms {
		if term.YearCode == yearCode && term.TermCode == termCode {
			found := term
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

type mockHistory struct {
	records []models.CourseEnrollment
	err     error
}

func (m *mockHistory) ListByStudent(ctx context.Context, studentID int64) ([]models.CourseEnrollment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func term(yearCode, termCode, begin, end string) models.Term {
	beginDate, _ := time.Parse("2006-01-02", begin)
	endDate, _ := time.Parse("2006-01-02", end)
	return models.Term{YearCode: yearCode, TermCode: termCode, BeginDate: beginDate, EndDate: endDate}
}

// Two full academic cycles; ordered by begin date as the repository
// guarantees.
func testCalendar() []models.Term {
	return []models.Term{
		term("2324", "FA", "2023-08-15", "2023-12-15"),
		term("2324", "SP", "2024-01-15", "2024-05-15"),
		term("2324", "SU", "2024-06-01", "2024-07-31"),
		term("2425", "FA", "2024-08-15", "2024-12-15"),
		term("2425", "SP", "2025-01-15", "2025-05-15"),
		term("2425", "SU", "2025-06-01", "2025-07-31"),
	}
}

func record(yearCode, termCode string) models.CourseEnrollment {
	return models.CourseEnrollment{
		StudentID:         1001,
		YearCode:          yearCode,
		TermCode:          termCode,
		TransactionStatus: models.TransactionActive,
		CreditHours:       3,
	}
}

func graded(rec models.CourseEnrollment, grade string) models.CourseEnrollment {
	rec.GradeCode = &grade
	return rec
}

func newTestService(records []models.CourseEnrollment) *ClassificationService {
	return NewClassificationService(&mockCalendar{terms: testCalendar()}, &mockHistory{records: records}, validator.New(), zap.NewNop(), nil)
}

func TestClassifyCategories(t *testing.T) {
	tests := []struct {
		name     string
		year     string
		termCode string
		records  []models.CourseEnrollment
		want     models.EnrollmentCategory
	}{
		{
			name: "no history is new",
			year: "2425", termCode: "FA",
			records: nil,
			want:    models.CategoryNew,
		},
		{
			name: "fall window reaches prior spring",
			year: "2425", termCode: "FA",
			records: []models.CourseEnrollment{record("2324", "SP")},
			want:    models.CategoryContinue,
		},
		{
			name: "fall window reaches prior summer",
			year: "2425", termCode: "FA",
			records: []models.CourseEnrollment{record("2324", "SU")},
			want:    models.CategoryContinue,
		},
		{
			name: "fall with only older history is return",
			year: "2425", termCode: "FA",
			records: []models.CourseEnrollment{record("2324", "FA")},
			want:    models.CategoryReturn,
		},
		{
			name: "continue wins over older history",
			year: "2425", termCode: "FA",
			records: []models.CourseEnrollment{record("2324", "FA"), record("2324", "SP")},
			want:    models.CategoryContinue,
		},
		{
			name: "spring window is prior fall only",
			year: "2425", termCode: "SP",
			records: []models.CourseEnrollment{record("2425", "FA")},
			want:    models.CategoryContinue,
		},
		{
			name: "spring with history before prior fall is return",
			year: "2425", termCode: "SP",
			records: []models.CourseEnrollment{record("2324", "SU")},
			want:    models.CategoryReturn,
		},
		{
			name: "summer window is prior spring only",
			year: "2425", termCode: "SU",
			records: []models.CourseEnrollment{record("2425", "SP")},
			want:    models.CategoryContinue,
		},
		{
			name: "summer with history before prior spring is return",
			year: "2425", termCode: "SU",
			records: []models.CourseEnrollment{record("2425", "FA")},
			want:    models.CategoryReturn,
		},
		{
			name: "dropped registration never counts",
			year: "2425", termCode: "SP",
			records: []models.CourseEnrollment{func() models.CourseEnrollment {
				rec := record("2425", "FA")
				rec.TransactionStatus = models.TransactionDropped
				return rec
			}()},
			want: models.CategoryNew,
		},
		{
			name: "zero credit hours never counts",
			year: "2425", termCode: "SP",
			records: []models.CourseEnrollment{func() models.CourseEnrollment {
				rec := record("2425", "FA")
				rec.CreditHours = 0
				return rec
			}()},
			want: models.CategoryNew,
		},
		{
			name: "withdrawal grade blocks continue",
			year: "2425", termCode: "SP",
			records: []models.CourseEnrollment{graded(record("2425", "FA"), "nw")},
			want:    models.CategoryNew,
		},
		{
			name: "transfer year placeholder never counts",
			year: "2425", termCode: "SP",
			records: []models.CourseEnrollment{record(models.YearCodeTransfer, "FA")},
			want:    models.CategoryNew,
		},
		{
			name: "unassigned year placeholder never counts",
			year: "2425", termCode: "SP",
			records: []models.CourseEnrollment{record(models.YearCodeUnassigned, "SP")},
			want:    models.CategoryNew,
		},
		{
			name: "transfer grade still satisfies continue",
			year: "2425", termCode: "SP",
			records: []models.CourseEnrollment{graded(record("2425", "FA"), "t")},
			want:    models.CategoryContinue,
		},
		{
			name: "transfer grade excluded from return",
			year: "2425", termCode: "SP",
			records: []models.CourseEnrollment{graded(record("2324", "SU"), "t")},
			want:    models.CategoryNew,
		},
		{
			name: "substitute-work grade excluded from return",
			year: "2425", termCode: "SP",
			records: []models.CourseEnrollment{graded(record("2324", "SP"), "sw")},
			want:    models.CategoryNew,
		},
		{
			name: "missing grade is valid",
			year: "2425", termCode: "SP",
			records: []models.CourseEnrollment{record("2324", "SP")},
			want:    models.CategoryReturn,
		},
		{
			name: "history under unknown term skipped by return check",
			year: "2425", termCode: "SP",
			records: []models.CourseEnrollment{record("1920", "FA")},
			want:    models.CategoryNew,
		},
		{
			name: "earliest calendar term has empty window",
			year: "2324", termCode: "FA",
			records: []models.CourseEnrollment{record("2324", "SP"), record("2425", "FA")},
			want:    models.CategoryNew,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(tc.records)
			status, err := svc.Classify(context.Background(), ClassifyRequest{YearCode: tc.year, TermCode: tc.termCode, StudentID: 1001})
			require.NoError(t, err)
			assert.Equal(t, tc.want, status.Category)
			assert.Equal(t, int64(1001), status.StudentID)
			assert.Equal(t, tc.year, status.YearCode)
			assert.Equal(t, tc.termCode, status.TermCode)
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	svc := newTestService([]models.CourseEnrollment{record("2324", "FA"), record("2324", "SP")})

	first, err := svc.Classify(context.Background(), ClassifyRequest{YearCode: "2425", TermCode: "FA", StudentID: 1001})
	require.NoError(t, err)
	second, err := svc.Classify(context.Background(), ClassifyRequest{YearCode: "2425", TermCode: "FA", StudentID: 1001})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClassifyTermNotFound(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.Classify(context.Background(), ClassifyRequest{YearCode: "2526", TermCode: "FA", StudentID: 1001})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrTermNotFound.Code, appErr.Code)
}

func TestClassifyValidation(t *testing.T) {
	svc := newTestService(nil)

	cases := []ClassifyRequest{
		{YearCode: "24", TermCode: "FA", StudentID: 1001},
		{YearCode: "2425", TermCode: "FALL", StudentID: 1001},
		{YearCode: "24-5", TermCode: "FA", StudentID: 1001},
		{YearCode: "2425", TermCode: "FA", StudentID: 0},
	}
	for _, req := range cases {
		_, err := svc.Classify(context.Background(), req)
		require.Error(t, err)

		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	}
}

func TestClassifyUpstreamErrors(t *testing.T) {
	boom := errors.New("connection reset")

	svc := NewClassificationService(&mockCalendar{terms: testCalendar(), listErr: boom}, &mockHistory{}, validator.New(), zap.NewNop(), nil)
	_, err := svc.Classify(context.Background(), ClassifyRequest{YearCode: "2425", TermCode: "FA", StudentID: 1001})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
	assert.True(t, errors.Is(err, boom))

	svc = NewClassificationService(&mockCalendar{terms: testCalendar()}, &mockHistory{err: boom}, validator.New(), zap.NewNop(), nil)
	_, err = svc.Classify(context.Background(), ClassifyRequest{YearCode: "2425", TermCode: "FA", StudentID: 1001})
	require.Error(t, err)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
}
