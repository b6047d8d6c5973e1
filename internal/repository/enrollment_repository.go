package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nipitpongpan/Jenzabar/internal/models"
)

// EnrollmentRepository provides read-only access to per-course registration
// history (student_crs_hist). The registration system owns the table; this
// service never writes to it.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListByStudent returns every course registration for one student. Validity
// filtering is rule-dependent and left to the classifier.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.CourseEnrollment, error) {
	const query = `SELECT id_num, yr_cde, trm_cde, transaction_sts, grade_cde, credit_hrs FROM student_crs_hist WHERE id_num = $1`

	var records []models.CourseEnrollment
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list course history: %w", err)
	}
	return records, nil
}
