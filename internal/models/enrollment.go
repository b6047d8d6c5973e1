package models

// Transaction statuses carried on student_crs_hist rows.
const (
	TransactionActive  = "A"
	TransactionDropped = "D"
)

// CourseEnrollment models one row of student_crs_hist: a student's
// registration in one course within one term. The table is maintained by
// the registration system; this service only reads it.
type CourseEnrollment struct {
	StudentID         int64   `db:"id_num" json:"student_id"`
	YearCode          string  `db:"yr_cde" json:"year_code"`
	TermCode          string  `db:"trm_cde" json:"term_code"`
	TransactionStatus string  `db:"transaction_sts" json:"transaction_status"`
	GradeCode         *string `db:"grade_cde" json:"grade_code,omitempty"`
	CreditHours       float64 `db:"credit_hrs" json:"credit_hours"`
}

// TermKey returns the composite key of the term owning the registration.
func (e CourseEnrollment) TermKey() string {
	return e.YearCode + e.TermCode
}
