package models

// EnrollmentCategory is the three-way enrollment-history label.
type EnrollmentCategory string

// The three mutually exclusive, exhaustive outcomes.
const (
	CategoryNew      EnrollmentCategory = "N"
	CategoryContinue EnrollmentCategory = "C"
	CategoryReturn   EnrollmentCategory = "R"
)

// EnrollmentStatus is the classification payload returned to consumers. It
// is computed fresh on every request and never persisted.
type EnrollmentStatus struct {
	StudentID int64              `json:"student_id"`
	YearCode  string             `json:"year_code"`
	TermCode  string             `json:"term_code"`
	Category  EnrollmentCategory `json:"category"`
}
