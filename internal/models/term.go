package models

import "time"

// Term codes carried by the institution calendar.
const (
	TermCodeFall   = "FA"
	TermCodeSpring = "SP"
	TermCodeSummer = "SU"
)

// Placeholder year codes marking transfer or unassigned course work. Rows
// keyed under these never describe a real offering period.
const (
	YearCodeTransfer   = "TRAN"
	YearCodeUnassigned = "ZZZZ"
)

// Term models one row of year_term_table, the institution calendar. The
// calendar is maintained upstream; this service only reads it.
type Term struct {
	YearCode  string    `db:"yr_cde" json:"year_code"`
	TermCode  string    `db:"trm_cde" json:"term_code"`
	BeginDate time.Time `db:"trm_begin_dte" json:"begin_date"`
	EndDate   time.Time `db:"trm_end_dte" json:"end_date"`
}

// Key returns the composite calendar key (year code + term code).
func (t Term) Key() string {
	return t.YearCode + t.TermCode
}

// IsPlaceholderYear reports whether a year code is one of the sentinel values.
func IsPlaceholderYear(yearCode string) bool {
	return yearCode == YearCodeTransfer || yearCode == YearCodeUnassigned
}

// TermFilter defines filters supported by the calendar list endpoint.
type TermFilter struct {
	YearCode  string
	Page      int
	PageSize  int
	SortOrder string
}

// Pagination describes list-endpoint paging metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
