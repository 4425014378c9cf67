package plan

import (
	"errors"
	"time"
)

// ErrMalformedDocument is returned by the dialect parsers when the raw bytes
// do not match the expected schema. A parse either succeeds completely or
// fails with this error - no partial document is ever returned.
var ErrMalformedDocument = errors.New("document does not match the expected dialect schema")

type Dialect string

const (
	DialectMobilStudent        Dialect = "indiware-mobil-student"
	DialectMobilTeacher        Dialect = "indiware-mobil-teacher"
	DialectSubstitutionStudent Dialect = "vertretungsplan-student"
	DialectSubstitutionTeacher Dialect = "vertretungsplan-teacher"
)

type View string

const (
	ViewStudent View = "student"
	ViewTeacher View = "teacher"
)

func (d Dialect) View() View {
	switch d {
	case DialectMobilTeacher, DialectSubstitutionTeacher:
		return ViewTeacher
	default:
		return ViewStudent
	}
}

// PlanDocument is the normalized result of parsing one plan response.
// Instances are never mutated after construction - reconciliation produces a
// new merged document instead.
type PlanDocument struct {
	Date     time.Time
	Dialect  Dialect
	IssuedAt time.Time

	SchoolName  string
	Week        int
	DaysPerWeek int

	// Forms maps a form identifier (eg. "6c") to its lessons, ordered by
	// period ascending, ties kept in document order.
	Forms map[string][]Lesson

	// TeacherIndex maps a teacher short name to their lessons. Only
	// populated for teacher dialects.
	TeacherIndex map[string][]Lesson

	Supervisions []BreakSupervision
	Exams        []Exam

	FreeDays []time.Time
	FreeText string

	AbsentTeachers  []string
	AbsentForms     []string
	AbsentRooms     []string
	ChangedTeachers []string
	ChangedForms    []string
}

func (d *PlanDocument) View() View {
	return d.Dialect.View()
}

// SameDate reports whether both documents describe the same calendar day,
// ignoring the clock time and location.
func (d *PlanDocument) SameDate(other *PlanDocument) bool {
	y1, m1, day1 := d.Date.Date()
	y2, m2, day2 := other.Date.Date()

	return y1 == y2 && m1 == m2 && day1 == day2
}
