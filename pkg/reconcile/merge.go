package reconcile

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/plan"
)

var ErrDateMismatch = errors.New("cannot merge plan documents for different dates")

// Merge combines two documents for the same date into one authoritative
// view. The document with the later issue timestamp wins every slot it
// populates; slots only present in the older document are carried forward.
// When both issue timestamps are equal the next argument wins - the policy
// is that the caller's most recently fetched document is authoritative.
func Merge(previous, next *plan.PlanDocument) (*plan.PlanDocument, error) {
	if !previous.SameDate(next) {
		return nil, fmt.Errorf("%w: %s vs %s",
			ErrDateMismatch,
			previous.Date.Format("2006-01-02"),
			next.Date.Format("2006-01-02"))
	}

	authoritative, other := next, previous
	if next.IssuedAt.Before(previous.IssuedAt) {
		authoritative, other = previous, next
	}

	var merged plan.PlanDocument

	err := copier.CopyWithOption(&merged, authoritative, copier.Option{DeepCopy: true})
	if err != nil {
		return nil, fmt.Errorf("copying authoritative document: %w", err)
	}

	// copier materializes nil maps and slices as empty ones. Restore them
	// so merging a document with itself yields a structurally equal
	// document.
	if authoritative.Forms == nil {
		merged.Forms = nil
	}
	if authoritative.TeacherIndex == nil {
		merged.TeacherIndex = nil
	}
	if authoritative.FreeDays == nil {
		merged.FreeDays = nil
	}
	if authoritative.Supervisions == nil {
		merged.Supervisions = nil
	}
	if authoritative.Exams == nil {
		merged.Exams = nil
	}

	merged.Forms = mergeLessonIndex(merged.Forms, other.Forms)
	merged.TeacherIndex = mergeLessonIndex(merged.TeacherIndex, other.TeacherIndex)

	if merged.FreeText == "" {
		merged.FreeText = other.FreeText
	}

	if len(merged.Supervisions) == 0 {
		merged.Supervisions = cloneSupervisions(other.Supervisions)
	}
	if len(merged.Exams) == 0 {
		merged.Exams = cloneExams(other.Exams)
	}
	if len(merged.FreeDays) == 0 && len(other.FreeDays) > 0 {
		merged.FreeDays = append(merged.FreeDays, other.FreeDays...)
	}

	merged.AbsentTeachers = firstNonEmpty(merged.AbsentTeachers, other.AbsentTeachers)
	merged.AbsentForms = firstNonEmpty(merged.AbsentForms, other.AbsentForms)
	merged.AbsentRooms = firstNonEmpty(merged.AbsentRooms, other.AbsentRooms)
	merged.ChangedTeachers = firstNonEmpty(merged.ChangedTeachers, other.ChangedTeachers)
	merged.ChangedForms = firstNonEmpty(merged.ChangedForms, other.ChangedForms)

	if merged.SchoolName == "" {
		merged.SchoolName = other.SchoolName
	}

	log.Debug().
		Time("date", merged.Date).
		Time("authoritative", authoritative.IssuedAt).
		Time("superseded", other.IssuedAt).
		Msg("Merged plan documents")

	return &merged, nil
}

// mergeLessonIndex keeps every entry of the authoritative index untouched
// and carries over entries the authoritative document omitted.
func mergeLessonIndex(authoritative, other map[string][]plan.Lesson) map[string][]plan.Lesson {
	if authoritative == nil && other == nil {
		return nil
	}

	if authoritative == nil {
		authoritative = map[string][]plan.Lesson{}
	}

	for key, lessons := range other {
		if _, present := authoritative[key]; present {
			continue
		}

		carried := make([]plan.Lesson, len(lessons))
		copy(carried, lessons)
		authoritative[key] = carried
	}

	return authoritative
}

func cloneSupervisions(supervisions []plan.BreakSupervision) []plan.BreakSupervision {
	if supervisions == nil {
		return nil
	}

	cloned := make([]plan.BreakSupervision, len(supervisions))
	copy(cloned, supervisions)

	return cloned
}

func cloneExams(exams []plan.Exam) []plan.Exam {
	if exams == nil {
		return nil
	}

	cloned := make([]plan.Exam, len(exams))
	copy(cloned, exams)

	return cloned
}

func firstNonEmpty(primary, fallback []string) []string {
	if len(primary) > 0 {
		return primary
	}

	if fallback == nil {
		return nil
	}

	cloned := make([]string, len(fallback))
	copy(cloned, fallback)

	return cloned
}
