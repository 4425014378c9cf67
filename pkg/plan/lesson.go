package plan

type LessonStatus string

const (
	StatusRegular     LessonStatus = "regular"
	StatusCancelled   LessonStatus = "cancelled"
	StatusSubstituted LessonStatus = "substituted"
	StatusRoomChanged LessonStatus = "room-changed"
	StatusMoved       LessonStatus = "moved"
)

// Lesson is one scheduled period occurrence. Optional provider fields are
// zero values when absent, never placeholder strings.
type Lesson struct {
	Period  int
	Subject string
	Course  string
	Room    string
	Teacher string
	Form    string

	// Start and End are clock times in "15:04" form, empty when the
	// provider omitted them.
	Start string
	End   string

	Status           LessonStatus
	SubstitutionText string

	// MovedFrom and MovedTo are set if and only if Status is StatusMoved.
	MovedFrom *int
	MovedTo   *int
}

type BreakSupervision struct {
	Period   int
	Time     string
	Location string
	Teacher  string
	Info     string
}
