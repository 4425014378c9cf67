package plan

import "time"

type Exam struct {
	Date   time.Time
	Year   int
	Course string

	// Teacher is the course leader's short name.
	Teacher string

	Period int
	Begin  string
	// Duration in minutes.
	Duration int

	// Info is the free-form exam annotation. The provider has no room
	// element for exams; when a room is announced it is part of this text.
	Info string
}
