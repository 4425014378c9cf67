package vertretungsplan

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/plan"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/util"
)

// Parse reads one substitution plan document ("VplanKl..." / "VplanLe..."
// files) and normalizes it.
func Parse(reader io.Reader, dialect plan.Dialect) (*plan.PlanDocument, error) {
	var raw Vplan

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel
	if err := d.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s", plan.ErrMalformedDocument, err)
	}

	if raw.Kopf.Titel == "" && raw.Kopf.Datum == "" {
		return nil, fmt.Errorf("%w: missing kopf header", plan.ErrMalformedDocument)
	}

	date, err := util.ParsePlanDate(raw.Kopf.Titel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", plan.ErrMalformedDocument, err)
	}

	document := plan.PlanDocument{
		Date:       date,
		Dialect:    dialect,
		SchoolName: strings.TrimSpace(raw.Kopf.Schulname),
		Forms:      map[string][]plan.Lesson{},
		FreeText:   strings.Join(raw.Fusszeilen, "\n"),

		AbsentTeachers:  util.SplitList(raw.Kopf.KopfInfo.AbwesendLehrer),
		AbsentForms:     util.SplitList(raw.Kopf.KopfInfo.AbwesendKlassen),
		AbsentRooms:     util.SplitList(raw.Kopf.KopfInfo.AbwesendRaeume),
		ChangedTeachers: util.SplitList(raw.Kopf.KopfInfo.AenderungLehrer),
		ChangedForms:    util.SplitList(raw.Kopf.KopfInfo.AenderungKlassen),
	}

	if raw.Kopf.Datum != "" {
		document.IssuedAt, err = util.ParseHeaderTimestamp(raw.Kopf.Datum)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", plan.ErrMalformedDocument, err)
		}
	}

	for _, day := range raw.FreieTage {
		free, err := util.ParsePlanDate(day)
		if err != nil {
			continue
		}
		document.FreeDays = append(document.FreeDays, free)
	}

	teacherView := dialect.View() == plan.ViewTeacher
	if teacherView {
		document.TeacherIndex = map[string][]plan.Lesson{}
	}

	for _, action := range raw.Aktionen {
		lessons, err := normalizeAction(action)
		if err != nil {
			return nil, err
		}

		for _, lesson := range lessons {
			if lesson.Form != "" {
				document.Forms[lesson.Form] = append(document.Forms[lesson.Form], lesson)
			}
			if teacherView && lesson.Teacher != "" {
				document.TeacherIndex[lesson.Teacher] = append(document.TeacherIndex[lesson.Teacher], lesson)
			}
		}
	}

	for key := range document.Forms {
		sortLessons(document.Forms[key])
	}
	for key := range document.TeacherIndex {
		sortLessons(document.TeacherIndex[key])
	}

	for _, exam := range raw.Klausuren {
		document.Exams = append(document.Exams, plan.Exam{
			Date:     date,
			Year:     atoiOrZero(exam.Jahrgang),
			Course:   strings.TrimSpace(exam.Kurs),
			Teacher:  strings.TrimSpace(exam.Kursleiter),
			Period:   atoiOrZero(exam.Stunde),
			Begin:    strings.TrimSpace(exam.Beginn),
			Duration: atoiOrZero(exam.Dauer),
			Info:     strings.TrimSpace(exam.Kinfo),
		})
	}

	for _, row := range raw.Aufsichten {
		document.Supervisions = append(document.Supervisions, plan.BreakSupervision{
			Info: strings.TrimSpace(row.Info),
		})
	}

	log.Debug().
		Str("dialect", string(dialect)).
		Time("date", document.Date).
		Int("actions", len(raw.Aktionen)).
		Msg("Parsed substitution plan document")

	return &document, nil
}

func normalizeAction(action Aktion) ([]plan.Lesson, error) {
	periods, err := parsePeriods(action.Stunde)
	if err != nil {
		return nil, err
	}

	subject := action.Fach
	teacher := action.Lehrer
	room := action.Raum

	// Teacher-view rows move the effective values into the v-prefixed
	// columns, fach/lehrer/raum then hold what was originally planned.
	if action.VFach != nil || action.VLehrer != nil || action.VRaum != nil {
		if action.VFach != nil {
			subject = *action.VFach
		}
		if action.VLehrer != nil {
			teacher = *action.VLehrer
		}
		if action.VRaum != nil {
			room = *action.VRaum
		}
	}

	template := plan.Lesson{
		Form:             strings.TrimSpace(action.Klasse),
		Subject:          normalizeField(subject.Value),
		Teacher:          normalizeField(teacher.Value),
		Room:             normalizeField(room.Value),
		SubstitutionText: strings.TrimSpace(action.Info),
	}

	template.Status = classify(subject.Changed(), teacher.Changed(), room.Changed(), template.Subject, template.Teacher, template.SubstitutionText)

	if template.Status == plan.StatusMoved {
		from, to, _ := util.ParseMovedPeriods(template.SubstitutionText)
		template.MovedFrom = &from
		template.MovedTo = &to
	}

	lessons := make([]plan.Lesson, 0, len(periods))
	for _, period := range periods {
		lesson := template
		lesson.Period = period
		lessons = append(lessons, lesson)
	}

	return lessons, nil
}

// parsePeriods handles both single periods ("3") and ranges ("3 - 4").
func parsePeriods(value string) ([]int, error) {
	value = strings.TrimSpace(value)

	parts := strings.SplitN(value, "-", 2)

	first, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: action with unparseable period %q", plan.ErrMalformedDocument, value)
	}

	if len(parts) == 1 {
		return []int{first}, nil
	}

	last, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || last < first {
		return nil, fmt.Errorf("%w: action with unparseable period range %q", plan.ErrMalformedDocument, value)
	}

	periods := make([]int, 0, last-first+1)
	for period := first; period <= last; period++ {
		periods = append(periods, period)
	}

	return periods, nil
}

func classify(subjectChanged, teacherChanged, roomChanged bool, subject, teacher, info string) plan.LessonStatus {
	if _, _, moved := util.ParseMovedPeriods(info); moved {
		return plan.StatusMoved
	}

	if util.IndicatesCancellation(info) {
		return plan.StatusCancelled
	}

	if subjectChanged && subject == "" && teacher == "" {
		return plan.StatusCancelled
	}

	if roomChanged && !subjectChanged && !teacherChanged {
		return plan.StatusRoomChanged
	}

	if subjectChanged || teacherChanged || roomChanged {
		return plan.StatusSubstituted
	}

	return plan.StatusRegular
}

func sortLessons(lessons []plan.Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Period < lessons[j].Period
	})
}

func normalizeField(value string) string {
	value = strings.TrimSpace(value)

	if value == "---" || value == "-" || value == "&nbsp;" {
		return ""
	}

	return value
}

func atoiOrZero(value string) int {
	out, _ := strconv.Atoi(strings.TrimSpace(value))
	return out
}
