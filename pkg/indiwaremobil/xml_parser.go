package indiwaremobil

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

// Parse reads one Indiware Mobil document ("PlanKl..." / "PlanLe..." files)
// and normalizes it. The dialect decides whether the per-block key is a form
// identifier or a teacher short name.
func Parse(reader io.Reader, dialect plan.Dialect) (*plan.PlanDocument, error) {
	var head Kopf
	var freeDays FreieTage
	var additionalInfo ZusatzInfo
	var blocks []Klasse

	headSeen := false

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := d.Token()
		if tok == nil || err == io.EOF {
			// EOF means we're done.
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: %s", plan.ErrMalformedDocument, err)
		}

		switch ty := tok.(type) {
		case xml.StartElement:
			if ty.Name.Local == "Kopf" {
				if err = d.DecodeElement(&head, &ty); err != nil {
					return nil, fmt.Errorf("%w: %s", plan.ErrMalformedDocument, err)
				}
				headSeen = true
			} else if ty.Name.Local == "FreieTage" {
				if err = d.DecodeElement(&freeDays, &ty); err != nil {
					return nil, fmt.Errorf("%w: %s", plan.ErrMalformedDocument, err)
				}
			} else if ty.Name.Local == "Kl" {
				var block Klasse

				if err = d.DecodeElement(&block, &ty); err != nil {
					return nil, fmt.Errorf("%w: %s", plan.ErrMalformedDocument, err)
				}
				blocks = append(blocks, block)
			} else if ty.Name.Local == "ZusatzInfo" {
				if err = d.DecodeElement(&additionalInfo, &ty); err != nil {
					return nil, fmt.Errorf("%w: %s", plan.ErrMalformedDocument, err)
				}
			}
		default:
		}
	}

	if !headSeen {
		return nil, fmt.Errorf("%w: missing Kopf header", plan.ErrMalformedDocument)
	}

	document, err := normalize(head, freeDays, additionalInfo, blocks, dialect)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("dialect", string(dialect)).
		Time("date", document.Date).
		Int("blocks", len(blocks)).
		Msg("Parsed Indiware Mobil document")

	return document, nil
}

func normalize(head Kopf, freeDays FreieTage, additionalInfo ZusatzInfo, blocks []Klasse, dialect plan.Dialect) (*plan.PlanDocument, error) {
	date, err := util.ParsePlanDate(head.DatumPlan)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", plan.ErrMalformedDocument, err)
	}

	document := plan.PlanDocument{
		Date:        date,
		Dialect:     dialect,
		Week:        atoiOrZero(head.Woche),
		DaysPerWeek: atoiOrZero(head.TageProWoche),
		Forms:       map[string][]plan.Lesson{},
		FreeText:    strings.Join(additionalInfo.Zeilen, "\n"),
	}

	if head.Zeitstempel != "" {
		document.IssuedAt, err = util.ParseHeaderTimestamp(head.Zeitstempel)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", plan.ErrMalformedDocument, err)
		}
	}

	for _, day := range freeDays.Tage {
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

	for _, block := range blocks {
		for _, raw := range block.Plan {
			lesson, err := normalizeLesson(raw, block.Kurz, teacherView)
			if err != nil {
				return nil, err
			}

			if teacherView {
				document.TeacherIndex[block.Kurz] = append(document.TeacherIndex[block.Kurz], lesson)
				if lesson.Form != "" {
					document.Forms[lesson.Form] = append(document.Forms[lesson.Form], lesson)
				}
			} else {
				document.Forms[block.Kurz] = append(document.Forms[block.Kurz], lesson)
			}
		}

		for _, raw := range block.Klausuren {
			document.Exams = append(document.Exams, plan.Exam{
				Date:     date,
				Year:     atoiOrZero(raw.Jahrgang),
				Course:   strings.TrimSpace(raw.Kurs),
				Teacher:  strings.TrimSpace(raw.Kursleiter),
				Period:   atoiOrZero(raw.Stunde),
				Begin:    normalizeClock(raw.Beginn),
				Duration: atoiOrZero(raw.Dauer),
				Info:     strings.TrimSpace(raw.Kinfo),
			})
		}

		for _, raw := range block.Aufsichten {
			supervision := plan.BreakSupervision{
				Period:   atoiOrZero(raw.VorStunde),
				Time:     normalizeClock(raw.Uhrzeit),
				Location: strings.TrimSpace(raw.Ort),
				Info:     strings.TrimSpace(raw.Info),
			}
			if teacherView {
				supervision.Teacher = block.Kurz
			}

			document.Supervisions = append(document.Supervisions, supervision)
		}
	}

	for key := range document.Forms {
		sortLessons(document.Forms[key])
	}
	for key := range document.TeacherIndex {
		sortLessons(document.TeacherIndex[key])
	}

	return &document, nil
}

func normalizeLesson(raw Std, blockKey string, teacherView bool) (plan.Lesson, error) {
	period, err := strconv.Atoi(strings.TrimSpace(raw.St))
	if err != nil {
		return plan.Lesson{}, fmt.Errorf("%w: lesson without a period number", plan.ErrMalformedDocument)
	}

	lesson := plan.Lesson{
		Period:           period,
		Subject:          normalizeField(raw.Fa.Value),
		Course:           strings.TrimSpace(raw.Ku2),
		Room:             normalizeField(raw.Ra.Value),
		Start:            normalizeClock(raw.Beginn),
		End:              normalizeClock(raw.Ende),
		SubstitutionText: strings.TrimSpace(raw.If),
	}

	// In teacher plans the block key is the teacher and the Le column
	// carries the form instead.
	leValue := normalizeField(raw.Le.Value)
	if teacherView {
		lesson.Teacher = blockKey
		lesson.Form = leValue
	} else {
		lesson.Form = blockKey
		lesson.Teacher = leValue
	}

	lesson.Status = classify(raw.Fa.Changed(), raw.Le.Changed(), raw.Ra.Changed(), lesson.Subject, leValue, lesson.SubstitutionText)

	if lesson.Status == plan.StatusMoved {
		from, to, _ := util.ParseMovedPeriods(lesson.SubstitutionText)
		lesson.MovedFrom = &from
		lesson.MovedTo = &to
	}

	return lesson, nil
}

func classify(subjectChanged, teacherChanged, roomChanged bool, subject, counterpart, info string) plan.LessonStatus {
	if _, _, moved := util.ParseMovedPeriods(info); moved {
		return plan.StatusMoved
	}

	if util.IndicatesCancellation(info) {
		return plan.StatusCancelled
	}

	if subjectChanged && subject == "" && counterpart == "" {
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

// The provider marks removed values with placeholder dashes rather than
// empty elements.
func normalizeField(value string) string {
	value = strings.TrimSpace(value)

	if value == "---" || value == "-" || value == "&nbsp;" {
		return ""
	}

	return value
}

func normalizeClock(value string) string {
	return strings.TrimSpace(strings.ReplaceAll(value, ".", ":"))
}

func atoiOrZero(value string) int {
	out, _ := strconv.Atoi(strings.TrimSpace(value))
	return out
}
