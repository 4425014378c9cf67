package vertretungsplan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/plan"
)

const studentFixture = `<?xml version="1.0" encoding="utf-8"?>
<vp>
  <kopf>
    <datei>VplanKl20240304.xml</datei>
    <titel>Montag, 4. März 2024</titel>
    <schulname>Oberschule Musterstadt</schulname>
    <datum>04.03.2024, 07:00</datum>
    <kopfinfo>
      <abwesendl>Mul, Fri</abwesendl>
      <abwesendk>9a</abwesendk>
    </kopfinfo>
  </kopf>
  <freietage>
    <ft>240318</ft>
  </freietage>
  <haupt>
    <aktion>
      <klasse>6c</klasse>
      <stunde>3</stunde>
      <fach fageaendert="ae">---</fach>
      <lehrer legeaendert="ae"></lehrer>
      <raum></raum>
      <info>entfällt</info>
    </aktion>
    <aktion>
      <klasse>7a</klasse>
      <stunde>4 - 5</stunde>
      <fach>EN</fach>
      <lehrer legeaendert="ae">Sow</lehrer>
      <raum rageaendert="ae">B204</raum>
      <info>Vertretung</info>
    </aktion>
    <aktion>
      <klasse>8b</klasse>
      <stunde>2</stunde>
      <fach>MA</fach>
      <lehrer>Kae</lehrer>
      <raum rageaendert="ae">E203</raum>
      <info></info>
    </aktion>
  </haupt>
  <klausuren>
    <klausur>
      <jahrgang>12</jahrgang>
      <kurs>ma1</kurs>
      <kursleiter>Kae</kursleiter>
      <stunde>2</stunde>
      <beginn>08:35</beginn>
      <dauer>90</dauer>
      <kinfo>Raum E203</kinfo>
    </klausur>
  </klausuren>
  <fuss>
    <fusszeile>
      <fusslinie>Essenanbieter am Montag geschlossen.</fusslinie>
    </fusszeile>
  </fuss>
</vp>`

func TestParseStudentPlan(t *testing.T) {
	document, err := Parse(strings.NewReader(studentFixture), plan.DialectSubstitutionStudent)
	require.NoError(t, err)

	assert.Equal(t, plan.DialectSubstitutionStudent, document.Dialect)
	assert.Equal(t, "2024-03-04", document.Date.Format("2006-01-02"))
	assert.Equal(t, "07:00", document.IssuedAt.Format("15:04"))
	assert.Equal(t, "Oberschule Musterstadt", document.SchoolName)
	assert.Equal(t, []string{"Mul", "Fri"}, document.AbsentTeachers)
	assert.Equal(t, []string{"9a"}, document.AbsentForms)
	assert.Equal(t, "Essenanbieter am Montag geschlossen.", document.FreeText)
	assert.Len(t, document.FreeDays, 1)
	assert.Nil(t, document.TeacherIndex)
}

func TestParseCancelledLesson(t *testing.T) {
	document, err := Parse(strings.NewReader(studentFixture), plan.DialectSubstitutionStudent)
	require.NoError(t, err)

	require.Contains(t, document.Forms, "6c")
	require.Len(t, document.Forms["6c"], 1)

	lesson := document.Forms["6c"][0]
	assert.Equal(t, 3, lesson.Period)
	assert.Equal(t, "6c", lesson.Form)
	assert.Equal(t, plan.StatusCancelled, lesson.Status)
	assert.Equal(t, "entfällt", lesson.SubstitutionText)
	assert.Empty(t, lesson.Subject)
	assert.Empty(t, lesson.Teacher)
}

func TestParsePeriodRange(t *testing.T) {
	document, err := Parse(strings.NewReader(studentFixture), plan.DialectSubstitutionStudent)
	require.NoError(t, err)

	require.Contains(t, document.Forms, "7a")
	lessons := document.Forms["7a"]
	require.Len(t, lessons, 2)

	assert.Equal(t, 4, lessons[0].Period)
	assert.Equal(t, 5, lessons[1].Period)

	for _, lesson := range lessons {
		assert.Equal(t, plan.StatusSubstituted, lesson.Status)
		assert.Equal(t, "Sow", lesson.Teacher)
		assert.Equal(t, "B204", lesson.Room)
	}
}

func TestParseRoomChangeOnly(t *testing.T) {
	document, err := Parse(strings.NewReader(studentFixture), plan.DialectSubstitutionStudent)
	require.NoError(t, err)

	require.Contains(t, document.Forms, "8b")
	lesson := document.Forms["8b"][0]

	assert.Equal(t, plan.StatusRoomChanged, lesson.Status)
	assert.Equal(t, "E203", lesson.Room)
	assert.Empty(t, lesson.SubstitutionText)
}

const teacherFixture = `<?xml version="1.0" encoding="utf-8"?>
<vp>
  <kopf>
    <datei>VplanLe20240304.xml</datei>
    <titel>Montag, 4. März 2024</titel>
    <schulname>Oberschule Musterstadt</schulname>
    <datum>04.03.2024, 07:45</datum>
    <kopfinfo></kopfinfo>
  </kopf>
  <haupt>
    <aktion>
      <klasse>6c</klasse>
      <stunde>3</stunde>
      <fach>PH</fach>
      <lehrer>Mul</lehrer>
      <raum>C301</raum>
      <vfach legeaendert="ae">MA</vfach>
      <vlehrer legeaendert="ae">Sow</vlehrer>
      <vraum>C301</vraum>
      <info>Vertretung für Mul</info>
    </aktion>
  </haupt>
</vp>`

func TestParseTeacherPlan(t *testing.T) {
	document, err := Parse(strings.NewReader(teacherFixture), plan.DialectSubstitutionTeacher)
	require.NoError(t, err)

	assert.Equal(t, plan.ViewTeacher, document.View())

	// The effective values come from the v-prefixed columns.
	require.Contains(t, document.Forms, "6c")
	lesson := document.Forms["6c"][0]
	assert.Equal(t, "MA", lesson.Subject)
	assert.Equal(t, "Sow", lesson.Teacher)
	assert.Equal(t, plan.StatusSubstituted, lesson.Status)

	require.Contains(t, document.TeacherIndex, "Sow")
	assert.Len(t, document.TeacherIndex["Sow"], 1)
}

func TestParseMissingOptionalSections(t *testing.T) {
	fixture := `<?xml version="1.0" encoding="utf-8"?>
<vp>
  <kopf>
    <titel>20240304</titel>
    <datum>04.03.2024, 07:00</datum>
  </kopf>
</vp>`

	document, err := Parse(strings.NewReader(fixture), plan.DialectSubstitutionStudent)
	require.NoError(t, err)

	assert.Empty(t, document.Forms)
	assert.Empty(t, document.Exams)
	assert.Empty(t, document.Supervisions)
	assert.Empty(t, document.AbsentTeachers)
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"not xml":        "<html><body>404</body></html>",
		"missing header": `<?xml version="1.0"?><vp><haupt></haupt></vp>`,
		"bad period":     `<?xml version="1.0"?><vp><kopf><titel>20240304</titel><datum>04.03.2024, 07:00</datum></kopf><haupt><aktion><klasse>6c</klasse><stunde>x</stunde></aktion></haupt></vp>`,
	}

	for name, fixture := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(fixture), plan.DialectSubstitutionStudent)
			assert.ErrorIs(t, err, plan.ErrMalformedDocument)
		})
	}
}
