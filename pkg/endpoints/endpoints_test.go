package endpoints

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/plan"
)

func TestResolveRegisteredKeys(t *testing.T) {
	catalog := DefaultCatalog()

	for _, key := range []Key{
		KeyMobilStudent,
		KeyMobilStudentLatest,
		KeyMobilTeacher,
		KeyMobilTeacherLatest,
		KeySubstitutionStudent,
		KeySubstitutionTeacher,
		KeyMobilStudentDirectory,
		KeyMobilTeacherDirectory,
	} {
		descriptor, err := catalog.Resolve(key)
		require.NoError(t, err)
		assert.Equal(t, key, descriptor.Key)
	}
}

func TestResolveUnknownKey(t *testing.T) {
	catalog := DefaultCatalog()

	// Wochenplan has a reserved slot but no registered descriptor.
	_, err := catalog.Resolve("Wochenplan")
	assert.ErrorIs(t, err, ErrUnknownEndpoint)

	_, err = catalog.Resolve("")
	assert.ErrorIs(t, err, ErrUnknownEndpoint)
}

func TestListByView(t *testing.T) {
	catalog := DefaultCatalog()

	students := catalog.ListByView(plan.ViewStudent)
	teachers := catalog.ListByView(plan.ViewTeacher)

	assert.Len(t, students, 4)
	assert.Len(t, teachers, 4)

	for _, descriptor := range students {
		assert.Equal(t, plan.ViewStudent, descriptor.View)
		assert.Equal(t, AuthBasicCredentials, descriptor.AuthMode)
	}

	// Teacher views need elevated auth on stundenplan24.de hostings.
	for _, descriptor := range teachers {
		assert.Equal(t, AuthSessionToken, descriptor.AuthMode)
	}
}

func TestNewCatalogRejectsDuplicateKeys(t *testing.T) {
	_, err := NewCatalog([]Descriptor{
		{Key: KeyMobilStudent},
		{Key: KeyMobilStudent},
	})

	assert.Error(t, err)
}

func TestDescriptorURL(t *testing.T) {
	catalog := DefaultCatalog()

	dated, err := catalog.Resolve(KeySubstitutionStudent)
	require.NoError(t, err)

	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t,
		"https://www.stundenplan24.de/10126582/vplan/vdaten/VplanKl20240304.xml",
		dated.URL("https://www.stundenplan24.de/", "10126582", date))

	// Substitution endpoints also serve the current plan with an empty
	// date.
	assert.Equal(t,
		"https://www.stundenplan24.de/10126582/vplan/vdaten/VplanKl.xml",
		dated.URL("https://www.stundenplan24.de", "10126582", time.Time{}))

	undated, err := catalog.Resolve(KeyMobilStudentLatest)
	require.NoError(t, err)

	assert.Equal(t,
		"https://www.stundenplan24.de/10126582/mobil/mobdaten/Klassen.xml",
		undated.URL("https://www.stundenplan24.de", "10126582", time.Time{}))
}
