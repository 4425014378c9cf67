package endpoints

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/plan"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/util"
)

var ErrUnknownEndpoint = errors.New("unknown endpoint key")

type Key string

const (
	KeyMobilStudent       Key = "mobil-student"
	KeyMobilStudentLatest Key = "mobil-student-latest"
	KeyMobilTeacher       Key = "mobil-teacher"
	KeyMobilTeacherLatest Key = "mobil-teacher-latest"

	KeySubstitutionStudent Key = "substitution-student"
	KeySubstitutionTeacher Key = "substitution-teacher"

	KeyMobilStudentDirectory Key = "mobil-student-directory"
	KeyMobilTeacherDirectory Key = "mobil-teacher-directory"
)

type AuthMode string

const (
	AuthNone             AuthMode = "none"
	AuthBasicCredentials AuthMode = "basic"
	AuthSessionToken     AuthMode = "session-token"
)

// Descriptor is the static metadata for one provider endpoint. URL templates
// use {school} and {date} placeholders, resolved against the hosting base
// URL.
type Descriptor struct {
	Key         Key
	URLTemplate string
	Method      string
	AuthMode    AuthMode
	Dialect     plan.Dialect
	View        plan.View

	// SupportsDateParam marks endpoints that serve one document per
	// requested date. Endpoints without it return the current plan (plus
	// the next days) in a single call.
	SupportsDateParam bool

	// RequiresDateParam marks dated endpoints whose file name is invalid
	// with an empty date. Substitution plans accept both.
	RequiresDateParam bool
}

// URL expands the descriptor's template. The date is ignored for endpoints
// that do not support one; validation of that mismatch belongs to the
// caller.
func (d Descriptor) URL(baseURL string, schoolNumber string, date time.Time) string {
	dateValue := ""
	if d.SupportsDateParam && !date.IsZero() {
		dateValue = util.FormatDateParam(date)
	}

	path := strings.ReplaceAll(d.URLTemplate, "{school}", schoolNumber)
	path = strings.ReplaceAll(path, "{date}", dateValue)

	return strings.TrimSuffix(baseURL, "/") + "/" + path
}

// Catalog is an immutable endpoint registry, constructed once at startup
// and safe for concurrent use.
type Catalog struct {
	descriptors map[Key]Descriptor
	order       []Key
}

func NewCatalog(descriptors []Descriptor) (*Catalog, error) {
	catalog := Catalog{
		descriptors: map[Key]Descriptor{},
	}

	for _, descriptor := range descriptors {
		if _, exists := catalog.descriptors[descriptor.Key]; exists {
			return nil, fmt.Errorf("duplicate endpoint key %q", descriptor.Key)
		}

		catalog.descriptors[descriptor.Key] = descriptor
		catalog.order = append(catalog.order, descriptor.Key)
	}

	return &catalog, nil
}

func (c *Catalog) Resolve(key Key) (Descriptor, error) {
	descriptor, ok := c.descriptors[key]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownEndpoint, key)
	}

	return descriptor, nil
}

func (c *Catalog) ListByView(view plan.View) []Descriptor {
	var list []Descriptor

	for _, key := range c.order {
		if c.descriptors[key].View == view {
			list = append(list, c.descriptors[key])
		}
	}

	return list
}

// DefaultCatalog describes the stundenplan24.de deployment. Adding an
// endpoint is a table entry here, never a parser change.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog([]Descriptor{
		{
			Key:               KeyMobilStudent,
			URLTemplate:       "{school}/mobil/mobdaten/PlanKl{date}.xml",
			Method:            "GET",
			AuthMode:          AuthBasicCredentials,
			Dialect:           plan.DialectMobilStudent,
			View:              plan.ViewStudent,
			SupportsDateParam: true,
			RequiresDateParam: true,
		},
		{
			Key:         KeyMobilStudentLatest,
			URLTemplate: "{school}/mobil/mobdaten/Klassen.xml",
			Method:      "GET",
			AuthMode:    AuthBasicCredentials,
			Dialect:     plan.DialectMobilStudent,
			View:        plan.ViewStudent,
		},
		{
			Key:               KeyMobilTeacher,
			URLTemplate:       "{school}/moble/mobdaten/PlanLe{date}.xml",
			Method:            "GET",
			AuthMode:          AuthSessionToken,
			Dialect:           plan.DialectMobilTeacher,
			View:              plan.ViewTeacher,
			SupportsDateParam: true,
			RequiresDateParam: true,
		},
		{
			Key:         KeyMobilTeacherLatest,
			URLTemplate: "{school}/moble/mobdaten/Lehrer.xml",
			Method:      "GET",
			AuthMode:    AuthSessionToken,
			Dialect:     plan.DialectMobilTeacher,
			View:        plan.ViewTeacher,
		},
		{
			Key:               KeySubstitutionStudent,
			URLTemplate:       "{school}/vplan/vdaten/VplanKl{date}.xml",
			Method:            "GET",
			AuthMode:          AuthBasicCredentials,
			Dialect:           plan.DialectSubstitutionStudent,
			View:              plan.ViewStudent,
			SupportsDateParam: true,
		},
		{
			Key:               KeySubstitutionTeacher,
			URLTemplate:       "{school}/vplanle/vdaten/VplanLe{date}.xml",
			Method:            "GET",
			AuthMode:          AuthSessionToken,
			Dialect:           plan.DialectSubstitutionTeacher,
			View:              plan.ViewTeacher,
			SupportsDateParam: true,
		},
		{
			Key:         KeyMobilStudentDirectory,
			URLTemplate: "{school}/mobil/_phpmob/vpdir.php",
			Method:      "POST",
			AuthMode:    AuthBasicCredentials,
			View:        plan.ViewStudent,
		},
		{
			Key:         KeyMobilTeacherDirectory,
			URLTemplate: "{school}/moble/_phpmob/vpdir.php",
			Method:      "POST",
			AuthMode:    AuthSessionToken,
			View:        plan.ViewTeacher,
		},
		// Reserved for views the normalizer does not parse yet:
		// Wochenplan "{school}/wplan/wdatenk/WPlanKl_{date}.xml" and
		// Stundenplan "{school}/splan/sdaten/splank.xml".
	})
	if err != nil {
		panic(err)
	}

	return catalog
}
