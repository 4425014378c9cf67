package parsers

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/indiwaremobil"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/plan"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/vertretungsplan"
)

var ErrUnsupportedDialect = errors.New("no parser registered for dialect")

// ErrMalformedDocument re-exports the parse failure sentinel so callers can
// discriminate on it without importing the model package.
var ErrMalformedDocument = plan.ErrMalformedDocument

type Parser func(io.Reader, plan.Dialect) (*plan.PlanDocument, error)

var registry = map[plan.Dialect]Parser{
	plan.DialectMobilStudent:        indiwaremobil.Parse,
	plan.DialectMobilTeacher:        indiwaremobil.Parse,
	plan.DialectSubstitutionStudent: vertretungsplan.Parse,
	plan.DialectSubstitutionTeacher: vertretungsplan.Parse,
}

// Parse routes raw bytes to the parser registered for the dialect.
func Parse(dialect plan.Dialect, raw []byte) (*plan.PlanDocument, error) {
	parser, ok := registry[dialect]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}

	return parser(bytes.NewReader(raw), dialect)
}
