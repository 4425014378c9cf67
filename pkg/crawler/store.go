package crawler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/plan"
)

// RevisionStore keeps every fetched revision of a day's plan on disk, one
// file per issue timestamp. Days map to directories named 2006-01-02,
// revisions to <unix>.json inside them.
type RevisionStore struct {
	Root string
}

func (s *RevisionStore) dayDir(date time.Time) string {
	return filepath.Join(s.Root, date.Format("2006-01-02"))
}

func (s *RevisionStore) Save(document *plan.PlanDocument) error {
	dir := s.dayDir(document.Date)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	contents, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return err
	}

	filename := strconv.FormatInt(document.IssuedAt.Unix(), 10) + ".json"

	return os.WriteFile(filepath.Join(dir, filename), contents, 0o644)
}

// Latest returns the newest stored revision for a date, or nil when the day
// has never been fetched.
func (s *RevisionStore) Latest(date time.Time) (*plan.PlanDocument, error) {
	revisions, err := s.revisionFiles(date)
	if err != nil || len(revisions) == 0 {
		return nil, err
	}

	return s.read(s.dayDir(date), revisions[len(revisions)-1])
}

// Revisions returns every stored revision for a date, oldest first.
func (s *RevisionStore) Revisions(date time.Time) ([]*plan.PlanDocument, error) {
	filenames, err := s.revisionFiles(date)
	if err != nil {
		return nil, err
	}

	var documents []*plan.PlanDocument
	for _, filename := range filenames {
		document, err := s.read(s.dayDir(date), filename)
		if err != nil {
			return nil, err
		}

		documents = append(documents, document)
	}

	return documents, nil
}

func (s *RevisionStore) revisionFiles(date time.Time) ([]string, error) {
	entries, err := os.ReadDir(s.dayDir(date))
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var filenames []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			filenames = append(filenames, entry.Name())
		}
	}

	sort.Slice(filenames, func(i, j int) bool {
		return revisionTimestamp(filenames[i]) < revisionTimestamp(filenames[j])
	})

	return filenames, nil
}

func revisionTimestamp(filename string) int64 {
	timestamp, _ := strconv.ParseInt(strings.TrimSuffix(filename, ".json"), 10, 64)
	return timestamp
}

func (s *RevisionStore) read(dir string, filename string) (*plan.PlanDocument, error) {
	contents, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return nil, err
	}

	var document plan.PlanDocument
	if err := json.Unmarshal(contents, &document); err != nil {
		return nil, err
	}

	return &document, nil
}
