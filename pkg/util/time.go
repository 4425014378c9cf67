package util

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Header timestamps look like "04.03.2024, 07:45" and are local to the
// provider's timezone.
const headerTimestampFormat = "02.01.2006, 15:04"

var (
	providerLocation     *time.Location
	providerLocationOnce sync.Once
)

func ProviderLocation() *time.Location {
	providerLocationOnce.Do(func() {
		var err error
		providerLocation, err = time.LoadLocation("Europe/Berlin")
		if err != nil {
			providerLocation = time.UTC
		}
	})

	return providerLocation
}

func ParseHeaderTimestamp(value string) (time.Time, error) {
	return time.ParseInLocation(headerTimestampFormat, strings.TrimSpace(value), ProviderLocation())
}

var germanMonths = map[string]time.Month{
	"januar":    time.January,
	"februar":   time.February,
	"märz":      time.March,
	"april":     time.April,
	"mai":       time.May,
	"juni":      time.June,
	"juli":      time.July,
	"august":    time.August,
	"september": time.September,
	"oktober":   time.October,
	"november":  time.November,
	"dezember":  time.December,
}

// ParsePlanDate handles the plan date spellings the provider uses
// interchangeably: "Montag, 4. März 2024", "04.03.2024", "20240304" and the
// free-day form "240304".
func ParsePlanDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	// Drop a leading weekday ("Montag, 4. März 2024")
	if idx := strings.Index(value, ", "); idx != -1 {
		value = value[idx+2:]
	}

	for _, layout := range []string{"02.01.2006", "20060102", "060102"} {
		if parsed, err := time.ParseInLocation(layout, value, ProviderLocation()); err == nil {
			return parsed, nil
		}
	}

	fields := strings.Fields(value)
	if len(fields) == 3 {
		day := strings.TrimSuffix(fields[0], ".")
		month, monthKnown := germanMonths[strings.ToLower(fields[1])]

		if monthKnown {
			parsed, err := time.ParseInLocation("2-1-2006", fmt.Sprintf("%s-%d-%s", day, month, fields[2]), ProviderLocation())
			if err == nil {
				return parsed, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised plan date %q", value)
}

// FormatDateParam renders a date the way the provider's dated plan file
// names expect it.
func FormatDateParam(date time.Time) string {
	return date.Format("20060102")
}
