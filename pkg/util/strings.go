package util

import (
	"regexp"
	"strconv"
	"strings"
)

// SplitList splits the comma separated lists found in substitution plan
// headers ("Mul, Fri, Sow") into their entries, dropping empty ones.
func SplitList(value string) []string {
	var list []string

	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)

		if entry != "" {
			list = append(list, entry)
		}
	}

	return list
}

func ContainsString(s []string, str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}

	return false
}

var cancellationTexts = []string{"entfällt", "fällt aus", "ausfall", "entfall"}

// IndicatesCancellation reports whether a substitution annotation marks the
// lesson as not taking place.
func IndicatesCancellation(info string) bool {
	info = strings.ToLower(info)

	for _, text := range cancellationTexts {
		if strings.Contains(info, text) {
			return true
		}
	}

	return false
}

var movedRegex = regexp.MustCompile(`(?i)verlegt von St\.?\s*(\d+)\s+nach St\.?\s*(\d+)`)

// ParseMovedPeriods extracts the source and target periods from annotations
// like "verlegt von St.3 nach St.5".
func ParseMovedPeriods(info string) (from int, to int, ok bool) {
	match := movedRegex.FindStringSubmatch(info)
	if match == nil {
		return 0, 0, false
	}

	from, _ = strconv.Atoi(match[1])
	to, _ = strconv.Atoi(match[2])

	return from, to, from != to
}
