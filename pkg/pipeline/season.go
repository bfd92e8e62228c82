package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// canonical season form is "2021-2022"

// ParseSeason accepts the season formats seen across our data sources
// ("2023-2024", "2023/2024", "23/24", "2324") and returns the canonical
// hyphenated form
func ParseSeason(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty season string")
	}

	var parts []string
	if strings.Contains(s, "-") {
		parts = strings.Split(s, "-")
	} else if strings.Contains(s, "/") {
		parts = strings.Split(s, "/")
	} else if len(s) == 4 {
		// encoded form like "2324"
		parts = []string{s[0:2], s[2:4]}
	} else {
		return "", fmt.Errorf("unrecognised season format %q", s)
	}

	if len(parts) != 2 {
		return "", fmt.Errorf("unrecognised season format %q", s)
	}

	first, err := expandYear(parts[0])
	if err != nil {
		return "", fmt.Errorf("invalid season %q: %w", s, err)
	}
	second, err := expandYear(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid season %q: %w", s, err)
	}

	if second != first+1 {
		return "", fmt.Errorf("season years %d and %d are not consecutive", first, second)
	}
	return fmt.Sprintf("%d-%d", first, second), nil
}

// expandYear turns a 2 or 4 digit year into a 4 digit one.
// Two digit years are assumed to be 20xx.
func expandYear(y string) (int, error) {
	y = strings.TrimSpace(y)
	n, err := strconv.Atoi(y)
	if err != nil {
		return 0, fmt.Errorf("year %q is not numeric", y)
	}
	switch len(y) {
	case 4:
		return n, nil
	case 2:
		return 2000 + n, nil
	default:
		return 0, fmt.Errorf("year %q must have 2 or 4 digits", y)
	}
}

// SeasonToNative converts a canonical season into the short code
// football-data.co.uk uses in its urls ("2021-2022" -> "2122")
func SeasonToNative(season string) (string, error) {
	canonical, err := ParseSeason(season)
	if err != nil {
		return "", err
	}
	parts := strings.Split(canonical, "-")
	return parts[0][2:] + parts[1][2:], nil
}

// SeasonFirstYear returns the starting year of a canonical season
func SeasonFirstYear(season string) (int, error) {
	canonical, err := ParseSeason(season)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.Split(canonical, "-")[0])
}

// IsSameSeason reports whether two season strings refer to the same season
// regardless of their format
func IsSameSeason(a, b string) bool {
	ca, err := ParseSeason(a)
	if err != nil {
		return false
	}
	cb, err := ParseSeason(b)
	if err != nil {
		return false
	}
	return ca == cb
}

// IsCurrentSeason reports whether the season is still being played.
// Seasons roll over in July.
func IsCurrentSeason(season string) bool {
	first, err := SeasonFirstYear(season)
	if err != nil {
		return false
	}
	now := time.Now()
	currentFirst := now.Year()
	if now.Month() < time.July {
		currentFirst--
	}
	return first >= currentFirst
}

// dateLayouts lists the date formats seen in our sources, most common first.
// The stats export uses ISO dates, the odds files use day-first.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02/01/06",
	"2006/01/02",
	"01/02/2006",
}

// ParseDate parses a date in any of the formats our sources use
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format %q", s)
}

// FormatDate renders a date in the canonical ISO form used throughout
// the pipeline and in match ids
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
