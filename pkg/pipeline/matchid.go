package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// BuildMatchID produces the stable identifier every table is keyed on.
// Team names must already be canonical, the date supplies the ISO prefix.
func BuildMatchID(date time.Time, homeTeam, awayTeam string) (string, error) {
	if date.IsZero() {
		return "", fmt.Errorf("cannot build match id without a date")
	}
	if homeTeam == "" || awayTeam == "" {
		return "", fmt.Errorf("cannot build match id without both team names")
	}
	return fmt.Sprintf("%s_%s_%s", FormatDate(date), Slug(homeTeam), Slug(awayTeam)), nil
}

// MatchIDPattern builds a sql LIKE pattern matching any meeting of the
// two sides regardless of date. Underscores are literal in match ids
// but wildcards in LIKE, so they are escaped; query with ESCAPE '\'.
func MatchIDPattern(homeTeam, awayTeam string) string {
	esc := func(name string) string {
		return strings.ReplaceAll(Slug(name), "_", `\_`)
	}
	return `%\_` + esc(homeTeam) + `\_` + esc(awayTeam)
}
