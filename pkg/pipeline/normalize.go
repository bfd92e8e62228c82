package pipeline

import (
	"regexp"
	"strings"

	"github.com/richard-senior/footform/internal/logger"
	"github.com/richard-senior/footform/pkg/util"
)

var formationDigits = regexp.MustCompile(`(\d+)`)

// NormalizeTeam reduces a raw team name from any source to its canonical
// lowercase form. Unknown names pass through lowercased so the pipeline
// stays usable when a newly promoted side appears.
func NormalizeTeam(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return n
	}
	if canonical, ok := Config.TeamSynonyms[n]; ok {
		return canonical
	}
	logUnknownTeam(n)
	return n
}

// logUnknownTeam suggests the nearest known canonical name for a team
// that missed the synonym table
func logUnknownTeam(name string) {
	best := ""
	bestScore := -1
	for _, canonical := range Config.TeamSynonyms {
		score := util.FuzzyMatch(name, canonical)
		if bestScore == -1 || score < bestScore {
			best = canonical
			bestScore = score
		}
	}
	if best != "" {
		logger.Debug("unknown team name", name, "nearest known:", best)
	} else {
		logger.Debug("unknown team name", name)
	}
}

// NormalizeReferee reduces referee names to a consistent full-name form.
// Sources variously use "M. Oliver", "M Oliver" and "Michael Oliver".
func NormalizeReferee(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return n
	}
	n = strings.TrimSpace(strings.ReplaceAll(n, ".", ""))
	n = titleCase(n)
	if full, ok := Config.RefereeSynonyms[n]; ok {
		return full
	}
	return n
}

// titleCase uppercases the first letter of each space separated word,
// lowercasing the rest
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) == 1 {
			words[i] = strings.ToUpper(w)
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// NormalizeFormation reduces formation strings to a dashed form like "4-2-3-1".
// Already dashed values pass through, otherwise digit groups are re-joined.
func NormalizeFormation(f string) string {
	f = strings.TrimSpace(f)
	if f == "" {
		return f
	}
	if strings.Contains(f, "-") && !strings.Contains(f, "/") {
		return f
	}

	nums := formationDigits.FindAllString(f, -1)
	if len(nums) < 2 {
		return f
	}
	if len(nums) == 3 {
		return nums[0] + "-" + nums[1] + "-" + nums[2][:1]
	}
	if len(nums) == 2 {
		return nums[0] + "-" + nums[1]
	}
	return strings.Join(nums[:3], "-")
}

// Slug renders a canonical team name as a match id component
func Slug(team string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(team)), " ", "_")
}
