package pipeline

import (
	"math"
	"sort"
)

// The rolling engine turns each team's season into a sequence and
// computes trailing means over it. Every feature is shifted one match
// back, so a row only ever sees matches that finished before it and
// the first match of a team's season carries NaN throughout.

// shiftRoll computes, for every position i, the mean of the non-NaN
// values at positions [max(0, i-window), i). Position 0 and all-NaN
// windows yield NaN.
func shiftRoll(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		start := i - window
		if start < 0 {
			start = 0
		}
		sum := 0.0
		count := 0
		for j := start; j < i; j++ {
			if math.IsNaN(values[j]) {
				continue
			}
			sum += values[j]
			count++
		}
		if count == 0 {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(count)
		}
	}
	return out
}

// maskVenue blanks values where the row's venue does not match, keeping
// the full season sequence intact. The roll then still steps over every
// match, it just only averages the matching venue's values.
func maskVenue(group []*RollingRecord, wantHome int) []float64 {
	out := make([]float64, len(group))
	for i, r := range group {
		if r.IsHome == wantHome {
			out[i] = float64(r.Points)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// rollingStat binds a source column to the feature field it fills
type rollingStat struct {
	window int
	get    func(*TeamMatchRecord) float64
	set    func(*RollingRecord, float64)
}

func rollingStats() []rollingStat {
	short := Config.RollWindowShort
	long := Config.RollWindowLong
	return []rollingStat{
		{short, func(r *TeamMatchRecord) float64 { return float64(r.Points) },
			func(r *RollingRecord, v float64) { r.AvgPointsL5 = v }},
		{long, func(r *TeamMatchRecord) float64 { return float64(r.Points) },
			func(r *RollingRecord, v float64) { r.AvgPointsL10 = v }},
		{short, func(r *TeamMatchRecord) float64 { return float64(r.GoalsFor) },
			func(r *RollingRecord, v float64) { r.AvgGoalsForL5 = v }},
		{short, func(r *TeamMatchRecord) float64 { return float64(r.GoalsAgainst) },
			func(r *RollingRecord, v float64) { r.AvgGoalsAgainstL5 = v }},
		{short, func(r *TeamMatchRecord) float64 { return r.CleanSheets },
			func(r *RollingRecord, v float64) { r.CleanSheetRateL5 = v }},
		{short, func(r *TeamMatchRecord) float64 { return r.XGFor },
			func(r *RollingRecord, v float64) { r.AvgXGForL5 = v }},
		{short, func(r *TeamMatchRecord) float64 { return r.XGAgainst },
			func(r *RollingRecord, v float64) { r.AvgXGAgainstL5 = v }},
		{short, func(r *TeamMatchRecord) float64 { return r.ShotsOnTargetFor },
			func(r *RollingRecord, v float64) { r.AvgShotsOnTargetForL5 = v }},
		{short, func(r *TeamMatchRecord) float64 { return r.ShotsOnTargetAgainst },
			func(r *RollingRecord, v float64) { r.AvgShotsOnTargetAgainstL5 = v }},
		{short, func(r *TeamMatchRecord) float64 { return r.Possession },
			func(r *RollingRecord, v float64) { r.AvgPossessionL5 = v }},
		{short, func(r *TeamMatchRecord) float64 { return r.Saves },
			func(r *RollingRecord, v float64) { r.AvgSavesL5 = v }},
		{short, func(r *TeamMatchRecord) float64 { return r.Fouls },
			func(r *RollingRecord, v float64) { r.AvgFoulsL5 = v }},
		{short, func(r *TeamMatchRecord) float64 { return r.YellowCards },
			func(r *RollingRecord, v float64) { r.AvgYellowCardsL5 = v }},
		{short, func(r *TeamMatchRecord) float64 { return r.Blocks },
			func(r *RollingRecord, v float64) { r.AvgBlocksL5 = v }},
		{short, func(r *TeamMatchRecord) float64 { return r.Clearances },
			func(r *RollingRecord, v float64) { r.AvgClearancesL5 = v }},
	}
}

// BuildRollingFeatures computes the trailing form features for every
// team perspective row. Form never crosses a season boundary, promoted
// or relegated squads start over.
func BuildRollingFeatures(rows []*TeamMatchRecord) []*RollingRecord {
	out := make([]*RollingRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, &RollingRecord{TeamMatchRecord: *r})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		if !out[i].MatchDate.Equal(out[j].MatchDate) {
			return out[i].MatchDate.Before(out[j].MatchDate)
		}
		return out[i].MatchID < out[j].MatchID
	})

	stats := rollingStats()
	venueWindow := Config.RollWindowVenue

	// contiguous (season, team) runs after the sort
	start := 0
	for start < len(out) {
		end := start
		for end < len(out) && out[end].Season == out[start].Season && out[end].Team == out[start].Team {
			end++
		}
		group := out[start:end]

		for _, s := range stats {
			values := make([]float64, len(group))
			for i, r := range group {
				values[i] = s.get(&r.TeamMatchRecord)
			}
			rolled := shiftRoll(values, s.window)
			for i, r := range group {
				s.set(r, rolled[i])
			}
		}

		homePoints := shiftRoll(maskVenue(group, 1), venueWindow)
		awayPoints := shiftRoll(maskVenue(group, 0), venueWindow)
		for i, r := range group {
			r.AvgPointsHomeL5 = homePoints[i]
			r.AvgPointsAwayL5 = awayPoints[i]
		}

		// composites come from the already shifted aggregates, never
		// from this match's own numbers
		for _, r := range group {
			r.AvgGoalDiffL5 = r.AvgGoalsForL5 - r.AvgGoalsAgainstL5
			r.AvgXGDiffL5 = r.AvgXGForL5 - r.AvgXGAgainstL5
			r.AvgDisciplineL5 = r.AvgFoulsL5 + r.AvgYellowCardsL5
		}

		start = end
	}

	return out
}
