package pipeline

import (
	"fmt"
	"math"
	"sort"
)

// Pivot folds the two per-team rows of each match into a single
// match-level row. Every match must have exactly one home and one away
// perspective, anything else means the source data is inconsistent.
func Pivot(rows []*TeamStatRow) ([]*MatchRow, error) {
	type pair struct {
		home *TeamStatRow
		away *TeamStatRow
	}
	pairs := make(map[string]*pair)
	order := make([]string, 0, len(rows)/2)

	for _, r := range rows {
		id, err := r.MatchID()
		if err != nil {
			return nil, fmt.Errorf("cannot key row for %s vs %s: %w", r.Team, r.Opponent, err)
		}
		p, ok := pairs[id]
		if !ok {
			p = &pair{}
			pairs[id] = p
			order = append(order, id)
		}
		if r.IsHome() {
			if p.home != nil {
				return nil, fmt.Errorf("duplicate home perspective for match %s", id)
			}
			p.home = r
		} else {
			if p.away != nil {
				return nil, fmt.Errorf("duplicate away perspective for match %s", id)
			}
			p.away = r
		}
	}

	nan := math.NaN()
	out := make([]*MatchRow, 0, len(order))
	for _, id := range order {
		p := pairs[id]
		if p.home == nil || p.away == nil {
			return nil, fmt.Errorf("match %s is missing a perspective", id)
		}
		h, a := p.home, p.away

		out = append(out, &MatchRow{
			MatchID:      id,
			MatchDate:    h.MatchDate,
			Season:       h.Season,
			Matchweek:    h.Matchweek,
			MatchweekNum: h.MatchweekNum,
			Referee:      h.Referee,

			HomeTeam: h.Team,
			AwayTeam: a.Team,

			HomeGoals:      h.GoalsFor,
			AwayGoals:      a.GoalsFor,
			GoalDifference: h.GoalsFor - a.GoalsFor,

			Home: h.SideStats,
			Away: a.SideStats,

			// the home row names both formations, its opponent formation
			// is more reliably populated than the away row's own
			HomeFormation: h.TeamFormation,
			AwayFormation: h.OpponentFormation,

			HomeFouls: nan, AwayFouls: nan,
			HomeCorners: nan, AwayCorners: nan,
			HomeYellowCards: nan, AwayYellowCards: nan,
			HomeRedCards: nan, AwayRedCards: nan,
			OddsB365HomeWin: nan, OddsB365Draw: nan, OddsB365AwayWin: nan,
			OddsAvgHomeWin: nan, OddsAvgDraw: nan, OddsAvgAwayWin: nan,
			OddsB365Over25: nan, OddsB365Under25: nan,
			OddsAvgOver25: nan, OddsAvgUnder25: nan,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		if out[i].MatchweekNum != out[j].MatchweekNum {
			return out[i].MatchweekNum < out[j].MatchweekNum
		}
		if !out[i].MatchDate.Equal(out[j].MatchDate) {
			return out[i].MatchDate.Before(out[j].MatchDate)
		}
		return out[i].HomeTeam < out[j].HomeTeam
	})

	return out, nil
}
