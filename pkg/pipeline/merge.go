package pipeline

import (
	"fmt"

	"github.com/richard-senior/footform/internal/logger"
)

// MergeOdds appends bookmaker columns to the match table, joining on
// match id with the statistics side authoritative. Columns both sources
// carry (date, teams, goals, referee, shots) keep the statistics value,
// only the odds columns and the discipline counts come across. Matches
// with no odds row keep their NaN odds fields. A duplicate match id in
// the odds table means the join key is not unique and the output row
// count can no longer be trusted, so it fails rather than picking one.
// The input rows are left untouched, each stage keeps its own table.
func MergeOdds(matches []*MatchRow, odds []*OddsRow) ([]*MatchRow, error) {
	byID := make(map[string]*OddsRow, len(odds))
	for _, o := range odds {
		if _, dup := byID[o.MatchID]; dup {
			return nil, fmt.Errorf("duplicate odds row for match %s", o.MatchID)
		}
		byID[o.MatchID] = o
	}

	merged := make([]*MatchRow, len(matches))
	matched := 0
	for i, in := range matches {
		m := *in
		merged[i] = &m
		o, ok := byID[m.MatchID]
		if !ok {
			logger.Debug("no odds row for match", m.MatchID)
			continue
		}
		matched++

		m.Result = o.Result
		m.HomeFouls = o.HomeFouls
		m.AwayFouls = o.AwayFouls
		m.HomeCorners = o.HomeCorners
		m.AwayCorners = o.AwayCorners
		m.HomeYellowCards = o.HomeYellowCards
		m.AwayYellowCards = o.AwayYellowCards
		m.HomeRedCards = o.HomeRedCards
		m.AwayRedCards = o.AwayRedCards

		m.OddsB365HomeWin = o.OddsB365HomeWin
		m.OddsB365Draw = o.OddsB365Draw
		m.OddsB365AwayWin = o.OddsB365AwayWin
		m.OddsAvgHomeWin = o.OddsAvgHomeWin
		m.OddsAvgDraw = o.OddsAvgDraw
		m.OddsAvgAwayWin = o.OddsAvgAwayWin
		m.OddsB365Over25 = o.OddsB365Over25
		m.OddsB365Under25 = o.OddsB365Under25
		m.OddsAvgOver25 = o.OddsAvgOver25
		m.OddsAvgUnder25 = o.OddsAvgUnder25
	}

	logger.Info("merged odds onto", matched, "of", len(matches), "matches")
	return merged, nil
}
