package pipeline

import (
	"sort"
)

// Expand unfolds every match into its two team perspectives, the shape
// the rolling feature engine consumes. Fouls and yellow cards come from
// the merged bookmaker columns since the statistics export lacks them.
// The bookmaker's view is mirrored so odds_win is always the price on
// THIS team winning.
func Expand(matches []*MatchRow) []*TeamMatchRecord {
	out := make([]*TeamMatchRecord, 0, len(matches)*2)

	for _, m := range matches {
		home := &TeamMatchRecord{
			MatchID:      m.MatchID,
			MatchDate:    m.MatchDate,
			Season:       m.Season,
			MatchweekNum: m.MatchweekNum,
			Referee:      m.Referee,

			Team:     m.HomeTeam,
			Opponent: m.AwayTeam,
			IsHome:   1,

			GoalsFor:     m.HomeGoals,
			GoalsAgainst: m.AwayGoals,

			XGFor:                m.Home.XG,
			XGAgainst:            m.Home.XGAgainst,
			ShotsFor:             m.Home.Shots,
			ShotsOnTargetFor:     m.Home.ShotsOnTarget,
			ShotsOnTargetAgainst: m.Home.ShotsOnTargetAgainst,
			Possession:           m.Home.Possession,
			Saves:                m.Home.Saves,
			CleanSheets:          m.Home.CleanSheets,
			Fouls:                m.HomeFouls,
			YellowCards:          m.HomeYellowCards,
			Blocks:               m.Home.Blocks,
			Clearances:           m.Home.Clearances,

			OddsWin:     m.OddsAvgHomeWin,
			OddsDraw:    m.OddsAvgDraw,
			OddsLose:    m.OddsAvgAwayWin,
			OddsOver25:  m.OddsAvgOver25,
			OddsUnder25: m.OddsAvgUnder25,
		}
		home.Points = CalculatePoints(home.GoalsFor, home.GoalsAgainst)

		away := &TeamMatchRecord{
			MatchID:      m.MatchID,
			MatchDate:    m.MatchDate,
			Season:       m.Season,
			MatchweekNum: m.MatchweekNum,
			Referee:      m.Referee,

			Team:     m.AwayTeam,
			Opponent: m.HomeTeam,
			IsHome:   0,

			GoalsFor:     m.AwayGoals,
			GoalsAgainst: m.HomeGoals,

			XGFor:                m.Away.XG,
			XGAgainst:            m.Away.XGAgainst,
			ShotsFor:             m.Away.Shots,
			ShotsOnTargetFor:     m.Away.ShotsOnTarget,
			ShotsOnTargetAgainst: m.Away.ShotsOnTargetAgainst,
			Possession:           m.Away.Possession,
			Saves:                m.Away.Saves,
			CleanSheets:          m.Away.CleanSheets,
			Fouls:                m.AwayFouls,
			YellowCards:          m.AwayYellowCards,
			Blocks:               m.Away.Blocks,
			Clearances:           m.Away.Clearances,

			OddsWin:     m.OddsAvgAwayWin,
			OddsDraw:    m.OddsAvgDraw,
			OddsLose:    m.OddsAvgHomeWin,
			OddsOver25:  m.OddsAvgOver25,
			OddsUnder25: m.OddsAvgUnder25,
		}
		away.Points = CalculatePoints(away.GoalsFor, away.GoalsAgainst)

		out = append(out, home, away)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		if !out[i].MatchDate.Equal(out[j].MatchDate) {
			return out[i].MatchDate.Before(out[j].MatchDate)
		}
		return out[i].Team < out[j].Team
	})

	return out
}
