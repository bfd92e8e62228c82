package pipeline

import (
	"fmt"
	"sort"

	"github.com/richard-senior/footform/internal/logger"
)

// AssembleModelTable joins each match's two feature rows back into one
// modelling row. Features become home minus away differences, so a
// positive value always reads as home side advantage. The target is
// derived from points, 1 home win, 0 draw, -1 away win.
func AssembleModelTable(rows []*RollingRecord) ([]*ModelRow, error) {
	homes := make(map[string]*RollingRecord)
	aways := make(map[string]*RollingRecord)
	for _, r := range rows {
		if r.IsHome == 1 {
			if _, ok := homes[r.MatchID]; ok {
				return nil, fmt.Errorf("duplicate home feature row for match %s", r.MatchID)
			}
			homes[r.MatchID] = r
		} else {
			if _, ok := aways[r.MatchID]; ok {
				return nil, fmt.Errorf("duplicate away feature row for match %s", r.MatchID)
			}
			aways[r.MatchID] = r
		}
	}

	out := make([]*ModelRow, 0, len(homes))
	for id, h := range homes {
		a, ok := aways[id]
		if !ok {
			logger.Debug("dropping match with no away feature row", id)
			continue
		}

		row := &ModelRow{
			MatchID:      h.MatchID,
			MatchDate:    h.MatchDate,
			Season:       h.Season,
			MatchweekNum: h.MatchweekNum,
			Referee:      h.Referee,

			OddsWin:     h.OddsWin,
			OddsDraw:    h.OddsDraw,
			OddsLose:    h.OddsLose,
			OddsOver25:  h.OddsOver25,
			OddsUnder25: h.OddsUnder25,

			DiffAvgPointsL5:               h.AvgPointsL5 - a.AvgPointsL5,
			DiffAvgPointsL10:              h.AvgPointsL10 - a.AvgPointsL10,
			DiffAvgGoalsForL5:             h.AvgGoalsForL5 - a.AvgGoalsForL5,
			DiffAvgGoalsAgainstL5:         h.AvgGoalsAgainstL5 - a.AvgGoalsAgainstL5,
			DiffCleanSheetRateL5:          h.CleanSheetRateL5 - a.CleanSheetRateL5,
			DiffAvgXGForL5:                h.AvgXGForL5 - a.AvgXGForL5,
			DiffAvgXGAgainstL5:            h.AvgXGAgainstL5 - a.AvgXGAgainstL5,
			DiffAvgShotsOnTargetForL5:     h.AvgShotsOnTargetForL5 - a.AvgShotsOnTargetForL5,
			DiffAvgShotsOnTargetAgainstL5: h.AvgShotsOnTargetAgainstL5 - a.AvgShotsOnTargetAgainstL5,
			DiffAvgPossessionL5:           h.AvgPossessionL5 - a.AvgPossessionL5,
			DiffAvgSavesL5:                h.AvgSavesL5 - a.AvgSavesL5,
			DiffAvgFoulsL5:                h.AvgFoulsL5 - a.AvgFoulsL5,
			DiffAvgYellowCardsL5:          h.AvgYellowCardsL5 - a.AvgYellowCardsL5,
			DiffAvgBlocksL5:               h.AvgBlocksL5 - a.AvgBlocksL5,
			DiffAvgClearancesL5:           h.AvgClearancesL5 - a.AvgClearancesL5,
			DiffAvgPointsHomeL5:           h.AvgPointsHomeL5 - a.AvgPointsHomeL5,
			DiffAvgPointsAwayL5:           h.AvgPointsAwayL5 - a.AvgPointsAwayL5,
			DiffAvgGoalDiffL5:             h.AvgGoalDiffL5 - a.AvgGoalDiffL5,
			DiffAvgXGDiffL5:               h.AvgXGDiffL5 - a.AvgXGDiffL5,
			DiffAvgDisciplineL5:           h.AvgDisciplineL5 - a.AvgDisciplineL5,
		}

		switch {
		case h.Points > a.Points:
			row.Target = TargetHomeWin
		case h.Points < a.Points:
			row.Target = TargetAwayWin
		default:
			row.Target = TargetDraw
		}

		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MatchDate.Equal(out[j].MatchDate) {
			return out[i].MatchDate.Before(out[j].MatchDate)
		}
		return out[i].MatchID < out[j].MatchID
	})

	logger.Info("assembled model table with", len(out), "matches")
	return out, nil
}
