package pipeline

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/richard-senior/footform/internal/logger"
	"github.com/richard-senior/footform/pkg/util"
)

// Every pipeline stage leaves a csv artefact behind so intermediate
// state can be inspected. NaN round-trips as an empty cell.

// FormatFloat renders a float for csv output, NaN as empty
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseFloatCell parses a csv cell, empty or malformed as NaN
func ParseFloatCell(s string) float64 {
	v, err := util.GetAsFloat(s)
	if err != nil {
		return math.NaN()
	}
	return v
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, row := range rows {
		if len(row) != len(header) {
			return fmt.Errorf("row has %d cells, header has %d in %s", len(row), len(header), path)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	logger.Info("wrote", len(rows), "rows to", path)
	return nil
}

// sideStatMetrics is the canonical ordering of the pivoted metrics
var sideStatMetrics = []string{
	"xg", "non_penalty_xg", "xg_against", "post_shot_xg",
	"goals_minus_xg", "post_shot_xg_diff",
	"shots", "shots_on_target", "avg_shot_distance",
	"shots_on_target_against", "saves", "clean_sheets",
	"possession", "free_kicks", "penalties_scored", "penalties_attempted",
	"passes_completed", "passes_attempted", "total_distance_progressed",
	"progressive_distance", "progressive_carries",
	"assists", "expected_assisted_goals", "expected_assists",
	"key_passes", "shot_creating_actions", "goal_creating_actions",
	"miscontrols", "dispossessed", "recoveries",
	"tackles", "tackles_won", "interceptions",
	"defensive_actions", "blocks", "clearances",
}

func sideStatsHeader(prefix string) []string {
	out := make([]string, 0, len(sideStatMetrics))
	for _, m := range sideStatMetrics {
		out = append(out, prefix+"_"+m)
	}
	return out
}

func sideStatsValues(s *SideStats) []string {
	vals := []float64{
		s.XG, s.NonPenaltyXG, s.XGAgainst, s.PostShotXG,
		s.GoalsMinusXG, s.PostShotXGDiff,
		s.Shots, s.ShotsOnTarget, s.AvgShotDistance,
		s.ShotsOnTargetAgainst, s.Saves, s.CleanSheets,
		s.Possession, s.FreeKicks, s.PenaltiesScored, s.PenaltiesAttempted,
		s.PassesCompleted, s.PassesAttempted, s.TotalDistanceProgressed,
		s.ProgressiveDistance, s.ProgressiveCarries,
		s.Assists, s.ExpectedAssistedGoals, s.ExpectedAssists,
		s.KeyPasses, s.ShotCreatingActions, s.GoalCreatingActions,
		s.Miscontrols, s.Dispossessed, s.Recoveries,
		s.Tackles, s.TacklesWon, s.Interceptions,
		s.DefensiveActions, s.Blocks, s.Clearances,
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		out = append(out, FormatFloat(v))
	}
	return out
}

// WriteTeamStatCSV writes the cleaned statistics export
func WriteTeamStatCSV(path string, rows []*TeamStatRow) error {
	header := []string{
		"team", "season", "match_date", "matchweek", "matchweek_num",
		"competition", "venue", "opponent", "referee",
		"goals_for", "goals_against",
	}
	header = append(header, sideStatMetrics...)
	header = append(header, "save_percentage", "team_formation", "opponent_formation")

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := []string{
			r.Team, r.Season, FormatDate(r.MatchDate), r.Matchweek,
			strconv.Itoa(r.MatchweekNum),
			r.Competition, r.Venue, r.Opponent, r.Referee,
			strconv.Itoa(r.GoalsFor), strconv.Itoa(r.GoalsAgainst),
		}
		row = append(row, sideStatsValues(&r.SideStats)...)
		row = append(row, FormatFloat(r.SavePercentage), r.TeamFormation, r.OpponentFormation)
		out = append(out, row)
	}
	return writeCSV(path, header, out)
}

// WriteOddsCSV writes the unified bookmaker odds table
func WriteOddsCSV(path string, rows []*OddsRow) error {
	header := []string{
		"match_id", "match_date", "home_team", "away_team",
		"home_goals", "away_goals", "result", "referee",
		"home_shots", "away_shots", "home_shots_on_target", "away_shots_on_target",
		"home_fouls", "away_fouls", "home_corners", "away_corners",
		"home_yellow_cards", "away_yellow_cards", "home_red_cards", "away_red_cards",
		"odds_b365_home_win", "odds_b365_draw", "odds_b365_away_win",
		"odds_avg_home_win", "odds_avg_draw", "odds_avg_away_win",
		"odds_b365_over25", "odds_b365_under25", "odds_avg_over25", "odds_avg_under25",
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.MatchID, FormatDate(r.MatchDate), r.HomeTeam, r.AwayTeam,
			strconv.Itoa(r.HomeGoals), strconv.Itoa(r.AwayGoals), r.Result, r.Referee,
			FormatFloat(r.HomeShots), FormatFloat(r.AwayShots),
			FormatFloat(r.HomeShotsOnTarget), FormatFloat(r.AwayShotsOnTarget),
			FormatFloat(r.HomeFouls), FormatFloat(r.AwayFouls),
			FormatFloat(r.HomeCorners), FormatFloat(r.AwayCorners),
			FormatFloat(r.HomeYellowCards), FormatFloat(r.AwayYellowCards),
			FormatFloat(r.HomeRedCards), FormatFloat(r.AwayRedCards),
			FormatFloat(r.OddsB365HomeWin), FormatFloat(r.OddsB365Draw), FormatFloat(r.OddsB365AwayWin),
			FormatFloat(r.OddsAvgHomeWin), FormatFloat(r.OddsAvgDraw), FormatFloat(r.OddsAvgAwayWin),
			FormatFloat(r.OddsB365Over25), FormatFloat(r.OddsB365Under25),
			FormatFloat(r.OddsAvgOver25), FormatFloat(r.OddsAvgUnder25),
		})
	}
	return writeCSV(path, header, out)
}

// WriteMatchCSV writes the match-level table, before or after the odds merge
func WriteMatchCSV(path string, rows []*MatchRow) error {
	header := []string{
		"match_id", "match_date", "season", "matchweek", "matchweek_num", "referee",
		"home_team", "away_team", "home_goals", "away_goals", "goal_difference",
	}
	header = append(header, sideStatsHeader("home")...)
	header = append(header, sideStatsHeader("away")...)
	header = append(header,
		"home_formation", "away_formation", "result",
		"home_fouls", "away_fouls", "home_corners", "away_corners",
		"home_yellow_cards", "away_yellow_cards", "home_red_cards", "away_red_cards",
		"odds_b365_home_win", "odds_b365_draw", "odds_b365_away_win",
		"odds_avg_home_win", "odds_avg_draw", "odds_avg_away_win",
		"odds_b365_over25", "odds_b365_under25", "odds_avg_over25", "odds_avg_under25",
	)

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := []string{
			r.MatchID, FormatDate(r.MatchDate), r.Season, r.Matchweek,
			strconv.Itoa(r.MatchweekNum), r.Referee,
			r.HomeTeam, r.AwayTeam,
			strconv.Itoa(r.HomeGoals), strconv.Itoa(r.AwayGoals),
			strconv.Itoa(r.GoalDifference),
		}
		row = append(row, sideStatsValues(&r.Home)...)
		row = append(row, sideStatsValues(&r.Away)...)
		row = append(row,
			r.HomeFormation, r.AwayFormation, r.Result,
			FormatFloat(r.HomeFouls), FormatFloat(r.AwayFouls),
			FormatFloat(r.HomeCorners), FormatFloat(r.AwayCorners),
			FormatFloat(r.HomeYellowCards), FormatFloat(r.AwayYellowCards),
			FormatFloat(r.HomeRedCards), FormatFloat(r.AwayRedCards),
			FormatFloat(r.OddsB365HomeWin), FormatFloat(r.OddsB365Draw), FormatFloat(r.OddsB365AwayWin),
			FormatFloat(r.OddsAvgHomeWin), FormatFloat(r.OddsAvgDraw), FormatFloat(r.OddsAvgAwayWin),
			FormatFloat(r.OddsB365Over25), FormatFloat(r.OddsB365Under25),
			FormatFloat(r.OddsAvgOver25), FormatFloat(r.OddsAvgUnder25),
		)
		out = append(out, row)
	}
	return writeCSV(path, header, out)
}

func teamMatchHeader() []string {
	return []string{
		"match_id", "match_date", "season", "matchweek_num", "referee",
		"team", "opponent", "is_home",
		"goals_for", "goals_against",
		"xg_for", "xg_against",
		"shots_for", "shots_on_target_for", "shots_on_target_against",
		"possession", "saves", "clean_sheets",
		"fouls", "yellow_cards", "blocks", "clearances",
		"odds_win", "odds_draw", "odds_lose", "odds_over25", "odds_under25",
		"points",
	}
}

func teamMatchValues(r *TeamMatchRecord) []string {
	return []string{
		r.MatchID, FormatDate(r.MatchDate), r.Season,
		strconv.Itoa(r.MatchweekNum), r.Referee,
		r.Team, r.Opponent, strconv.Itoa(r.IsHome),
		strconv.Itoa(r.GoalsFor), strconv.Itoa(r.GoalsAgainst),
		FormatFloat(r.XGFor), FormatFloat(r.XGAgainst),
		FormatFloat(r.ShotsFor), FormatFloat(r.ShotsOnTargetFor), FormatFloat(r.ShotsOnTargetAgainst),
		FormatFloat(r.Possession), FormatFloat(r.Saves), FormatFloat(r.CleanSheets),
		FormatFloat(r.Fouls), FormatFloat(r.YellowCards), FormatFloat(r.Blocks), FormatFloat(r.Clearances),
		FormatFloat(r.OddsWin), FormatFloat(r.OddsDraw), FormatFloat(r.OddsLose),
		FormatFloat(r.OddsOver25), FormatFloat(r.OddsUnder25),
		strconv.Itoa(r.Points),
	}
}

// WriteTeamMatchCSV writes the team perspective table
func WriteTeamMatchCSV(path string, rows []*TeamMatchRecord) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, teamMatchValues(r))
	}
	return writeCSV(path, teamMatchHeader(), out)
}

// rollingFeatureNames is the canonical ordering of the form features
var rollingFeatureNames = []string{
	"avg_points_l5", "avg_points_l10",
	"avg_goals_for_l5", "avg_goals_against_l5",
	"clean_sheet_rate_l5",
	"avg_xg_for_l5", "avg_xg_against_l5",
	"avg_shots_on_target_for_l5", "avg_shots_on_target_against_l5",
	"avg_possession_l5", "avg_saves_l5",
	"avg_fouls_l5", "avg_yellow_cards_l5",
	"avg_blocks_l5", "avg_clearances_l5",
	"avg_points_home_l5", "avg_points_away_l5",
	"avg_goal_diff_l5", "avg_xg_diff_l5", "avg_discipline_l5",
}

func rollingFeatureValues(r *RollingRecord) []float64 {
	return []float64{
		r.AvgPointsL5, r.AvgPointsL10,
		r.AvgGoalsForL5, r.AvgGoalsAgainstL5,
		r.CleanSheetRateL5,
		r.AvgXGForL5, r.AvgXGAgainstL5,
		r.AvgShotsOnTargetForL5, r.AvgShotsOnTargetAgainstL5,
		r.AvgPossessionL5, r.AvgSavesL5,
		r.AvgFoulsL5, r.AvgYellowCardsL5,
		r.AvgBlocksL5, r.AvgClearancesL5,
		r.AvgPointsHomeL5, r.AvgPointsAwayL5,
		r.AvgGoalDiffL5, r.AvgXGDiffL5, r.AvgDisciplineL5,
	}
}

// WriteRollingCSV writes the team perspective table with form features
func WriteRollingCSV(path string, rows []*RollingRecord) error {
	header := append(teamMatchHeader(), rollingFeatureNames...)

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := teamMatchValues(&r.TeamMatchRecord)
		for _, v := range rollingFeatureValues(r) {
			row = append(row, FormatFloat(v))
		}
		out = append(out, row)
	}
	return writeCSV(path, header, out)
}

// WriteModelCSV writes the final modelling table
func WriteModelCSV(path string, rows []*ModelRow) error {
	header := []string{
		"match_id", "match_date", "season", "matchweek_num", "referee",
		"odds_win", "odds_draw", "odds_lose", "odds_over25", "odds_under25",
	}
	header = append(header, FeatureNames()...)
	header = append(header, "target")

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := []string{
			r.MatchID, FormatDate(r.MatchDate), r.Season,
			strconv.Itoa(r.MatchweekNum), r.Referee,
			FormatFloat(r.OddsWin), FormatFloat(r.OddsDraw), FormatFloat(r.OddsLose),
			FormatFloat(r.OddsOver25), FormatFloat(r.OddsUnder25),
		}
		for _, v := range r.Features() {
			row = append(row, FormatFloat(v))
		}
		row = append(row, strconv.Itoa(r.Target))
		out = append(out, row)
	}
	return writeCSV(path, header, out)
}
