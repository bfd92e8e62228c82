package rawdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/richard-senior/footform/internal/logger"
	"github.com/richard-senior/footform/pkg/pipeline"
	"github.com/richard-senior/footform/pkg/util"
)

// The statistics export is one csv covering several seasons with one
// row per team per match. Its headers are inconsistent between vintages
// so they get normalised before the rename lookup.

var matchweekNumber = regexp.MustCompile(`(\d+)`)

// statColumnRename maps normalised raw headers to our clean names
var statColumnRename = map[string]string{
	"date":  "match_date",
	"round": "matchweek",

	"gf": "goals_for",
	"ga": "goals_against",

	"xg":       "xg",
	"npxg":     "non_penalty_xg",
	"xga":      "xg_against",
	"psxg":     "post_shot_xg",
	"g-xg":     "goals_minus_xg",
	"psxg+/-":  "post_shot_xg_diff",
	"sh":       "shots",
	"sot":      "shots_on_target",
	"dist":     "avg_shot_distance",
	"sota":     "shots_on_target_against",
	"saves":    "saves",
	"save_pct": "save_percentage",
	"cs":       "clean_sheets",
	"poss":     "possession",
	"fk":       "free_kicks",
	"pk":       "penalties_scored",
	"pkatt":    "penalties_attempted",
	"cmp":      "passes_completed",
	"att":      "passes_attempted",
	"cmp_pct":  "pass_completion_pct",
	"totdist":  "total_distance_progressed",
	"prgdist":  "progressive_distance",
	"prgc":     "progressive_carries",
	"ast":      "assists",
	"xag":      "expected_assisted_goals",
	"xa":       "expected_assists",
	"kp":       "key_passes",
	"sca":      "shot_creating_actions",
	"gca":      "goal_creating_actions",
	"mis":      "miscontrols",
	"dis":      "dispossessed",
	"rec":      "recoveries",
	"tkl":      "tackles",
	"tklw":     "tackles_won",
	"int":      "interceptions",
	"tkl+int":  "defensive_actions",
	"blocks":   "blocks",
	"clr":      "clearances",

	"formation":     "team_formation",
	"opp_formation": "opponent_formation",
}

// normalizeHeader reduces a raw column header to its lookup form
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "%", "pct")
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, ".", "_")
	if clean, ok := statColumnRename[h]; ok {
		return clean
	}
	return h
}

// LoadStats reads and parses the statistics export from the raw data dir
func LoadStats() ([]*pipeline.TeamStatRow, error) {
	path := filepath.Join(pipeline.Config.DataRawPath, pipeline.Config.StatsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read statistics export %s: %w", path, err)
	}
	return ParseStatsCSV(string(data))
}

// ParseStatsCSV parses the statistics export into team stat rows
func ParseStatsCSV(csvData string) ([]*pipeline.TeamStatRow, error) {
	reader := csv.NewReader(strings.NewReader(csvData))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse statistics csv: %w", err)
	}
	if len(records) == 0 {
		return []*pipeline.TeamStatRow{}, nil
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	for i := range headers {
		headers[i] = normalizeHeader(headers[i])
	}

	var rows []*pipeline.TeamStatRow
	for i, record := range records[1:] {
		row := make(map[string]string)
		for j, value := range record {
			if j < len(headers) {
				row[headers[j]] = strings.TrimSpace(value)
			}
		}

		if row["team"] == "" || row["opponent"] == "" {
			continue
		}

		parsed, err := parseStatRow(row)
		if err != nil {
			logger.Warn("skipping statistics row", i+2, err)
			continue
		}
		rows = append(rows, parsed)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Season != rows[j].Season {
			return rows[i].Season < rows[j].Season
		}
		if rows[i].MatchweekNum != rows[j].MatchweekNum {
			return rows[i].MatchweekNum < rows[j].MatchweekNum
		}
		if rows[i].Team != rows[j].Team {
			return rows[i].Team < rows[j].Team
		}
		return rows[i].MatchDate.Before(rows[j].MatchDate)
	})

	return rows, nil
}

func parseStatRow(row map[string]string) (*pipeline.TeamStatRow, error) {
	date, err := pipeline.ParseDate(row["match_date"])
	if err != nil {
		return nil, fmt.Errorf("bad match date: %w", err)
	}

	matchweek := row["matchweek"]
	weekDigits := matchweekNumber.FindString(matchweek)
	if weekDigits == "" {
		return nil, fmt.Errorf("matchweek %q carries no number", matchweek)
	}
	weekNum, err := strconv.Atoi(weekDigits)
	if err != nil {
		return nil, fmt.Errorf("bad matchweek %q: %w", matchweek, err)
	}

	season, err := pipeline.ParseSeason(row["season"])
	if err != nil {
		return nil, fmt.Errorf("bad season: %w", err)
	}

	// goals feed the points calculation downstream, a row without a
	// score is unusable rather than a row with missing metrics
	goalsFor, err := util.GetAsInteger(row["goals_for"])
	if err != nil {
		return nil, fmt.Errorf("bad goals for: %w", err)
	}
	goalsAgainst, err := util.GetAsInteger(row["goals_against"])
	if err != nil {
		return nil, fmt.Errorf("bad goals against: %w", err)
	}

	r := &pipeline.TeamStatRow{
		Team:         pipeline.NormalizeTeam(row["team"]),
		Season:       season,
		MatchDate:    date,
		Matchweek:    matchweek,
		MatchweekNum: weekNum,
		Competition:  row["competition"],
		Venue:        row["venue"],
		Opponent:     pipeline.NormalizeTeam(row["opponent"]),
		Referee:      pipeline.NormalizeReferee(row["referee"]),

		GoalsFor:     goalsFor,
		GoalsAgainst: goalsAgainst,

		SideStats: pipeline.NewSideStats(),

		SavePercentage: pipeline.ParseFloatCell(row["save_percentage"]),

		TeamFormation:     pipeline.NormalizeFormation(row["team_formation"]),
		OpponentFormation: pipeline.NormalizeFormation(row["opponent_formation"]),
	}

	s := &r.SideStats
	s.XG = pipeline.ParseFloatCell(row["xg"])
	s.NonPenaltyXG = pipeline.ParseFloatCell(row["non_penalty_xg"])
	s.XGAgainst = pipeline.ParseFloatCell(row["xg_against"])
	s.PostShotXG = pipeline.ParseFloatCell(row["post_shot_xg"])
	s.GoalsMinusXG = pipeline.ParseFloatCell(row["goals_minus_xg"])
	s.PostShotXGDiff = pipeline.ParseFloatCell(row["post_shot_xg_diff"])
	s.Shots = pipeline.ParseFloatCell(row["shots"])
	s.ShotsOnTarget = pipeline.ParseFloatCell(row["shots_on_target"])
	s.AvgShotDistance = pipeline.ParseFloatCell(row["avg_shot_distance"])
	s.ShotsOnTargetAgainst = pipeline.ParseFloatCell(row["shots_on_target_against"])
	s.Saves = pipeline.ParseFloatCell(row["saves"])
	s.CleanSheets = pipeline.ParseFloatCell(row["clean_sheets"])
	s.Possession = pipeline.ParseFloatCell(row["possession"])
	s.FreeKicks = pipeline.ParseFloatCell(row["free_kicks"])
	s.PenaltiesScored = pipeline.ParseFloatCell(row["penalties_scored"])
	s.PenaltiesAttempted = pipeline.ParseFloatCell(row["penalties_attempted"])
	s.PassesCompleted = pipeline.ParseFloatCell(row["passes_completed"])
	s.PassesAttempted = pipeline.ParseFloatCell(row["passes_attempted"])
	s.TotalDistanceProgressed = pipeline.ParseFloatCell(row["total_distance_progressed"])
	s.ProgressiveDistance = pipeline.ParseFloatCell(row["progressive_distance"])
	s.ProgressiveCarries = pipeline.ParseFloatCell(row["progressive_carries"])
	s.Assists = pipeline.ParseFloatCell(row["assists"])
	s.ExpectedAssistedGoals = pipeline.ParseFloatCell(row["expected_assisted_goals"])
	s.ExpectedAssists = pipeline.ParseFloatCell(row["expected_assists"])
	s.KeyPasses = pipeline.ParseFloatCell(row["key_passes"])
	s.ShotCreatingActions = pipeline.ParseFloatCell(row["shot_creating_actions"])
	s.GoalCreatingActions = pipeline.ParseFloatCell(row["goal_creating_actions"])
	s.Miscontrols = pipeline.ParseFloatCell(row["miscontrols"])
	s.Dispossessed = pipeline.ParseFloatCell(row["dispossessed"])
	s.Recoveries = pipeline.ParseFloatCell(row["recoveries"])
	s.Tackles = pipeline.ParseFloatCell(row["tackles"])
	s.TacklesWon = pipeline.ParseFloatCell(row["tackles_won"])
	s.Interceptions = pipeline.ParseFloatCell(row["interceptions"])
	s.DefensiveActions = pipeline.ParseFloatCell(row["defensive_actions"])
	s.Blocks = pipeline.ParseFloatCell(row["blocks"])
	s.Clearances = pipeline.ParseFloatCell(row["clearances"])

	return r, nil
}
