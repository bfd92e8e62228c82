package pipeline

import (
	"math"
	"time"
)

////////////////////////////////////////////////////////////////
// Raw team statistics
////////////////////////////////////////////////////////////////

// SideStats holds the per-team performance metrics that survive from the
// raw statistics export into the match-level table. Missing values are NaN.
type SideStats struct {
	XG                      float64
	NonPenaltyXG            float64
	XGAgainst               float64
	PostShotXG              float64
	GoalsMinusXG            float64
	PostShotXGDiff          float64
	Shots                   float64
	ShotsOnTarget           float64
	AvgShotDistance         float64
	ShotsOnTargetAgainst    float64
	Saves                   float64
	CleanSheets             float64
	Possession              float64
	FreeKicks               float64
	PenaltiesScored         float64
	PenaltiesAttempted      float64
	PassesCompleted         float64
	PassesAttempted         float64
	TotalDistanceProgressed float64
	ProgressiveDistance     float64
	ProgressiveCarries      float64
	Assists                 float64
	ExpectedAssistedGoals   float64
	ExpectedAssists         float64
	KeyPasses               float64
	ShotCreatingActions     float64
	GoalCreatingActions     float64
	Miscontrols             float64
	Dispossessed            float64
	Recoveries              float64
	Tackles                 float64
	TacklesWon              float64
	Interceptions           float64
	DefensiveActions        float64
	Blocks                  float64
	Clearances              float64
}

// NewSideStats returns a SideStats with every metric set to NaN
func NewSideStats() SideStats {
	nan := math.NaN()
	return SideStats{
		XG: nan, NonPenaltyXG: nan, XGAgainst: nan, PostShotXG: nan,
		GoalsMinusXG: nan, PostShotXGDiff: nan,
		Shots: nan, ShotsOnTarget: nan, AvgShotDistance: nan,
		ShotsOnTargetAgainst: nan, Saves: nan, CleanSheets: nan,
		Possession: nan, FreeKicks: nan, PenaltiesScored: nan, PenaltiesAttempted: nan,
		PassesCompleted: nan, PassesAttempted: nan, TotalDistanceProgressed: nan,
		ProgressiveDistance: nan, ProgressiveCarries: nan,
		Assists: nan, ExpectedAssistedGoals: nan, ExpectedAssists: nan,
		KeyPasses: nan, ShotCreatingActions: nan, GoalCreatingActions: nan,
		Miscontrols: nan, Dispossessed: nan, Recoveries: nan,
		Tackles: nan, TacklesWon: nan, Interceptions: nan,
		DefensiveActions: nan, Blocks: nan, Clearances: nan,
	}
}

// TeamStatRow is one cleaned row of the raw statistics export,
// one row per team per match
type TeamStatRow struct {
	Team         string
	Season       string
	MatchDate    time.Time
	Matchweek    string
	MatchweekNum int
	Competition  string
	Venue        string
	Opponent     string
	Referee      string

	GoalsFor     int
	GoalsAgainst int

	SideStats

	// not carried into the match table but kept for completeness
	SavePercentage float64

	TeamFormation     string
	OpponentFormation string
}

// IsHome reports whether this row is the home side's perspective
func (r *TeamStatRow) IsHome() bool {
	return r.Venue == "Home" || r.Venue == "home"
}

// MatchID derives the stable match identifier for this row
func (r *TeamStatRow) MatchID() (string, error) {
	if r.IsHome() {
		return BuildMatchID(r.MatchDate, r.Team, r.Opponent)
	}
	return BuildMatchID(r.MatchDate, r.Opponent, r.Team)
}

////////////////////////////////////////////////////////////////
// Bookmaker odds
////////////////////////////////////////////////////////////////

// OddsRow is one cleaned row of a football-data.co.uk season file.
// Discipline counts ride along here because the statistics export
// does not carry fouls or cards.
type OddsRow struct {
	MatchID   string
	MatchDate time.Time
	HomeTeam  string
	AwayTeam  string
	HomeGoals int
	AwayGoals int
	Result    string
	Referee   string

	HomeShots              float64
	AwayShots              float64
	HomeShotsOnTarget      float64
	AwayShotsOnTarget      float64
	HomeFouls              float64
	AwayFouls              float64
	HomeCorners            float64
	AwayCorners            float64
	HomeYellowCards        float64
	AwayYellowCards        float64
	HomeRedCards           float64
	AwayRedCards           float64

	OddsB365HomeWin float64
	OddsB365Draw    float64
	OddsB365AwayWin float64
	OddsAvgHomeWin  float64
	OddsAvgDraw     float64
	OddsAvgAwayWin  float64
	OddsB365Over25  float64
	OddsB365Under25 float64
	OddsAvgOver25   float64
	OddsAvgUnder25  float64
}

////////////////////////////////////////////////////////////////
// Match level
////////////////////////////////////////////////////////////////

// MatchRow is one match, home and away perspectives pivoted side by side,
// with bookmaker odds merged on afterwards
type MatchRow struct {
	MatchID      string
	MatchDate    time.Time
	Season       string
	Matchweek    string
	MatchweekNum int
	Referee      string

	HomeTeam string
	AwayTeam string

	HomeGoals      int
	AwayGoals      int
	GoalDifference int

	Home SideStats
	Away SideStats

	HomeFormation string
	AwayFormation string

	// appended by the odds merge, NaN when no odds row matched
	Result          string
	HomeFouls       float64
	AwayFouls       float64
	HomeCorners     float64
	AwayCorners     float64
	HomeYellowCards float64
	AwayYellowCards float64
	HomeRedCards    float64
	AwayRedCards    float64

	OddsB365HomeWin float64
	OddsB365Draw    float64
	OddsB365AwayWin float64
	OddsAvgHomeWin  float64
	OddsAvgDraw     float64
	OddsAvgAwayWin  float64
	OddsB365Over25  float64
	OddsB365Under25 float64
	OddsAvgOver25   float64
	OddsAvgUnder25  float64
}

////////////////////////////////////////////////////////////////
// Team perspective (pre feature engineering)
////////////////////////////////////////////////////////////////

// TeamMatchRecord is one team's view of one match, two rows per match.
// This is the shape the rolling feature engine consumes.
type TeamMatchRecord struct {
	MatchID      string    `column:"match_id" dbtype:"TEXT" primary:"true"`
	MatchDate    time.Time `column:"match_date" dbtype:"TEXT" index:"true"`
	Season       string    `column:"season" dbtype:"TEXT" index:"true"`
	MatchweekNum int       `column:"matchweek_num" dbtype:"INTEGER"`
	Referee      string    `column:"referee" dbtype:"TEXT"`

	Team     string `column:"team" dbtype:"TEXT" primary:"true"`
	Opponent string `column:"opponent" dbtype:"TEXT"`
	IsHome   int    `column:"is_home" dbtype:"INTEGER"`

	GoalsFor     int `column:"goals_for" dbtype:"INTEGER"`
	GoalsAgainst int `column:"goals_against" dbtype:"INTEGER"`

	XGFor                float64 `column:"xg_for" dbtype:"REAL"`
	XGAgainst            float64 `column:"xg_against" dbtype:"REAL"`
	ShotsFor             float64 `column:"shots_for" dbtype:"REAL"`
	ShotsOnTargetFor     float64 `column:"shots_on_target_for" dbtype:"REAL"`
	ShotsOnTargetAgainst float64 `column:"shots_on_target_against" dbtype:"REAL"`
	Possession           float64 `column:"possession" dbtype:"REAL"`
	Saves                float64 `column:"saves" dbtype:"REAL"`
	CleanSheets          float64 `column:"clean_sheets" dbtype:"REAL"`
	Fouls                float64 `column:"fouls" dbtype:"REAL"`
	YellowCards          float64 `column:"yellow_cards" dbtype:"REAL"`
	Blocks               float64 `column:"blocks" dbtype:"REAL"`
	Clearances           float64 `column:"clearances" dbtype:"REAL"`

	OddsWin     float64 `column:"odds_win" dbtype:"REAL"`
	OddsDraw    float64 `column:"odds_draw" dbtype:"REAL"`
	OddsLose    float64 `column:"odds_lose" dbtype:"REAL"`
	OddsOver25  float64 `column:"odds_over25" dbtype:"REAL"`
	OddsUnder25 float64 `column:"odds_under25" dbtype:"REAL"`

	Points int `column:"points" dbtype:"INTEGER"`
}

// TableName gives the sqlite table for team match records
func (r *TeamMatchRecord) TableName() string {
	return "team_matches"
}

// BeforeSave derives points so stored rows are always consistent
func (r *TeamMatchRecord) BeforeSave() error {
	r.Points = CalculatePoints(r.GoalsFor, r.GoalsAgainst)
	return nil
}

// CalculatePoints returns league points for a scoreline
func CalculatePoints(goalsFor, goalsAgainst int) int {
	if goalsFor > goalsAgainst {
		return 3
	}
	if goalsFor == goalsAgainst {
		return 1
	}
	return 0
}

////////////////////////////////////////////////////////////////
// Rolling features
////////////////////////////////////////////////////////////////

// RollingRecord is a TeamMatchRecord with past-form features attached.
// Every feature only uses matches strictly before this one, so the first
// match of a team's season carries NaN throughout.
type RollingRecord struct {
	TeamMatchRecord

	AvgPointsL5               float64
	AvgPointsL10              float64
	AvgGoalsForL5             float64
	AvgGoalsAgainstL5         float64
	CleanSheetRateL5          float64
	AvgXGForL5                float64
	AvgXGAgainstL5            float64
	AvgShotsOnTargetForL5     float64
	AvgShotsOnTargetAgainstL5 float64
	AvgPossessionL5           float64
	AvgSavesL5                float64
	AvgFoulsL5                float64
	AvgYellowCardsL5          float64
	AvgBlocksL5               float64
	AvgClearancesL5           float64
	AvgPointsHomeL5           float64
	AvgPointsAwayL5           float64
	AvgGoalDiffL5             float64
	AvgXGDiffL5               float64
	AvgDisciplineL5           float64
}

////////////////////////////////////////////////////////////////
// Model table
////////////////////////////////////////////////////////////////

// Match outcome labels
const (
	TargetHomeWin = 1
	TargetDraw    = 0
	TargetAwayWin = -1
)

// ModelRow is one match of the final modelling table. Features are the
// home minus away differences of the rolling form features.
type ModelRow struct {
	MatchID      string    `column:"match_id" dbtype:"TEXT" primary:"true"`
	MatchDate    time.Time `column:"match_date" dbtype:"TEXT" index:"true"`
	Season       string    `column:"season" dbtype:"TEXT"`
	MatchweekNum int       `column:"matchweek_num" dbtype:"INTEGER"`
	Referee      string    `column:"referee" dbtype:"TEXT"`

	// home side's bookmaker view of the match
	OddsWin     float64 `column:"odds_win" dbtype:"REAL"`
	OddsDraw    float64 `column:"odds_draw" dbtype:"REAL"`
	OddsLose    float64 `column:"odds_lose" dbtype:"REAL"`
	OddsOver25  float64 `column:"odds_over25" dbtype:"REAL"`
	OddsUnder25 float64 `column:"odds_under25" dbtype:"REAL"`

	DiffAvgPointsL5               float64 `column:"diff_avg_points_l5" dbtype:"REAL"`
	DiffAvgPointsL10              float64 `column:"diff_avg_points_l10" dbtype:"REAL"`
	DiffAvgGoalsForL5             float64 `column:"diff_avg_goals_for_l5" dbtype:"REAL"`
	DiffAvgGoalsAgainstL5         float64 `column:"diff_avg_goals_against_l5" dbtype:"REAL"`
	DiffCleanSheetRateL5          float64 `column:"diff_clean_sheet_rate_l5" dbtype:"REAL"`
	DiffAvgXGForL5                float64 `column:"diff_avg_xg_for_l5" dbtype:"REAL"`
	DiffAvgXGAgainstL5            float64 `column:"diff_avg_xg_against_l5" dbtype:"REAL"`
	DiffAvgShotsOnTargetForL5     float64 `column:"diff_avg_shots_on_target_for_l5" dbtype:"REAL"`
	DiffAvgShotsOnTargetAgainstL5 float64 `column:"diff_avg_shots_on_target_against_l5" dbtype:"REAL"`
	DiffAvgPossessionL5           float64 `column:"diff_avg_possession_l5" dbtype:"REAL"`
	DiffAvgSavesL5                float64 `column:"diff_avg_saves_l5" dbtype:"REAL"`
	DiffAvgFoulsL5                float64 `column:"diff_avg_fouls_l5" dbtype:"REAL"`
	DiffAvgYellowCardsL5          float64 `column:"diff_avg_yellow_cards_l5" dbtype:"REAL"`
	DiffAvgBlocksL5               float64 `column:"diff_avg_blocks_l5" dbtype:"REAL"`
	DiffAvgClearancesL5           float64 `column:"diff_avg_clearances_l5" dbtype:"REAL"`
	DiffAvgPointsHomeL5           float64 `column:"diff_avg_points_home_l5" dbtype:"REAL"`
	DiffAvgPointsAwayL5           float64 `column:"diff_avg_points_away_l5" dbtype:"REAL"`
	DiffAvgGoalDiffL5             float64 `column:"diff_avg_goal_diff_l5" dbtype:"REAL"`
	DiffAvgXGDiffL5               float64 `column:"diff_avg_xg_diff_l5" dbtype:"REAL"`
	DiffAvgDisciplineL5           float64 `column:"diff_avg_discipline_l5" dbtype:"REAL"`

	Target int `column:"target" dbtype:"INTEGER"`
}

// TableName gives the sqlite table for model rows
func (r *ModelRow) TableName() string {
	return "model_matches"
}

// BeforeSave is a no-op, the row is fully derived before persisting
func (r *ModelRow) BeforeSave() error {
	return nil
}

// Features returns the diff features in their canonical order
func (r *ModelRow) Features() []float64 {
	return []float64{
		r.DiffAvgPointsL5,
		r.DiffAvgPointsL10,
		r.DiffAvgGoalsForL5,
		r.DiffAvgGoalsAgainstL5,
		r.DiffCleanSheetRateL5,
		r.DiffAvgXGForL5,
		r.DiffAvgXGAgainstL5,
		r.DiffAvgShotsOnTargetForL5,
		r.DiffAvgShotsOnTargetAgainstL5,
		r.DiffAvgPossessionL5,
		r.DiffAvgSavesL5,
		r.DiffAvgFoulsL5,
		r.DiffAvgYellowCardsL5,
		r.DiffAvgBlocksL5,
		r.DiffAvgClearancesL5,
		r.DiffAvgPointsHomeL5,
		r.DiffAvgPointsAwayL5,
		r.DiffAvgGoalDiffL5,
		r.DiffAvgXGDiffL5,
		r.DiffAvgDisciplineL5,
	}
}

// FeatureNames lists the diff features in the same order as Features
func FeatureNames() []string {
	return []string{
		"diff_avg_points_l5",
		"diff_avg_points_l10",
		"diff_avg_goals_for_l5",
		"diff_avg_goals_against_l5",
		"diff_clean_sheet_rate_l5",
		"diff_avg_xg_for_l5",
		"diff_avg_xg_against_l5",
		"diff_avg_shots_on_target_for_l5",
		"diff_avg_shots_on_target_against_l5",
		"diff_avg_possession_l5",
		"diff_avg_saves_l5",
		"diff_avg_fouls_l5",
		"diff_avg_yellow_cards_l5",
		"diff_avg_blocks_l5",
		"diff_avg_clearances_l5",
		"diff_avg_points_home_l5",
		"diff_avg_points_away_l5",
		"diff_avg_goal_diff_l5",
		"diff_avg_xg_diff_l5",
		"diff_avg_discipline_l5",
	}
}
