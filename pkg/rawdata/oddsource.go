package rawdata

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/richard-senior/footform/internal/logger"
	"github.com/richard-senior/footform/pkg/pipeline"
	"github.com/richard-senior/footform/pkg/util"
)

// football-data.co.uk publishes one csv per league per season with
// full time results, match statistics and closing odds from a panel
// of bookmakers

// GetOddsCSV returns the raw season file, from cache when possible.
// The current season's cache is always refetched since it grows weekly.
func GetOddsCSV(season string) (string, error) {
	canonical, err := pipeline.ParseSeason(season)
	if err != nil {
		return "", err
	}
	native, err := pipeline.SeasonToNative(canonical)
	if err != nil {
		return "", err
	}

	cacheFilename := filepath.Join(pipeline.Config.CachePath,
		fmt.Sprintf("odds-%s-%s.csv", canonical, pipeline.Config.LeagueCode))

	if pipeline.IsCurrentSeason(canonical) {
		if _, err := os.Stat(cacheFilename); err == nil {
			logger.Info("deleting stale cache file for current season:", cacheFilename)
			os.Remove(cacheFilename)
		}
	}

	if cacheData, err := os.ReadFile(cacheFilename); err == nil {
		logger.Debug("returning cached odds for", canonical)
		return string(cacheData), nil
	}

	url, err := OddsURL(canonical)
	if err != nil {
		logger.Warn("link discovery failed, falling back to url template", err)
		url = fmt.Sprintf(pipeline.Config.OddsBaseURL, native, pipeline.Config.LeagueCode)
	}

	logger.Info("fetching odds from football-data.co.uk for", canonical)
	body, err := fetchURL(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch odds for %s: %w", canonical, err)
	}

	if err := os.WriteFile(cacheFilename, body, 0644); err != nil {
		logger.Warn("failed to write cache file", cacheFilename, err)
	} else {
		logger.Info("cached odds to", cacheFilename)
	}
	return string(body), nil
}

// ParseOddsCSV parses one season file into odds rows. Rows missing
// either team are skipped, unparsable odds become NaN.
func ParseOddsCSV(csvData string) ([]*pipeline.OddsRow, error) {
	reader := csv.NewReader(strings.NewReader(csvData))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse odds csv: %w", err)
	}
	if len(records) == 0 {
		return []*pipeline.OddsRow{}, nil
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	var rows []*pipeline.OddsRow
	for i, record := range records[1:] {
		row := make(map[string]string)
		for j, value := range record {
			if j < len(headers) {
				row[headers[j]] = strings.TrimSpace(value)
			}
		}

		if row["HomeTeam"] == "" || row["AwayTeam"] == "" {
			continue
		}

		parsed, err := parseOddsRow(row)
		if err != nil {
			logger.Warn("skipping odds row", i+2, err)
			continue
		}
		rows = append(rows, parsed)
	}
	return rows, nil
}

func parseOddsRow(row map[string]string) (*pipeline.OddsRow, error) {
	date, err := pipeline.ParseDate(row["Date"])
	if err != nil {
		return nil, fmt.Errorf("bad match date: %w", err)
	}

	homeTeam := pipeline.NormalizeTeam(row["HomeTeam"])
	awayTeam := pipeline.NormalizeTeam(row["AwayTeam"])

	matchID, err := pipeline.BuildMatchID(date, homeTeam, awayTeam)
	if err != nil {
		return nil, err
	}

	o := &pipeline.OddsRow{
		MatchID:   matchID,
		MatchDate: date,
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		HomeGoals: parseIntCell(row["FTHG"]),
		AwayGoals: parseIntCell(row["FTAG"]),
		Result:    row["FTR"],
		Referee:   pipeline.NormalizeReferee(row["Referee"]),

		HomeShots:         pipeline.ParseFloatCell(row["HS"]),
		AwayShots:         pipeline.ParseFloatCell(row["AS"]),
		HomeShotsOnTarget: pipeline.ParseFloatCell(row["HST"]),
		AwayShotsOnTarget: pipeline.ParseFloatCell(row["AST"]),
		HomeFouls:         pipeline.ParseFloatCell(row["HF"]),
		AwayFouls:         pipeline.ParseFloatCell(row["AF"]),
		HomeCorners:       pipeline.ParseFloatCell(row["HC"]),
		AwayCorners:       pipeline.ParseFloatCell(row["AC"]),
		HomeYellowCards:   pipeline.ParseFloatCell(row["HY"]),
		AwayYellowCards:   pipeline.ParseFloatCell(row["AY"]),
		HomeRedCards:      pipeline.ParseFloatCell(row["HR"]),
		AwayRedCards:      pipeline.ParseFloatCell(row["AR"]),

		OddsB365HomeWin: pipeline.ParseFloatCell(row["B365H"]),
		OddsB365Draw:    pipeline.ParseFloatCell(row["B365D"]),
		OddsB365AwayWin: pipeline.ParseFloatCell(row["B365A"]),
		OddsAvgHomeWin:  pipeline.ParseFloatCell(row["AvgH"]),
		OddsAvgDraw:     pipeline.ParseFloatCell(row["AvgD"]),
		OddsAvgAwayWin:  pipeline.ParseFloatCell(row["AvgA"]),
		OddsB365Over25:  pipeline.ParseFloatCell(row["B365>2.5"]),
		OddsB365Under25: pipeline.ParseFloatCell(row["B365<2.5"]),
		OddsAvgOver25:   pipeline.ParseFloatCell(row["Avg>2.5"]),
		OddsAvgUnder25:  pipeline.ParseFloatCell(row["Avg<2.5"]),
	}
	return o, nil
}

// parseIntCell parses a goal count, -1 when missing or malformed.
// Odds-side goals only ever reach the csv artefact, the statistics
// side is authoritative for scoring so a sentinel is safe here.
func parseIntCell(s string) int {
	n, err := util.GetAsInteger(s)
	if err != nil {
		return -1
	}
	return n
}

// LoadOdds fetches and parses every configured season, filters to the
// cutoff date and returns one chronologically sorted table
func LoadOdds() ([]*pipeline.OddsRow, error) {
	cutoff, err := pipeline.ParseDate(pipeline.Config.CutoffDate)
	if err != nil {
		return nil, fmt.Errorf("invalid cutoff date: %w", err)
	}

	var all []*pipeline.OddsRow
	for _, season := range pipeline.Config.Seasons {
		csvData, err := GetOddsCSV(season)
		if err != nil {
			return nil, err
		}
		rows, err := ParseOddsCSV(csvData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse odds for season %s: %w", season, err)
		}
		logger.Info("parsed", len(rows), "odds rows for season", season)
		all = append(all, rows...)
	}

	kept := all[:0]
	for _, r := range all {
		if !r.MatchDate.After(cutoff) {
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if !kept[i].MatchDate.Equal(kept[j].MatchDate) {
			return kept[i].MatchDate.Before(kept[j].MatchDate)
		}
		return kept[i].MatchID < kept[j].MatchID
	})
	return kept, nil
}

// ImpliedProbabilities converts a decimal odds triple into normalised
// outcome probabilities, stripping the bookmaker's margin
func ImpliedProbabilities(oddsWin, oddsDraw, oddsLose float64) (float64, float64, float64) {
	nan := math.NaN()
	if math.IsNaN(oddsWin) || math.IsNaN(oddsDraw) || math.IsNaN(oddsLose) {
		return nan, nan, nan
	}
	if oddsWin <= 0 || oddsDraw <= 0 || oddsLose <= 0 {
		return nan, nan, nan
	}
	w := 1 / oddsWin
	d := 1 / oddsDraw
	l := 1 / oddsLose
	total := w + d + l
	return w / total, d / total, l / total
}
