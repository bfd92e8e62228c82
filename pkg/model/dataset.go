package model

import (
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/richard-senior/footform/internal/logger"
	"github.com/richard-senior/footform/pkg/pipeline"
)

// Dataset is the modelling table flattened into feature matrix form.
// Class indexes are 0 away win, 1 draw, 2 home win.
type Dataset struct {
	MatchIDs []string
	Dates    []time.Time

	// the bookmaker's closing prices from the home side's view
	OddsWin  []float64
	OddsDraw []float64
	OddsLose []float64

	X [][]float64
	Y []int
}

// NumClasses is the size of the outcome space
const NumClasses = 3

// ClassIndex maps a target label to its class index
func ClassIndex(target int) int {
	return target + 1
}

// ClassTarget maps a class index back to its target label
func ClassTarget(index int) int {
	return index - 1
}

// ClassName renders a class index for reports
func ClassName(index int) string {
	switch index {
	case 0:
		return "away_win"
	case 1:
		return "draw"
	case 2:
		return "home_win"
	default:
		return "unknown"
	}
}

// NewDataset flattens model rows into a dataset, dropping rows whose
// features are incomplete. Early season matches lose their first rounds
// here since their form windows are empty.
func NewDataset(rows []*pipeline.ModelRow) *Dataset {
	sorted := make([]*pipeline.ModelRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].MatchDate.Equal(sorted[j].MatchDate) {
			return sorted[i].MatchDate.Before(sorted[j].MatchDate)
		}
		return sorted[i].MatchID < sorted[j].MatchID
	})

	d := &Dataset{}
	dropped := 0
	for _, r := range sorted {
		features := r.Features()
		if hasNaN(features) {
			dropped++
			continue
		}
		d.MatchIDs = append(d.MatchIDs, r.MatchID)
		d.Dates = append(d.Dates, r.MatchDate)
		d.OddsWin = append(d.OddsWin, r.OddsWin)
		d.OddsDraw = append(d.OddsDraw, r.OddsDraw)
		d.OddsLose = append(d.OddsLose, r.OddsLose)
		d.X = append(d.X, features)
		d.Y = append(d.Y, ClassIndex(r.Target))
	}
	if dropped > 0 {
		logger.Info("dropped", dropped, "matches with incomplete form features")
	}
	return d
}

// LoadDataset reads the model table artefact back off disk
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model table %s: %w", path, err)
	}
	defer f.Close()

	// everything loads as strings, NaN cells stay empty instead of
	// tripping the type sniffer
	df := dataframe.ReadCSV(f, dataframe.DefaultType(series.String), dataframe.DetectTypes(false))
	if df.Error() != nil {
		return nil, fmt.Errorf("failed to read model table %s: %w", path, df.Error())
	}

	ids := df.Col("match_id").Records()
	dates := df.Col("match_date").Records()
	targets := df.Col("target").Records()
	oddsWin := df.Col("odds_win").Records()
	oddsDraw := df.Col("odds_draw").Records()
	oddsLose := df.Col("odds_lose").Records()

	featureCols := make([][]string, 0, len(pipeline.FeatureNames()))
	for _, name := range pipeline.FeatureNames() {
		featureCols = append(featureCols, df.Col(name).Records())
	}

	rows := make([]*pipeline.ModelRow, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		date, err := pipeline.ParseDate(dates[i])
		if err != nil {
			return nil, fmt.Errorf("bad date on row %d of %s: %w", i+2, path, err)
		}
		target := int(pipeline.ParseFloatCell(targets[i]))

		row := &pipeline.ModelRow{
			MatchID:   ids[i],
			MatchDate: date,
			OddsWin:   pipeline.ParseFloatCell(oddsWin[i]),
			OddsDraw:  pipeline.ParseFloatCell(oddsDraw[i]),
			OddsLose:  pipeline.ParseFloatCell(oddsLose[i]),
			Target:    target,
		}
		features := make([]float64, len(featureCols))
		for j, col := range featureCols {
			features[j] = pipeline.ParseFloatCell(col[i])
		}
		setFeatures(row, features)
		rows = append(rows, row)
	}
	return NewDataset(rows), nil
}

// setFeatures writes a feature slice back onto a model row, inverse of
// ModelRow.Features
func setFeatures(r *pipeline.ModelRow, f []float64) {
	r.DiffAvgPointsL5 = f[0]
	r.DiffAvgPointsL10 = f[1]
	r.DiffAvgGoalsForL5 = f[2]
	r.DiffAvgGoalsAgainstL5 = f[3]
	r.DiffCleanSheetRateL5 = f[4]
	r.DiffAvgXGForL5 = f[5]
	r.DiffAvgXGAgainstL5 = f[6]
	r.DiffAvgShotsOnTargetForL5 = f[7]
	r.DiffAvgShotsOnTargetAgainstL5 = f[8]
	r.DiffAvgPossessionL5 = f[9]
	r.DiffAvgSavesL5 = f[10]
	r.DiffAvgFoulsL5 = f[11]
	r.DiffAvgYellowCardsL5 = f[12]
	r.DiffAvgBlocksL5 = f[13]
	r.DiffAvgClearancesL5 = f[14]
	r.DiffAvgPointsHomeL5 = f[15]
	r.DiffAvgPointsAwayL5 = f[16]
	r.DiffAvgGoalDiffL5 = f[17]
	r.DiffAvgXGDiffL5 = f[18]
	r.DiffAvgDisciplineL5 = f[19]
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Len returns the number of matches in the dataset
func (d *Dataset) Len() int {
	return len(d.Y)
}

// Split divides the dataset chronologically, the first fraction trains
// and the remainder tests. Shuffling would leak future form backwards.
func (d *Dataset) Split(trainFraction float64) (*Dataset, *Dataset) {
	cut := int(float64(d.Len()) * trainFraction)
	return d.slice(0, cut), d.slice(cut, d.Len())
}

func (d *Dataset) slice(from, to int) *Dataset {
	return &Dataset{
		MatchIDs: d.MatchIDs[from:to],
		Dates:    d.Dates[from:to],
		OddsWin:  d.OddsWin[from:to],
		OddsDraw: d.OddsDraw[from:to],
		OddsLose: d.OddsLose[from:to],
		X:        d.X[from:to],
		Y:        d.Y[from:to],
	}
}
