package model

import (
	"math"
	"time"

	"github.com/richard-senior/footform/internal/logger"
)

// ComparisonRow sets the classifier and the bookmaker side by side for
// one match. A model "beats" the bookmaker when it gave the realised
// outcome more probability than the market did.
type ComparisonRow struct {
	MatchID   string
	MatchDate time.Time
	Target    int

	ModelProbAway float64
	ModelProbDraw float64
	ModelProbHome float64
	BookProbAway  float64
	BookProbDraw  float64
	BookProbHome  float64

	ModelPred    int
	BookPred     int
	ModelCorrect bool
	BookCorrect  bool
	ModelBeats   bool
}

// Compare scores the trained classifier and the bookmaker on the same
// matches. Matches with no odds are left out, the comparison would be
// one sided.
func Compare(c *SoftmaxClassifier, d *Dataset) []*ComparisonRow {
	bookProbs := BookmakerProbs(d)

	var out []*ComparisonRow
	for i := 0; i < d.Len(); i++ {
		if math.IsNaN(bookProbs[i][0]) {
			continue
		}
		modelProbs := c.PredictProba(d.X[i])
		actual := d.Y[i]

		row := &ComparisonRow{
			MatchID:   d.MatchIDs[i],
			MatchDate: d.Dates[i],
			Target:    ClassTarget(actual),

			ModelProbAway: modelProbs[0],
			ModelProbDraw: modelProbs[1],
			ModelProbHome: modelProbs[2],
			BookProbAway:  bookProbs[i][0],
			BookProbDraw:  bookProbs[i][1],
			BookProbHome:  bookProbs[i][2],

			ModelPred: ClassTarget(ArgMax(modelProbs)),
			BookPred:  ClassTarget(ArgMax(bookProbs[i])),
		}
		row.ModelCorrect = row.ModelPred == row.Target
		row.BookCorrect = row.BookPred == row.Target
		row.ModelBeats = modelProbs[actual] > bookProbs[i][actual]
		out = append(out, row)
	}

	beats := 0
	for _, r := range out {
		if r.ModelBeats {
			beats++
		}
	}
	logger.Info("model gave the realised outcome more probability than the bookmaker on",
		beats, "of", len(out), "matches")
	return out
}
