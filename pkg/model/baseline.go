package model

import (
	"math"

	"github.com/richard-senior/footform/internal/logger"
	"github.com/richard-senior/footform/pkg/rawdata"
)

// The bookmaker baseline predicts whatever outcome the market priced
// shortest. Beating its accuracy and log loss is the bar any model
// here has to clear.

// BookmakerProbs converts the dataset's closing odds into normalised
// class probabilities, indexed like the classifier's output. Matches
// with missing odds get NaN probabilities.
func BookmakerProbs(d *Dataset) [][]float64 {
	out := make([][]float64, d.Len())
	for i := 0; i < d.Len(); i++ {
		win, draw, lose := rawdata.ImpliedProbabilities(d.OddsWin[i], d.OddsDraw[i], d.OddsLose[i])
		// odds are from the home side's view, class 0 is the away win
		out[i] = []float64{lose, draw, win}
	}
	return out
}

// BaselineEvaluate scores the bookmaker on every match that carries a
// full odds triple
func BaselineEvaluate(d *Dataset) *Evaluation {
	probs := BookmakerProbs(d)

	var keptProbs [][]float64
	var keptActual []int
	for i := range probs {
		if math.IsNaN(probs[i][0]) {
			continue
		}
		keptProbs = append(keptProbs, probs[i])
		keptActual = append(keptActual, d.Y[i])
	}

	skipped := d.Len() - len(keptActual)
	if skipped > 0 {
		logger.Info("bookmaker baseline skipped", skipped, "matches without odds")
	}
	return Evaluate(keptProbs, keptActual)
}
