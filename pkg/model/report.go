package model

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/richard-senior/footform/internal/logger"
	"github.com/richard-senior/footform/pkg/pipeline"
)

// WriteReport renders train/test evaluations and the bookmaker baseline
// into one plain text report
func WriteReport(path string, train, test, baseline *Evaluation) error {
	var b strings.Builder
	b.WriteString("footform model report\n")
	b.WriteString("=====================\n\n")

	b.WriteString("training set\n------------\n")
	b.WriteString(train.String())
	b.WriteString("\ntest set\n--------\n")
	b.WriteString(test.String())
	b.WriteString("\nbookmaker baseline (test set)\n-----------------------------\n")
	b.WriteString(baseline.String())

	b.WriteString("\n")
	switch {
	case test.Accuracy > baseline.Accuracy:
		fmt.Fprintf(&b, "model beats the bookmaker on accuracy by %.4f\n",
			test.Accuracy-baseline.Accuracy)
	default:
		fmt.Fprintf(&b, "bookmaker holds the accuracy edge by %.4f\n",
			baseline.Accuracy-test.Accuracy)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	logger.Info("wrote report to", path)
	return nil
}

// WriteCoefficients writes the fitted weight table for a trained classifier
func WriteCoefficients(path string, c *SoftmaxClassifier) error {
	if c.Weights == nil {
		return fmt.Errorf("classifier has not been trained")
	}
	if err := os.WriteFile(path, []byte(c.CoefficientTable()), 0644); err != nil {
		return fmt.Errorf("failed to write coefficients %s: %w", path, err)
	}
	logger.Info("wrote coefficients to", path)
	return nil
}

// WriteComparisonCSV writes the per match model vs bookmaker table
func WriteComparisonCSV(path string, rows []*ComparisonRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"match_id", "match_date", "target",
		"model_prob_away", "model_prob_draw", "model_prob_home",
		"book_prob_away", "book_prob_draw", "book_prob_home",
		"model_pred", "book_pred",
		"model_correct", "book_correct", "model_beats_bookmaker",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}

	for _, r := range rows {
		record := []string{
			r.MatchID, pipeline.FormatDate(r.MatchDate), strconv.Itoa(r.Target),
			formatProb(r.ModelProbAway), formatProb(r.ModelProbDraw), formatProb(r.ModelProbHome),
			formatProb(r.BookProbAway), formatProb(r.BookProbDraw), formatProb(r.BookProbHome),
			strconv.Itoa(r.ModelPred), strconv.Itoa(r.BookPred),
			strconv.FormatBool(r.ModelCorrect), strconv.FormatBool(r.BookCorrect),
			strconv.FormatBool(r.ModelBeats),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	logger.Info("wrote", len(rows), "comparison rows to", path)
	return nil
}

func formatProb(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
