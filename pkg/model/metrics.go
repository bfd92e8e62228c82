package model

import (
	"fmt"
	"math"
	"strings"
)

// Evaluation summarises classifier performance on one dataset
type Evaluation struct {
	N         int
	Accuracy  float64
	LogLoss   float64
	Confusion [NumClasses][NumClasses]int // [actual][predicted]
}

// Evaluate scores a set of probability predictions against the truth.
// probs[i][k] is the predicted probability of class k for match i.
func Evaluate(probs [][]float64, actual []int) *Evaluation {
	e := &Evaluation{N: len(actual)}
	if e.N == 0 {
		e.Accuracy = math.NaN()
		e.LogLoss = math.NaN()
		return e
	}

	correct := 0
	loss := 0.0
	for i, y := range actual {
		pred := ArgMax(probs[i])
		if pred == y {
			correct++
		}
		e.Confusion[y][pred]++
		loss -= math.Log(math.Max(probs[i][y], 1e-15))
	}
	e.Accuracy = float64(correct) / float64(e.N)
	e.LogLoss = loss / float64(e.N)
	return e
}

// String renders the evaluation as a small report block
func (e *Evaluation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "matches:  %d\n", e.N)
	fmt.Fprintf(&b, "accuracy: %.4f\n", e.Accuracy)
	fmt.Fprintf(&b, "log loss: %.4f\n", e.LogLoss)
	b.WriteString("confusion (rows actual, cols predicted):\n")
	b.WriteString("              ")
	for k := 0; k < NumClasses; k++ {
		fmt.Fprintf(&b, "%10s", ClassName(k))
	}
	b.WriteString("\n")
	for y := 0; y < NumClasses; y++ {
		fmt.Fprintf(&b, "%-14s", ClassName(y))
		for k := 0; k < NumClasses; k++ {
			fmt.Fprintf(&b, "%10d", e.Confusion[y][k])
		}
		b.WriteString("\n")
	}
	return b.String()
}
