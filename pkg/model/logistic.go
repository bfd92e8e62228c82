package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/richard-senior/footform/internal/logger"
	"github.com/richard-senior/footform/pkg/pipeline"
	"gonum.org/v1/gonum/floats"
)

// SoftmaxClassifier is a multinomial logistic regression trained by
// batch gradient descent on the cross entropy loss. Three outcome
// classes, scaled diff features plus a bias term per class.
type SoftmaxClassifier struct {
	Scaler  *StandardScaler
	Weights [][]float64 // [class][feature+1], index 0 is the bias
}

// NewSoftmaxClassifier builds an untrained classifier
func NewSoftmaxClassifier() *SoftmaxClassifier {
	return &SoftmaxClassifier{Scaler: &StandardScaler{}}
}

// Train fits the classifier on the dataset using the configured
// iteration count and learning rate
func (c *SoftmaxClassifier) Train(train *Dataset) error {
	if train.Len() == 0 {
		return fmt.Errorf("cannot train on an empty dataset")
	}

	x, err := c.Scaler.FitTransform(train.X)
	if err != nil {
		return err
	}

	nFeatures := len(x[0])
	c.Weights = make([][]float64, NumClasses)
	for k := range c.Weights {
		c.Weights[k] = make([]float64, nFeatures+1)
	}

	iters := pipeline.Config.LogisticIterations
	lr := pipeline.Config.LogisticLearningRate
	n := float64(len(x))

	grad := make([][]float64, NumClasses)
	for k := range grad {
		grad[k] = make([]float64, nFeatures+1)
	}

	for iter := 0; iter < iters; iter++ {
		for k := range grad {
			for j := range grad[k] {
				grad[k][j] = 0
			}
		}

		loss := 0.0
		for i, row := range x {
			probs := c.probsScaled(row)
			loss -= math.Log(math.Max(probs[train.Y[i]], 1e-15))

			// gradient of cross entropy is (p - y) per class
			for k := 0; k < NumClasses; k++ {
				err := probs[k]
				if k == train.Y[i] {
					err -= 1
				}
				grad[k][0] += err
				for j, v := range row {
					grad[k][j+1] += err * v
				}
			}
		}

		for k := range c.Weights {
			for j := range c.Weights[k] {
				c.Weights[k][j] -= lr * grad[k][j] / n
			}
		}

		if iter%500 == 0 {
			logger.Debug("training iteration", iter, "loss", loss/n)
		}
	}

	return nil
}

// probsScaled computes class probabilities for an already scaled row
func (c *SoftmaxClassifier) probsScaled(row []float64) []float64 {
	scores := make([]float64, NumClasses)
	for k, w := range c.Weights {
		z := w[0]
		for j, v := range row {
			z += w[j+1] * v
		}
		scores[k] = z
	}

	// stabilised softmax
	max := floats.Max(scores)
	sum := 0.0
	for k := range scores {
		scores[k] = math.Exp(scores[k] - max)
		sum += scores[k]
	}
	for k := range scores {
		scores[k] /= sum
	}
	return scores
}

// PredictProba returns class probabilities for a raw feature vector
func (c *SoftmaxClassifier) PredictProba(features []float64) []float64 {
	return c.probsScaled(c.Scaler.TransformRow(features))
}

// Predict returns the most likely class index for a raw feature vector
func (c *SoftmaxClassifier) Predict(features []float64) int {
	return ArgMax(c.PredictProba(features))
}

// CoefficientTable renders the fitted weights per class and feature.
// Weights apply to standardised features, so magnitudes are comparable
// across columns.
func (c *SoftmaxClassifier) CoefficientTable() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-40s", "feature")
	for k := 0; k < NumClasses; k++ {
		fmt.Fprintf(&b, "%14s", ClassName(k))
	}
	b.WriteString("\n")

	names := append([]string{"(bias)"}, pipeline.FeatureNames()...)
	for j, name := range names {
		fmt.Fprintf(&b, "%-40s", name)
		for k := 0; k < NumClasses; k++ {
			fmt.Fprintf(&b, "%14.6f", c.Weights[k][j])
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ArgMax returns the index of the largest value
func ArgMax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
