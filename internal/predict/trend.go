package predict

import (
	"sync"

	randomforest "github.com/malaschitz/randomForest"
	"github.com/tmrkh/zaraba/internal/model"
)

// minimum observations before the classifier is worth training
const minClassifierSamples = 20

// TrendClassifier votes on the direction of the next move.
// It complements the regression models with a classification view,
// classes are neutral, up and down at a 1% move threshold.
type TrendClassifier struct {
	mu    sync.RWMutex
	trees int
	state *randomforest.Forest
}

// NewTrendClassifier creates a classifier with the given forest size.
func NewTrendClassifier(trees int) *TrendClassifier {
	if trees <= 0 {
		trees = defaultTrees
	}
	return &TrendClassifier{trees: trees}
}

// Train builds the forest on consecutive samples, the class of each
// observation is the direction of the move to the next target.
func (c *TrendClassifier) Train(samples []Sample) error {
	if len(samples) < minClassifierSamples {
		return model.InsufficientDataError{Need: minClassifierSamples, Got: len(samples)}
	}

	xx := make([][]float64, 0, len(samples)-1)
	yy := make([]int, 0, len(samples)-1)
	for i := 0; i < len(samples)-1; i++ {
		xx = append(xx, samples[i].Features)
		trend := model.TrendOf(samples[i+1].Target, samples[i].Target, trendThreshold)
		yy = append(yy, int(trend))
	}

	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: xx, Class: yy}
	forest.Train(c.trees)

	c.mu.Lock()
	c.state = forest
	c.mu.Unlock()
	return nil
}

// Vote returns the majority direction for the given features.
func (c *TrendClassifier) Vote(features []float64) (model.Trend, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state == nil {
		return model.Neutral, model.ErrNotTrained
	}
	votes := c.state.Vote(features)
	best := 0
	for i, v := range votes {
		if v > votes[best] {
			best = i
		}
	}
	return model.Trend(best), nil
}
