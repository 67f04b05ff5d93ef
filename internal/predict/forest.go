package predict

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/tmrkh/zaraba/internal/buffer"
	"github.com/tmrkh/zaraba/internal/model"
)

const (
	defaultTrees    = 100
	defaultMaxDepth = 8
	defaultMinSplit = 5
	// candidate thresholds per feature when searching for a split
	splitCandidates = 16
)

// BaggedTrees is a random-forest style ensemble of regression trees,
// each built on a bootstrap resample of the training set.
// The random source is seeded explicitly so training is reproducible.
type BaggedTrees struct {
	mu       sync.RWMutex
	trees    int
	maxDepth int
	minSplit int
	seed     int64
	state    *forestState
}

type forestState struct {
	roots []*node
}

type node struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *node
	right     *node
}

// NewBaggedTrees creates a new forest with the given number of trees and seed.
func NewBaggedTrees(trees int, seed int64) *BaggedTrees {
	if trees <= 0 {
		trees = defaultTrees
	}
	return &BaggedTrees{
		trees:    trees,
		maxDepth: defaultMaxDepth,
		minSplit: defaultMinSplit,
		seed:     seed,
	}
}

// WithBounds overrides the depth and split bounds of the tree builder.
func (f *BaggedTrees) WithBounds(maxDepth, minSplit int) *BaggedTrees {
	f.maxDepth = maxDepth
	f.minSplit = minSplit
	return f
}

func (f *BaggedTrees) Name() string {
	return fmt.Sprintf("bagged-trees-%d", f.trees)
}

// Train grows the forest on bootstrap resamples of the given samples.
func (f *BaggedTrees) Train(samples []Sample) (Metrics, error) {
	n := len(samples)
	if n < 2 {
		return Metrics{}, model.InsufficientDataError{Need: 2, Got: n}
	}

	rnd := rand.New(rand.NewSource(f.seed))
	roots := make([]*node, f.trees)
	for t := 0; t < f.trees; t++ {
		resample := make([]Sample, n)
		for i := range resample {
			resample[i] = samples[rnd.Intn(n)]
		}
		roots[t] = f.build(resample, 0)
	}
	state := &forestState{roots: roots}

	errors := make([]float64, n)
	for i, s := range samples {
		value, _ := state.vote(s.Features)
		errors[i] = value - s.Target
	}

	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
	return metricsOf(errors), nil
}

// Predict averages the tree outputs, confidence shrinks with their variance.
func (f *BaggedTrees) Predict(features []float64) (Result, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.state == nil {
		return Result{}, model.ErrNotTrained
	}
	value, variance := f.state.vote(features)
	return Result{
		Value:      value,
		Confidence: 1 / (1 + variance),
	}, nil
}

func (s *forestState) vote(features []float64) (value, variance float64) {
	stats := buffer.NewStats()
	for _, root := range s.roots {
		stats.Push(root.eval(features))
	}
	return stats.Avg(), stats.Variance()
}

func (n *node) eval(features []float64) float64 {
	for !n.leaf {
		if features[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// build grows a regression tree by recursive best-split-by-variance-reduction,
// bounded by max depth and min samples to split.
func (f *BaggedTrees) build(samples []Sample, depth int) *node {
	stats := buffer.NewStats()
	for _, s := range samples {
		stats.Push(s.Target)
	}
	if depth >= f.maxDepth || len(samples) < f.minSplit || stats.Variance() == 0 {
		return &node{leaf: true, value: stats.Avg()}
	}

	feature, threshold, ok := f.bestSplit(samples, stats.Variance())
	if !ok {
		return &node{leaf: true, value: stats.Avg()}
	}

	left := make([]Sample, 0, len(samples))
	right := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.Features[feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	return &node{
		feature:   feature,
		threshold: threshold,
		left:      f.build(left, depth+1),
		right:     f.build(right, depth+1),
	}
}

func (f *BaggedTrees) bestSplit(samples []Sample, parentVariance float64) (feature int, threshold float64, ok bool) {
	bestGain := 0.0
	dims := len(samples[0].Features)
	total := float64(len(samples))

	for d := 0; d < dims; d++ {
		values := make([]float64, len(samples))
		for i, s := range samples {
			values[i] = s.Features[d]
		}
		sort.Float64s(values)

		for _, t := range candidates(values) {
			left := buffer.NewStats()
			right := buffer.NewStats()
			for _, s := range samples {
				if s.Features[d] <= t {
					left.Push(s.Target)
				} else {
					right.Push(s.Target)
				}
			}
			if left.Count() == 0 || right.Count() == 0 {
				continue
			}
			weighted := (float64(left.Count())*left.Variance() + float64(right.Count())*right.Variance()) / total
			if gain := parentVariance - weighted; gain > bestGain {
				bestGain = gain
				feature = d
				threshold = t
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

// candidates picks split thresholds as midpoints between quantiles of the sorted values.
func candidates(sorted []float64) []float64 {
	cc := make([]float64, 0, splitCandidates)
	step := len(sorted) / splitCandidates
	if step == 0 {
		step = 1
	}
	for i := step; i < len(sorted); i += step {
		if sorted[i] == sorted[i-1] {
			continue
		}
		cc = append(cc, (sorted[i]+sorted[i-1])/2)
	}
	return cc
}
