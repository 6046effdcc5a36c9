package training

import (
	"errors"
	"math"
	"sort"

	"BaseballMVP/internal/services/predictor"
)

// Sample is one feature vector with weighted outcome counts: Pos plate
// appearances ended in the outcome, Neg did not.
type Sample struct {
	X   []float64
	Pos float64
	Neg float64
}

func (s Sample) weight() float64 { return s.Pos + s.Neg }

// Params tunes the booster.
type Params struct {
	Rounds        int     `yaml:"rounds" default:"150"`
	LearningRate  float64 `yaml:"learning_rate" default:"0.1"`
	L2            float64 `yaml:"l2" default:"1"`
	MinLeafWeight float64 `yaml:"min_leaf_weight" default:"5"`
}

var ErrNoSamples = errors.New("no weighted samples")

// FitHead boosts depth-one trees on weighted logistic loss. It is
// deterministic: features are scanned in order and ties keep the first split.
func FitHead(samples []Sample, p Params) (predictor.Head, error) {
	var pos, total float64
	for _, s := range samples {
		pos += s.Pos
		total += s.weight()
	}
	if total <= 0 {
		return predictor.Head{}, ErrNoSamples
	}

	head := predictor.Head{BaseScore: predictor.Logit(pos / total)}
	margins := make([]float64, len(samples))
	for i := range margins {
		margins[i] = head.BaseScore
	}

	grad := make([]float64, len(samples))
	hess := make([]float64, len(samples))
	for round := 0; round < p.Rounds; round++ {
		for i, s := range samples {
			prob := predictor.Sigmoid(margins[i])
			grad[i] = s.weight()*prob - s.Pos
			hess[i] = s.weight() * prob * (1 - prob)
		}

		tree, ok := bestStump(samples, grad, hess, p)
		if !ok {
			break
		}
		head.Trees = append(head.Trees, tree)
		for i, s := range samples {
			margins[i] += tree.Eval(s.X)
		}
	}
	return head, nil
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	left      float64
	right     float64
}

func bestStump(samples []Sample, grad, hess []float64, p Params) (predictor.Tree, bool) {
	if len(samples) == 0 {
		return predictor.Tree{}, false
	}
	var gAll, hAll, wAll float64
	for i, s := range samples {
		gAll += grad[i]
		hAll += hess[i]
		wAll += s.weight()
	}
	parent := gAll * gAll / (hAll + p.L2)

	best := split{feature: -1}
	width := len(samples[0].X)
	order := make([]int, len(samples))
	for f := 0; f < width; f++ {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return samples[order[a]].X[f] < samples[order[b]].X[f]
		})

		var gL, hL, wL float64
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			gL += grad[i]
			hL += hess[i]
			wL += samples[i].weight()

			x, next := samples[i].X[f], samples[order[k+1]].X[f]
			if x == next {
				continue
			}
			gR, hR, wR := gAll-gL, hAll-hL, wAll-wL
			if wL < p.MinLeafWeight || wR < p.MinLeafWeight {
				continue
			}
			gain := gL*gL/(hL+p.L2) + gR*gR/(hR+p.L2) - parent
			if gain > best.gain+1e-12 {
				best = split{
					feature:   f,
					threshold: (x + next) / 2,
					gain:      gain,
					left:      -p.LearningRate * gL / (hL + p.L2),
					right:     -p.LearningRate * gR / (hR + p.L2),
				}
			}
		}
	}
	if best.feature < 0 {
		return predictor.Tree{}, false
	}
	return predictor.Tree{Nodes: []predictor.Node{
		{Feature: best.feature, Threshold: best.threshold, Left: 1, Right: 2},
		{IsLeaf: true, Leaf: best.left},
		{IsLeaf: true, Leaf: best.right},
	}}, true
}

// LogLoss is the weighted mean negative log-likelihood of h on samples.
func LogLoss(h predictor.Head, samples []Sample) float64 {
	const eps = 1e-12
	var loss, total float64
	for _, s := range samples {
		prob := math.Min(math.Max(h.Probability(s.X), eps), 1-eps)
		loss -= s.Pos*math.Log(prob) + s.Neg*math.Log(1-prob)
		total += s.weight()
	}
	if total == 0 {
		return 0
	}
	return loss / total
}
