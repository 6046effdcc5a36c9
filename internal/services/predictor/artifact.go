package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"BaseballMVP/internal/domain/models"
)

// ErrModelLoad marks a trained artifact that could not be used.
var ErrModelLoad = errors.New("model load failure")

// ArtifactVersion is the only artifact format this build reads.
const ArtifactVersion = 1

// Node is one split or leaf of a regression tree. Samples with
// x[Feature] < Threshold go Left.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      float64 `json:"leaf"`
	IsLeaf    bool    `json:"is_leaf"`
}

// Tree is a flat node list rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Head is a boosted ensemble scoring one outcome on the logit scale.
type Head struct {
	BaseScore float64 `json:"base_score"`
	Trees     []Tree  `json:"trees"`
}

// Artifact is a serialized gradient-boosted model, one head per outcome.
type Artifact struct {
	Version        int                     `json:"version"`
	FeatureColumns []string                `json:"feature_columns"`
	Heads          map[models.Outcome]Head `json:"heads"`
	Meta           map[string]string       `json:"meta,omitempty"`
}

// LoadArtifact reads and checks an artifact against the expected column layout.
// Every failure wraps ErrModelLoad.
func LoadArtifact(path string, columns []string) (*Artifact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrModelLoad, path, err)
	}
	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrModelLoad, path, err)
	}
	if err := a.Check(columns); err != nil {
		return nil, err
	}
	return &a, nil
}

// Check validates version, layout and tree structure.
func (a *Artifact) Check(columns []string) error {
	if a.Version != ArtifactVersion {
		return fmt.Errorf("%w: unsupported artifact version %d", ErrModelLoad, a.Version)
	}
	if len(a.FeatureColumns) != len(columns) {
		return fmt.Errorf("%w: artifact has %d feature columns, want %d", ErrModelLoad, len(a.FeatureColumns), len(columns))
	}
	for i := range columns {
		if a.FeatureColumns[i] != columns[i] {
			return fmt.Errorf("%w: feature column %d is %q, want %q", ErrModelLoad, i, a.FeatureColumns[i], columns[i])
		}
	}
	for _, o := range models.Outcomes {
		h, ok := a.Heads[o]
		if !ok {
			return fmt.Errorf("%w: missing %s head", ErrModelLoad, o)
		}
		if math.IsNaN(h.BaseScore) || math.IsInf(h.BaseScore, 0) {
			return fmt.Errorf("%w: %s head has non-finite base score", ErrModelLoad, o)
		}
		for ti, t := range h.Trees {
			if err := t.check(len(columns)); err != nil {
				return fmt.Errorf("%w: %s tree %d: %v", ErrModelLoad, o, ti, err)
			}
		}
	}
	return nil
}

// check requires children to point forward so evaluation always terminates.
func (t Tree) check(width int) error {
	if len(t.Nodes) == 0 {
		return errors.New("empty tree")
	}
	for i, n := range t.Nodes {
		if n.IsLeaf {
			if math.IsNaN(n.Leaf) || math.IsInf(n.Leaf, 0) {
				return fmt.Errorf("node %d: non-finite leaf", i)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= width {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: bad child reference", i)
		}
	}
	return nil
}

// Eval walks the tree for x.
func (t Tree) Eval(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.IsLeaf {
			return n.Leaf
		}
		v := 0.0
		if n.Feature < len(x) {
			v = x[n.Feature]
		}
		if v < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Margin is the raw logit score of h for x.
func (h Head) Margin(x []float64) float64 {
	m := h.BaseScore
	for _, t := range h.Trees {
		m += t.Eval(x)
	}
	return m
}

// Probability is the sigmoid of the margin.
func (h Head) Probability(x []float64) float64 {
	return Sigmoid(h.Margin(x))
}

// Save writes the artifact as indented JSON.
func (a *Artifact) Save(path string) error {
	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// Sigmoid maps a logit to (0, 1).
func Sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// Logit is the inverse of Sigmoid; p is clamped away from 0 and 1.
func Logit(p float64) float64 {
	const eps = 1e-6
	p = math.Min(math.Max(p, eps), 1-eps)
	return math.Log(p / (1 - p))
}

// Clamp01 bounds v to [0, 1]; NaN becomes 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
