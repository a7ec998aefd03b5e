package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	appErrors "github.com/unclebandit/churn-predictor/internal/errors"
	"github.com/unclebandit/churn-predictor/internal/model"
)

const (
	KindLogistic       = "logistic"
	KindObliviousTrees = "oblivious_trees"

	maxTreeDepth = 16
)

// Scale standardizes a numeric column as (x - Mean) / Scale.
type Scale struct {
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

// Split sends a row right when the encoded feature is above Border.
type Split struct {
	Feature string  `json:"feature"`
	Border  float64 `json:"border"`
}

// Tree is a symmetric (oblivious) tree: every level uses one split, so the
// leaf index is the bitmask of split outcomes.
type Tree struct {
	Splits     []Split   `json:"splits"`
	LeafValues []float64 `json:"leaf_values"`
}

type artifactFile struct {
	Name         string             `json:"name"`
	Version      string             `json:"version"`
	Kind         string             `json:"kind"`
	Features     []Column           `json:"features"`
	Scaling      map[string]Scale   `json:"scaling,omitempty"`
	Intercept    float64            `json:"intercept,omitempty"`
	Coefficients map[string]float64 `json:"coefficients,omitempty"`
	Bias         float64            `json:"bias,omitempty"`
	LearningRate float64            `json:"learning_rate,omitempty"`
	Trees        []Tree             `json:"trees,omitempty"`
}

// Artifact is a trained model read from a JSON artifact. It is immutable
// once loaded and can be shared across goroutines.
type Artifact struct {
	def artifactFile
	// coefficient keys in a fixed order so repeated calls sum identically
	coefKeys []string
}

// Load reads the artifact at path. Any failure is reported as
// ErrModelUnavailable.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, appErrors.NewModelUnavailable(path, err)
	}
	a, err := Parse(data)
	if err != nil {
		return nil, appErrors.NewModelUnavailable(path, err)
	}
	return a, nil
}

// Parse decodes and checks an artifact document.
func Parse(data []byte) (*Artifact, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var def artifactFile
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if def.Kind == KindObliviousTrees && def.LearningRate == 0 {
		def.LearningRate = 1
	}
	if err := def.check(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(def.Coefficients))
	for k := range def.Coefficients {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Artifact{def: def, coefKeys: keys}, nil
}

func (f *artifactFile) check() error {
	if f.Kind != KindLogistic && f.Kind != KindObliviousTrees {
		return fmt.Errorf("unsupported model kind %q", f.Kind)
	}
	if len(f.Features) == 0 {
		return errors.New("artifact declares no features")
	}

	keys := make(map[string]bool)
	types := make(map[string]string, len(f.Features))
	for _, c := range f.Features {
		if c.Name == "" {
			return errors.New("feature with empty name")
		}
		if _, dup := types[c.Name]; dup {
			return fmt.Errorf("duplicate feature %q", c.Name)
		}
		types[c.Name] = c.Type
		switch c.Type {
		case TypeNumeric:
			keys[c.Name] = true
		case TypeCategorical:
			if len(c.Categories) == 0 {
				return fmt.Errorf("categorical feature %q has no categories", c.Name)
			}
			for _, cat := range c.Categories {
				keys[oneHotKey(c.Name, cat)] = true
			}
		default:
			return fmt.Errorf("feature %q has unknown type %q", c.Name, c.Type)
		}
	}

	for name, s := range f.Scaling {
		if types[name] != TypeNumeric {
			return fmt.Errorf("scaling given for non-numeric feature %q", name)
		}
		if s.Scale == 0 {
			return fmt.Errorf("zero scale for feature %q", name)
		}
	}

	switch f.Kind {
	case KindLogistic:
		for key := range f.Coefficients {
			if !keys[key] {
				return fmt.Errorf("coefficient for unknown feature %q", key)
			}
		}
	case KindObliviousTrees:
		if len(f.Trees) == 0 {
			return errors.New("tree ensemble has no trees")
		}
		for i, t := range f.Trees {
			if len(t.Splits) == 0 || len(t.Splits) > maxTreeDepth {
				return fmt.Errorf("tree %d: depth %d out of range", i, len(t.Splits))
			}
			if len(t.LeafValues) != 1<<len(t.Splits) {
				return fmt.Errorf("tree %d: expected %d leaf values, got %d", i, 1<<len(t.Splits), len(t.LeafValues))
			}
			for _, s := range t.Splits {
				if !keys[s.Feature] {
					return fmt.Errorf("tree %d: split on unknown feature %q", i, s.Feature)
				}
			}
		}
	}
	return nil
}

// Info implements Classifier.
func (a *Artifact) Info() model.ModelInfo {
	return model.ModelInfo{Name: a.def.Name, Version: a.def.Version, Kind: a.def.Kind}
}

// Columns implements Schema.
func (a *Artifact) Columns() []Column {
	out := make([]Column, len(a.def.Features))
	copy(out, a.def.Features)
	return out
}

// PredictProbability implements Classifier.
func (a *Artifact) PredictProbability(ctx context.Context, features model.Features) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	x, err := a.encode(features)
	if err != nil {
		return 0, err
	}

	var z float64
	switch a.def.Kind {
	case KindLogistic:
		z = a.def.Intercept
		for _, key := range a.coefKeys {
			z += a.def.Coefficients[key] * x[key]
		}
	case KindObliviousTrees:
		var sum float64
		for _, t := range a.def.Trees {
			idx := 0
			for i, s := range t.Splits {
				if x[s.Feature] > s.Border {
					idx |= 1 << i
				}
			}
			sum += t.LeafValues[idx]
		}
		z = a.def.Bias + a.def.LearningRate*sum
	}
	return sigmoid(z), nil
}

// encode one-hot encodes categoricals and standardizes numerics. Categories
// the model has not seen encode to all zeros.
func (a *Artifact) encode(features model.Features) (map[string]float64, error) {
	x := make(map[string]float64)
	for _, c := range a.def.Features {
		raw, ok := features[c.Name]
		if !ok || raw == nil {
			return nil, appErrors.NewInferenceError(c.Name, "missing column")
		}
		switch c.Type {
		case TypeNumeric:
			v, ok := toFloat(raw)
			if !ok {
				return nil, appErrors.NewInferenceError(c.Name, fmt.Sprintf("expected a number, got %T", raw))
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, appErrors.NewInferenceError(c.Name, "value is not finite")
			}
			if s, ok := a.def.Scaling[c.Name]; ok {
				v = (v - s.Mean) / s.Scale
			}
			x[c.Name] = v
		case TypeCategorical:
			s, ok := raw.(string)
			if !ok {
				return nil, appErrors.NewInferenceError(c.Name, fmt.Sprintf("expected a category string, got %T", raw))
			}
			for _, cat := range c.Categories {
				if cat == s {
					x[oneHotKey(c.Name, cat)] = 1
				}
			}
		}
	}
	return x, nil
}

func oneHotKey(name, category string) string {
	return name + "=" + category
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
