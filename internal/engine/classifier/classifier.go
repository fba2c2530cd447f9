// Package classifier implements binary L2-regularized logistic regression
// over sparse feature vectors.
package classifier

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/crimson-sun/sentiment/internal/engine/sparse"
)

const (
	DefaultC         = 1.0
	DefaultMaxIter   = 100
	DefaultTolerance = 1e-4
)

// Options configures Fit.
type Options struct {
	C         float64 // inverse regularization strength; 0 means DefaultC
	MaxIter   int     // L-BFGS major iterations; 0 means DefaultMaxIter
	Tolerance float64 // gradient norm threshold; 0 means DefaultTolerance
}

func (o *Options) applyDefaults() {
	if o.C == 0 {
		o.C = DefaultC
	}
	if o.MaxIter == 0 {
		o.MaxIter = DefaultMaxIter
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
}

// Classifier is a fitted linear decision boundary. Immutable after Fit.
type Classifier struct {
	weights    []float64
	bias       float64
	c          float64
	iterations int
	converged  bool
}

// Fit minimizes mean log-loss + ||w||²/(2·C·n) with L-BFGS. Labels must be
// 0 or 1 and both classes must be present. The intercept is not penalized.
func Fit(x []sparse.Vector, y []int, dim int, opts Options) (*Classifier, error) {
	opts.applyDefaults()
	if len(x) == 0 {
		return nil, errors.New("classifier: no training samples")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("classifier: %d samples but %d labels", len(x), len(y))
	}
	if dim <= 0 {
		return nil, fmt.Errorf("classifier: feature dimension must be positive, got %d", dim)
	}
	if opts.C < 0 || opts.MaxIter < 0 {
		return nil, fmt.Errorf("classifier: invalid options C=%v max_iter=%d", opts.C, opts.MaxIter)
	}

	var seen [2]bool
	for i, label := range y {
		if label != 0 && label != 1 {
			return nil, fmt.Errorf("classifier: label %d at sample %d is not binary", label, i)
		}
		seen[label] = true
	}
	if !seen[0] || !seen[1] {
		return nil, errors.New("classifier: training data must contain both classes")
	}

	n := float64(len(x))
	penalty := 1 / (opts.C * n)
	scores := make([]float64, len(x))

	// params layout: weights[0:dim], bias at params[dim].
	score := func(params []float64) {
		w, b := params[:dim], params[dim]
		for i, v := range x {
			scores[i] = v.Dot(w) + b
		}
	}
	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			score(params)
			var loss float64
			for i, z := range scores {
				loss += softplus(z) - float64(y[i])*z
			}
			w := params[:dim]
			return loss/n + 0.5*penalty*floats.Dot(w, w)
		},
		Grad: func(grad, params []float64) {
			score(params)
			for i := range grad {
				grad[i] = 0
			}
			gw := grad[:dim]
			var gb float64
			for i, z := range scores {
				r := sigmoid(z) - float64(y[i])
				x[i].AddScaledTo(gw, r/n)
				gb += r / n
			}
			floats.AddScaled(gw, penalty, params[:dim])
			grad[dim] = gb
		},
	}

	settings := &optimize.Settings{
		MajorIterations:   opts.MaxIter,
		GradientThreshold: opts.Tolerance,
	}
	res, err := optimize.Minimize(problem, make([]float64, dim+1), settings, &optimize.LBFGS{})
	if res == nil || len(res.X) != dim+1 {
		if err == nil {
			err = errors.New("no result")
		}
		return nil, fmt.Errorf("classifier: optimize: %w", err)
	}
	converged := res.Status == optimize.GradientThreshold || res.Status == optimize.FunctionConvergence
	if err != nil || !converged {
		slog.Warn("classifier: L-BFGS did not converge",
			"status", res.Status.String(), "iterations", res.Stats.MajorIterations, "error", err)
	}
	for _, p := range res.X {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, errors.New("classifier: optimization produced non-finite weights")
		}
	}

	weights := make([]float64, dim)
	copy(weights, res.X[:dim])
	return &Classifier{
		weights:    weights,
		bias:       res.X[dim],
		c:          opts.C,
		iterations: res.Stats.MajorIterations,
		converged:  converged,
	}, nil
}

// Dim returns the number of features the classifier was fit on.
func (c *Classifier) Dim() int {
	return len(c.weights)
}

// DecisionFunction returns w·x + b.
func (c *Classifier) DecisionFunction(x sparse.Vector) float64 {
	return x.Dot(c.weights) + c.bias
}

// PredictProba returns [P(class 0), P(class 1)].
func (c *Classifier) PredictProba(x sparse.Vector) [2]float64 {
	p1 := sigmoid(c.DecisionFunction(x))
	return [2]float64{1 - p1, p1}
}

// Predict returns 1 when the decision function is positive, else 0.
func (c *Classifier) Predict(x sparse.Vector) int {
	if c.DecisionFunction(x) > 0 {
		return 1
	}
	return 0
}

// Converged reports whether the fit reached its gradient or function tolerance.
func (c *Classifier) Converged() bool {
	return c.converged
}

// Snapshot is the serializable form of a fitted Classifier.
type Snapshot struct {
	Weights    []float64 `json:"weights"`
	Bias       float64   `json:"bias"`
	C          float64   `json:"c"`
	Iterations int       `json:"iterations"`
	Converged  bool      `json:"converged"`
}

// Snapshot returns a deep copy of the fitted parameters.
func (c *Classifier) Snapshot() Snapshot {
	w := make([]float64, len(c.weights))
	copy(w, c.weights)
	return Snapshot{
		Weights:    w,
		Bias:       c.bias,
		C:          c.c,
		Iterations: c.iterations,
		Converged:  c.converged,
	}
}

// FromSnapshot rebuilds a Classifier from its serialized parameters.
func FromSnapshot(s Snapshot) (*Classifier, error) {
	if len(s.Weights) == 0 {
		return nil, errors.New("classifier: snapshot has no weights")
	}
	for i, w := range s.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("classifier: non-finite weight at %d", i)
		}
	}
	if math.IsNaN(s.Bias) || math.IsInf(s.Bias, 0) {
		return nil, errors.New("classifier: non-finite bias")
	}
	return &Classifier{
		weights:    append([]float64(nil), s.Weights...),
		bias:       s.Bias,
		c:          s.C,
		iterations: s.Iterations,
		converged:  s.Converged,
	}, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus is log(1+exp(z)) without overflow.
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}
