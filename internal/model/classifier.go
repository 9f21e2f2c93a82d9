package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Classifier is an l2-regularised binary logistic regression.
type Classifier struct {
	Weights    []float64 `json:"weights"`
	Intercept  float64   `json:"intercept"`
	C          float64   `json:"c"`
	MaxIter    int       `json:"max_iter"`
	Tolerance  float64   `json:"tolerance"`
	Iterations int       `json:"iterations"`
}

// NewClassifier returns an unfitted classifier. Non-positive arguments
// fall back to C=1 and 1000 iterations.
func NewClassifier(c float64, maxIter int) *Classifier {
	if c <= 0 {
		c = 1
	}
	if maxIter <= 0 {
		maxIter = 1000
	}
	return &Classifier{C: c, MaxIter: maxIter, Tolerance: 1e-6}
}

// Fit minimises the mean log-loss plus ||w||^2 / (2*C*n) with L-BFGS,
// stopping after MaxIter iterations or once the largest gradient component
// drops below Tolerance. The intercept is not regularised.
func (c *Classifier) Fit(xs []Vector, ys []int, features int) error {
	c.Weights = make([]float64, features)
	c.Intercept = 0
	c.Iterations = 0
	if len(xs) == 0 {
		return nil
	}

	obj := &logLoss{xs: xs, ys: ys, features: features, reg: 1 / (c.C * float64(len(xs)))}

	result, err := optimize.Minimize(optimize.Problem{
		Func: obj.value,
		Grad: obj.gradient,
	}, make([]float64, features+1), &optimize.Settings{
		MajorIterations:   c.MaxIter,
		GradientThreshold: c.Tolerance,
	}, &optimize.LBFGS{})
	// A line search that stalls near the optimum still reports its best location.
	if result == nil {
		return fmt.Errorf("minimise log-loss: %w", err)
	}

	copy(c.Weights, result.X[:features])
	c.Intercept = result.X[features]
	c.Iterations = result.Stats.MajorIterations

	return nil
}

// Probability returns P(y=1|x).
func (c *Classifier) Probability(x Vector) float64 {
	return sigmoid(x.Dot(c.Weights) + c.Intercept)
}

// logLoss is the objective over params = weights followed by the intercept.
type logLoss struct {
	xs       []Vector
	ys       []int
	features int
	reg      float64
}

func (l *logLoss) margin(x Vector, params []float64) float64 {
	return x.Dot(params[:l.features]) + params[l.features]
}

func (l *logLoss) value(params []float64) float64 {
	n := float64(len(l.xs))

	var loss float64
	for i, x := range l.xs {
		z := l.margin(x, params)
		loss += softplus(z) - float64(l.ys[i])*z
	}

	var norm float64
	for _, w := range params[:l.features] {
		norm += w * w
	}

	return loss/n + 0.5*l.reg*norm
}

func (l *logLoss) gradient(grad, params []float64) {
	n := float64(len(l.xs))

	for j := 0; j < l.features; j++ {
		grad[j] = l.reg * params[j]
	}
	grad[l.features] = 0

	for i, x := range l.xs {
		residual := (sigmoid(l.margin(x, params)) - float64(l.ys[i])) / n
		for k, idx := range x.Indices {
			grad[idx] += residual * x.Values[k]
		}
		grad[l.features] += residual
	}
}

// softplus is log(1 + e^z) without overflow.
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
