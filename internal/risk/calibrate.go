// Package risk re-calibrates the short-rate model from a short history and
// estimates the Value-at-Risk of the hedge savings by Monte Carlo.
package risk

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"hedgerisk/internal/config"
)

// ErrCalibration is matched by every calibration failure.
var ErrCalibration = errors.New("calibration failed")

// CalibrationError reports an autoregressive coefficient outside (0, 1), for
// which the reversion speed −ln(β) is undefined or non-positive.
type CalibrationError struct {
	Beta   float64
	Reason string
}

func (e *CalibrationError) Error() string {
	return fmt.Sprintf("calibration failed: beta=%.6f (%s)", e.Beta, e.Reason)
}

// Unwrap lets errors.Is match ErrCalibration.
func (e *CalibrationError) Unwrap() error {
	return ErrCalibration
}

// Calibration holds the fitted discrete AR(1) relation and the implied
// continuous-time parameters.
type Calibration struct {
	Observations int
	Intercept    float64
	Beta         float64
	Kappa        float64
	Mu           float64
	Sigma        float64
	ResidualStd  float64
}

// MinObservations is the shortest history that can be calibrated.
const MinObservations = 3

// Calibrate regresses r_t on r_{t−1}. The slope is fitted through the origin
// unless withIntercept is set. μ is the history mean and σ the residual
// standard deviation scaled by √(2κ/(1−β²)).
func Calibrate(history []float64, withIntercept bool) (Calibration, error) {
	if len(history) < MinObservations {
		return Calibration{}, config.Invalid("risk.history",
			"need at least %d observations, got %d", MinObservations, len(history))
	}

	x, y := history[:len(history)-1], history[1:]
	alpha, beta := stat.LinearRegression(x, y, nil, !withIntercept)

	switch {
	case math.IsNaN(beta) || math.IsInf(beta, 0):
		return Calibration{}, &CalibrationError{Beta: beta, Reason: "regression is degenerate"}
	case beta <= 0:
		return Calibration{}, &CalibrationError{Beta: beta, Reason: "coefficient is not positive"}
	case beta >= 1:
		return Calibration{}, &CalibrationError{Beta: beta, Reason: "coefficient implies no mean reversion"}
	}

	resid := make([]float64, len(y))
	for i := range y {
		resid[i] = y[i] - alpha - beta*x[i]
	}
	_, residStd := stat.PopMeanStdDev(resid, nil)

	kappa := -math.Log(beta)
	return Calibration{
		Observations: len(history),
		Intercept:    alpha,
		Beta:         beta,
		Kappa:        kappa,
		Mu:           stat.Mean(history, nil),
		Sigma:        residStd * math.Sqrt(2*kappa/(1-beta*beta)),
		ResidualStd:  residStd,
	}, nil
}
