package band

import (
	"log/slog"
	"runtime"
)

// Tracker defaults.
const (
	// DefaultDegeneracyTol is √ε for float64: eigenvalues closer than this
	// fall into one degenerate cluster.
	DefaultDegeneracyTol = 1.4901161193847656e-08

	// DefaultConnectThreshold is the squared-projection weight that counts
	// a subspace pair as connected.
	DefaultConnectThreshold = 0.4
)

// Option configures Compute.
type Option func(*config)

type config struct {
	workers    int
	degTol     float64
	connectThr float64
	patches    int
	defects    [][]float64
	logger     *slog.Logger
	dislocErr  bool
}

func defaultConfig() config {
	return config{
		workers:    runtime.GOMAXPROCS(0),
		degTol:     DefaultDegeneracyTol,
		connectThr: DefaultConnectThreshold,
		logger:     slog.Default(),
	}
}

// WithWorkers sets the diagonalization pool size. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}

// WithDegeneracyTol sets the eigenvalue clustering tolerance. Values at or
// below 0 restore the default.
func WithDegeneracyTol(tol float64) Option {
	return func(c *config) {
		if tol <= 0 {
			tol = DefaultDegeneracyTol
		}
		c.degTol = tol
	}
}

// WithConnectThreshold sets the squared singular-value threshold of the
// subspace connection test. Values at or below 0 restore the default.
func WithConnectThreshold(thr float64) Option {
	return func(c *config) {
		if thr <= 0 {
			thr = DefaultConnectThreshold
		}
		c.connectThr = thr
	}
}

// WithPatches grants a budget of edge splits for reknitting frustrated
// band crossings. Zero (the default) disables the patch phase.
func WithPatches(n int) Option {
	return func(c *config) {
		if n < 0 {
			n = 0
		}
		c.patches = n
	}
}

// WithDefects declares known topological defect locations (Dirac points,
// degeneracy lines) in base coordinates. Each defect is pinned by an extra
// vertex split before patching begins, outside the patch budget, and the
// patch queue prefers crossings far away from defects.
func WithDefects(points ...[]float64) Option {
	return func(c *config) {
		c.defects = points
	}
}

// WithLogger routes progress and dislocation warnings. Default is
// slog.Default(); nil silences the tracker.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithDislocationError turns leftover dislocations into ErrDislocations
// instead of a warning.
func WithDislocationError() Option {
	return func(c *config) {
		c.dislocErr = true
	}
}
