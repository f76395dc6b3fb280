package qinfo

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

/*
Config carries the numerical policy of the package: the tolerance used by the
comparison predicates, the knobs of the default SDP backend and the scheduling
timeout of the batch pool.
*/
type Config struct {
	Tolerance         Tolerance
	Solver            SolverConfig
	SchedulingTimeout time.Duration
}

/*
SolverConfig controls the ADMM backend. Tolerance is the convergence threshold
on the relative primal/dual residuals and duality gap. When MaxIterations runs
out, a solution whose residuals are below AcceptableTolerance is still
returned; anything worse is a solver failure.
*/
type SolverConfig struct {
	MaxIterations       int
	Tolerance           float64
	AcceptableTolerance float64
	Penalty             float64
	CheckInterval       int
}

func NewConfig() *Config {
	return &Config{
		Tolerance: DefaultTolerance,
		Solver: SolverConfig{
			MaxIterations:       25000,
			Tolerance:           1e-9,
			AcceptableTolerance: 1e-6,
			Penalty:             1.0,
			CheckInterval:       10,
		},
		SchedulingTimeout: 10 * time.Second,
	}
}

/*
LoadConfig layers, from lowest to highest precedence, the defaults of NewConfig,
an optional config file (any format viper understands, chosen by extension)
and QINFO_* environment variables. Nested keys map to environment names by
replacing dots with underscores, so solver.max_iterations is read from
QINFO_SOLVER_MAX_ITERATIONS.
*/
func LoadConfig(path string) (*Config, error) {
	defaults := NewConfig()

	v := viper.New()
	v.SetDefault("tolerance.rtol", defaults.Tolerance.RTol)
	v.SetDefault("tolerance.atol", defaults.Tolerance.ATol)
	v.SetDefault("solver.max_iterations", defaults.Solver.MaxIterations)
	v.SetDefault("solver.tolerance", defaults.Solver.Tolerance)
	v.SetDefault("solver.acceptable_tolerance", defaults.Solver.AcceptableTolerance)
	v.SetDefault("solver.penalty", defaults.Solver.Penalty)
	v.SetDefault("solver.check_interval", defaults.Solver.CheckInterval)
	v.SetDefault("pool.scheduling_timeout", defaults.SchedulingTimeout)

	v.SetEnvPrefix("QINFO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	return &Config{
		Tolerance: Tolerance{
			RTol: v.GetFloat64("tolerance.rtol"),
			ATol: v.GetFloat64("tolerance.atol"),
		},
		Solver: SolverConfig{
			MaxIterations:       v.GetInt("solver.max_iterations"),
			Tolerance:           v.GetFloat64("solver.tolerance"),
			AcceptableTolerance: v.GetFloat64("solver.acceptable_tolerance"),
			Penalty:             v.GetFloat64("solver.penalty"),
			CheckInterval:       v.GetInt("solver.check_interval"),
		},
		SchedulingTimeout: v.GetDuration("pool.scheduling_timeout"),
	}, nil
}

// tolerance falls back to DefaultTolerance for a nil or unset config.
func (c *Config) tolerance() Tolerance {
	if c == nil || (c.Tolerance.RTol <= 0 && c.Tolerance.ATol <= 0) {
		return DefaultTolerance
	}
	return c.Tolerance
}

// solver fills every unset field from the defaults.
func (c *Config) solver() SolverConfig {
	defaults := NewConfig().Solver
	if c == nil {
		return defaults
	}

	out := c.Solver
	if out.MaxIterations <= 0 {
		out.MaxIterations = defaults.MaxIterations
	}
	if out.Tolerance <= 0 {
		out.Tolerance = defaults.Tolerance
	}
	if out.AcceptableTolerance < out.Tolerance {
		out.AcceptableTolerance = max(defaults.AcceptableTolerance, out.Tolerance)
	}
	if out.Penalty <= 0 {
		out.Penalty = defaults.Penalty
	}
	if out.CheckInterval <= 0 {
		out.CheckInterval = defaults.CheckInterval
	}
	return out
}

func (c *Config) getSchedulingTimeout() time.Duration {
	if c != nil && c.SchedulingTimeout > 0 {
		return c.SchedulingTimeout
	}
	return 5 * time.Second
}
