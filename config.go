package nbody

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/viper"
)

// IntegratorConfig holds the tunables of the Gauss-Radau and
// Wisdom-Holman integrators that a driver may want to override
// without recompiling: tolerances, step bounds and iteration caps.
// Defaults match the values the integrators themselves fall back to
// when no config is loaded.
type IntegratorConfig struct {
	RadauTol        float64 // target local truncation error, default 1e-9
	RadauHMin       float64 // minimum allowed step size
	RadauHMax       float64 // maximum allowed step size
	RadauMaxIter    int     // substep predictor/corrector iteration cap, default 12
	KeplerTol       float64 // |f(chi)|/(|chi| sqrt(mu)) threshold, default 1e-12
	KeplerMaxIter   int     // Newton-Raphson iteration cap before bisection fallback, default 30
	KeplerBisectMax int     // bisection iteration cap, default 100
}

// DefaultIntegratorConfig returns the built-in tolerances used when
// no SMD_CONFIG override is present.
func DefaultIntegratorConfig() IntegratorConfig {
	return IntegratorConfig{
		RadauTol:        1e-9,
		RadauHMin:       1e-6,
		RadauHMax:       1e3,
		RadauMaxIter:    12,
		KeplerTol:       1e-12,
		KeplerMaxIter:   30,
		KeplerBisectMax: 100,
	}
}

var (
	cfgOnce   sync.Once
	cfgLoaded IntegratorConfig
)

// LoadIntegratorConfig resolves integrator tolerances via viper: if
// the SMD_CONFIG environment variable points at a directory containing a
// `conf.toml` with an `[integrator]` table, values found there
// override the built-in defaults; missing keys and a missing
// variable both fall back silently, so tests never need the
// environment configured.
func LoadIntegratorConfig() IntegratorConfig {
	cfgOnce.Do(func() {
		cfgLoaded = DefaultIntegratorConfig()
		confPath := os.Getenv("SMD_CONFIG")
		if confPath == "" {
			return
		}
		v := viper.New()
		v.SetConfigName("conf")
		v.SetConfigType("toml")
		v.AddConfigPath(confPath)
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "nbody: SMD_CONFIG set but conf.toml not readable in %s: %s\n", confPath, err)
			return
		}
		if v.IsSet("integrator.radau_tol") {
			cfgLoaded.RadauTol = v.GetFloat64("integrator.radau_tol")
		}
		if v.IsSet("integrator.radau_h_min") {
			cfgLoaded.RadauHMin = v.GetFloat64("integrator.radau_h_min")
		}
		if v.IsSet("integrator.radau_h_max") {
			cfgLoaded.RadauHMax = v.GetFloat64("integrator.radau_h_max")
		}
		if v.IsSet("integrator.radau_max_iter") {
			cfgLoaded.RadauMaxIter = v.GetInt("integrator.radau_max_iter")
		}
		if v.IsSet("integrator.kepler_tol") {
			cfgLoaded.KeplerTol = v.GetFloat64("integrator.kepler_tol")
		}
		if v.IsSet("integrator.kepler_max_iter") {
			cfgLoaded.KeplerMaxIter = v.GetInt("integrator.kepler_max_iter")
		}
		if v.IsSet("integrator.kepler_bisect_max") {
			cfgLoaded.KeplerBisectMax = v.GetInt("integrator.kepler_bisect_max")
		}
	})
	return cfgLoaded
}
