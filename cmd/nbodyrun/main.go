// Command nbodyrun integrates a solar-system scenario and writes its
// close-encounter/collision catalog to stdout as JSON.
package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rabotin-labs/nbody"
	"github.com/rabotin-labs/nbody/export"
	"github.com/rabotin-labs/nbody/seed"
	"github.com/spf13/viper"
)

const defaultScenario = "~~unset~~"

var (
	scenario   string
	integrator string
	vsopDir    string
	epochStr   string
	durDays    float64
	stepSec    float64
	debug      = flag.Bool("debug", false, "verbose debug logging")
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario TOML file (integrator, epoch, duration, step)")
	flag.StringVar(&integrator, "integrator", "wh", "integrator to run: rk4, gr15, or wh")
	flag.StringVar(&vsopDir, "vsop-dir", "", "directory of Meeus VSOP87 planet data files (optional)")
	flag.StringVar(&epochStr, "epoch", "", "override epoch, RFC3339 (defaults to scenario file or now)")
	flag.Float64Var(&durDays, "days", 0, "override integration span in days")
	flag.Float64Var(&stepSec, "step", 0, "override step size in seconds")
}

func main() {
	flag.Parse()
	if *debug {
		log.Println("[info] DEBUG is ON")
	}

	if scenario != defaultScenario {
		scenario = strings.Replace(scenario, ".toml", "", 1)
		viper.AddConfigPath(".")
		viper.SetConfigName(scenario)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("./%s.toml: %s", scenario, err)
		}
		if viper.IsSet("run.integrator") {
			integrator = viper.GetString("run.integrator")
		}
		if durDays == 0 && viper.IsSet("run.days") {
			durDays = viper.GetFloat64("run.days")
		}
		if stepSec == 0 && viper.IsSet("run.step_seconds") {
			stepSec = viper.GetFloat64("run.step_seconds")
		}
		if epochStr == "" && viper.IsSet("run.epoch") {
			epochStr = viper.GetString("run.epoch")
		}
	}

	if durDays == 0 {
		durDays = 365
	}
	if stepSec == 0 {
		stepSec = 3600
	}
	epoch := time.Now().UTC()
	if epochStr != "" {
		t, err := time.Parse(time.RFC3339, epochStr)
		if err != nil {
			log.Fatalf("bad -epoch %q: %s", epochStr, err)
		}
		epoch = t
	}

	const g = 1.32712440017987e11 // km^3/s^2, heliocentric GM convention
	sc := seed.NineBody(epoch, g, vsopDir)
	n := len(sc.Names)

	s, err := nbody.InitializeCode(g, 299792.458, n, 64, 64, 1e6)
	if err != nil {
		log.Fatalf("InitializeCode: %s", err)
	}
	if err := s.SetState(sc.Pos, sc.Vel, sc.Mass, sc.Radius, n, g, 299792.458); err != nil {
		log.Fatalf("SetState: %s", err)
	}

	tEnd := durDays * 86400
	var status nbody.Status
	switch integrator {
	case "rk4":
		status, err = s.IntegrateRK(0, tEnd, stepSec)
	case "gr15":
		status, err = s.IntegrateGR(0, tEnd, stepSec)
	case "wh":
		status, err = s.IntegrateWH(0, tEnd, stepSec)
	default:
		log.Fatalf("unknown -integrator %q: want rk4, gr15, or wh", integrator)
	}
	if err != nil {
		log.Fatalf("integration failed: %s", err)
	}

	cat := export.BuildCatalog(scenario, status, s)
	if err := export.WriteCatalog(os.Stdout, cat); err != nil {
		log.Fatalf("writing catalog: %s", err)
	}
}
