package planner

import (
	"flag"
	"log"
	"os"
	"strconv"

	fx "github.com/robotalks/velplan/pkg/framework"
)

// Config defines the parameters of the velocity planner.
// It's fixed once a Planner is created.
type Config struct {
	// TimeGap is the desired following time headway (s).
	TimeGap float64 `yaml:"time_gap"`
	// AMax bounds both acceleration and deceleration (m/s²).
	AMax float64 `yaml:"a_max"`
	// SlowSpeed is the crawl speed before a full stop (m/s).
	SlowSpeed float64 `yaml:"slow_speed"`
	// StopLineBuffer is the distance before the path end where the vehicle
	// must already be stopped (m).
	StopLineBuffer float64 `yaml:"stop_line_buffer"`
}

// Defaults
const (
	DefaultTimeGap        float64 = 1.0
	DefaultAMax           float64 = 1.5
	DefaultSlowSpeed      float64 = 2.0
	DefaultStopLineBuffer float64 = 3.5
)

var defaultConfig = Config{
	TimeGap:        DefaultTimeGap,
	AMax:           DefaultAMax,
	SlowSpeed:      DefaultSlowSpeed,
	StopLineBuffer: DefaultStopLineBuffer,
}

func init() {
	envFloat("VELPLAN_TIME_GAP", &defaultConfig.TimeGap)
	envFloat("VELPLAN_A_MAX", &defaultConfig.AMax)
	envFloat("VELPLAN_SLOW_SPEED", &defaultConfig.SlowSpeed)
	envFloat("VELPLAN_STOP_LINE_BUFFER", &defaultConfig.StopLineBuffer)
}

func envFloat(name string, out *float64) {
	if val := os.Getenv(name); val != "" {
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s: %v", name, err)
		}
		*out = v
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.TimeGap, "time-gap", defaultConfig.TimeGap, "Following time headway (s).")
	flag.Float64Var(&defaultConfig.AMax, "a-max", defaultConfig.AMax, "Maximum acceleration/deceleration (m/s^2).")
	flag.Float64Var(&defaultConfig.SlowSpeed, "slow-speed", defaultConfig.SlowSpeed, "Crawl speed before a full stop (m/s).")
	flag.Float64Var(&defaultConfig.StopLineBuffer, "stop-line-buffer", defaultConfig.StopLineBuffer, "Distance before path end to be stopped (m).")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks all values are in range.
func (c *Config) Validate() error {
	var errs fx.AggregatedError
	if !(c.TimeGap > 0) || !isFinite(c.TimeGap) {
		errs.Add(&ConfigError{Field: "time_gap", Value: c.TimeGap, Reason: "must be > 0"})
	}
	if !(c.AMax > 0) || !isFinite(c.AMax) {
		errs.Add(&ConfigError{Field: "a_max", Value: c.AMax, Reason: "must be > 0"})
	}
	if !(c.SlowSpeed >= 0) || !isFinite(c.SlowSpeed) {
		errs.Add(&ConfigError{Field: "slow_speed", Value: c.SlowSpeed, Reason: "must be >= 0"})
	}
	if !(c.StopLineBuffer >= 0) || !isFinite(c.StopLineBuffer) {
		errs.Add(&ConfigError{Field: "stop_line_buffer", Value: c.StopLineBuffer, Reason: "must be >= 0"})
	}
	return errs.Aggregate()
}

// NewPlanner creates a Planner from the config.
func (c *Config) NewPlanner() (*Planner, error) {
	return New(*c)
}

// MustNewPlanner creates a Planner and fails on error.
func (c *Config) MustNewPlanner() *Planner {
	p, err := c.NewPlanner()
	if err != nil {
		log.Fatalln(err)
	}
	return p
}
