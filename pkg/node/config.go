package node

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/denisbrodbeck/machineid"
	"gopkg.in/yaml.v2"

	fx "github.com/robotalks/velplan/pkg/framework"
	"github.com/robotalks/velplan/pkg/planner"
)

// Config provides options to run a planner node.
type Config struct {
	// ID identifies the node on a broker. Defaults to the machine id.
	ID string `yaml:"id"`
	// URL lists comma separated transport URLs the node serves on.
	// e.g. mqtt://host:port/topic-prefix,tcp://:7700
	URL string `yaml:"url"`
	// PlanInterval is the tick interval of the planning loop.
	PlanInterval time.Duration `yaml:"plan_interval"`
	// SpeedInterval is the period of SpeedCommand events.
	SpeedInterval time.Duration `yaml:"speed_interval"`
	// Planner holds the velocity planner parameters.
	Planner planner.Config `yaml:"planner"`
}

// Defaults
const (
	DefaultURL           = "mqtt://localhost:1883/velplan/"
	DefaultPlanInterval  = 100 * time.Millisecond
	DefaultSpeedInterval = 50 * time.Millisecond
)

var (
	defaultConfig = Config{
		URL:           DefaultURL,
		PlanInterval:  DefaultPlanInterval,
		SpeedInterval: DefaultSpeedInterval,
	}
	configFile string
)

func init() {
	if val := os.Getenv("VELPLAN_NODE_ID"); val != "" {
		defaultConfig.ID = val
	}
	if val := os.Getenv("VELPLAN_URL"); val != "" {
		defaultConfig.URL = val
	}
}

// SetupFlags sets command line flags, including the planner ones.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Node ID, defaults to machine id.")
	flag.StringVar(&defaultConfig.URL, "url", defaultConfig.URL, "Comma separated transport URLs (mqtt://, ws://, tcp://).")
	flag.DurationVar(&defaultConfig.PlanInterval, "plan-interval", defaultConfig.PlanInterval, "Planning loop interval.")
	flag.DurationVar(&defaultConfig.SpeedInterval, "speed-interval", defaultConfig.SpeedInterval, "Speed command interval.")
	flag.StringVar(&configFile, "config", "", "YAML config file, overriding flags.")
	planner.SetupFlags()
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config from defaults and the -config file if specified.
// Must be called after flag.Parse.
func NewConfig() (*Config, error) {
	conf := defaultConfig
	conf.Planner = *planner.Default()
	if configFile != "" {
		if err := conf.LoadFile(configFile); err != nil {
			return nil, err
		}
	}
	return &conf, nil
}

// MustNewConfig creates a Config and fails on error.
func MustNewConfig() *Config {
	conf, err := NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	return conf
}

// LoadFile overlays values from a YAML file. Unknown keys are rejected.
func (c *Config) LoadFile(fn string) error {
	data, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	return c.Load(data)
}

// Load overlays values from YAML content.
func (c *Config) Load(data []byte) error {
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// URLs returns the individual transport URLs.
func (c *Config) URLs() []string {
	var urls []string
	for _, u := range strings.Split(c.URL, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// NodeID returns the configured ID or the machine id.
func (c *Config) NodeID() (string, error) {
	if c.ID != "" {
		return c.ID, nil
	}
	id, err := machineid.ProtectedID("velplan")
	if err != nil {
		return "", fmt.Errorf("node id not specified and machine id unavailable: %w", err)
	}
	// protected ids are long hex strings, a prefix is enough to be unique on a broker.
	return id[:12], nil
}

// Validate checks the config.
func (c *Config) Validate() error {
	var errs fx.AggregatedError
	if len(c.URLs()) == 0 {
		errs.Add(&planner.ConfigError{Field: "url", Reason: "at least one transport URL is required"})
	}
	if c.PlanInterval <= 0 {
		errs.Add(&planner.ConfigError{Field: "plan_interval", Value: c.PlanInterval.Seconds(), Reason: "must be > 0"})
	}
	if c.SpeedInterval <= 0 {
		errs.Add(&planner.ConfigError{Field: "speed_interval", Value: c.SpeedInterval.Seconds(), Reason: "must be > 0"})
	}
	errs.Add(c.Planner.Validate())
	return errs.Aggregate()
}
