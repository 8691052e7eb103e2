// Package sim replays generated workloads against
// cache policies and reports their hit ratios.
package sim

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/djdv/go-pagecache"
)

// Policy names accepted in [Config.Policies].
const (
	PolicyDummy  = "dummy"
	PolicyRandom = "random"
	PolicyLRU    = "lru"
	Policy2Q     = "2q"
	PolicyBelady = "belady"
)

// Store kinds accepted in [StoreConfig.Kind].
const (
	StoreSynthetic  = "synthetic"
	StoreFilesystem = "filesystem"
	StoreS3         = "s3"
	StoreRedis      = "redis"
)

// Workload kinds accepted in [WorkloadConfig.Kind].
const (
	WorkloadSequential = "sequential"
	WorkloadUniform    = "uniform"
	WorkloadLooping    = "looping"
	WorkloadZipf       = "zipf"
	WorkloadGraph      = "graph"
	WorkloadTree       = "tree"
)

type (
	// Config describes one simulation: every policy is replayed
	// over every workload at every capacity.
	Config struct {
		Seed           int64            `yaml:"seed"`
		Capacities     []int            `yaml:"capacities"`
		Policies       []string         `yaml:"policies"`
		ProbationRatio float64          `yaml:"probation_ratio"`
		BeladyWindow   int              `yaml:"belady_window"`
		Store          StoreConfig      `yaml:"store"`
		Workloads      []WorkloadConfig `yaml:"workloads"`
	}

	// StoreConfig selects the backing store pages are fetched from.
	// Integer keys are rendered with KeyFormat for stores keyed by name.
	StoreConfig struct {
		Kind      string        `yaml:"kind"`
		Latency   time.Duration `yaml:"latency"`
		KeyFormat string        `yaml:"key_format"`
		Root      string        `yaml:"root"`
		Bucket    string        `yaml:"bucket"`
		Prefix    string        `yaml:"prefix"`
		Address   string        `yaml:"address"`
		Timeout   time.Duration `yaml:"timeout"`
	}

	// WorkloadConfig describes a generated request trace.
	WorkloadConfig struct {
		Name     string  `yaml:"name"`
		Kind     string  `yaml:"kind"`
		Length   int     `yaml:"length"`
		Universe int     `yaml:"universe"`
		HotSize  int     `yaml:"hot_size"`
		HotRatio float64 `yaml:"hot_ratio"`
		Skew     float64 `yaml:"skew"`
		Degree   int     `yaml:"degree"`
	}
)

// DefaultConfig compares every policy over a Zipf
// and a looping workload.
func DefaultConfig() Config {
	return Config{
		Seed:           1,
		Capacities:     []int{16, 64, 256},
		Policies:       []string{PolicyDummy, PolicyRandom, PolicyLRU, Policy2Q, PolicyBelady},
		ProbationRatio: pagecache.DefaultProbationRatio,
		Store: StoreConfig{
			Kind:      StoreSynthetic,
			KeyFormat: "%d",
			Timeout:   5 * time.Second,
		},
		Workloads: []WorkloadConfig{
			{Name: "zipf", Kind: WorkloadZipf},
			{Name: "looping", Kind: WorkloadLooping},
		},
	}
}

// LoadConfig reads a YAML configuration from path.
// Unset fields take their value from [DefaultConfig].
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration.
// Unset fields take their value from [DefaultConfig].
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

// withDefaults fills unset workload parameters.
func (w WorkloadConfig) withDefaults() WorkloadConfig {
	if w.Length == 0 {
		w.Length = 1 << 15
	}
	if w.Universe == 0 {
		w.Universe = 4096
	}
	if w.HotSize == 0 {
		w.HotSize = w.Universe / 16
	}
	if w.HotRatio == 0 {
		w.HotRatio = 0.9
	}
	if w.Skew == 0 {
		w.Skew = 1.2
	}
	if w.Degree == 0 {
		w.Degree = 3
	}
	if w.Name == "" {
		w.Name = w.Kind
	}
	return w
}

// Validate reports every problem with c.
func (c Config) Validate() error {
	var errs []error
	if len(c.Capacities) == 0 {
		errs = append(errs, errors.New("at least one capacity is required"))
	}
	for _, capacity := range c.Capacities {
		if capacity < 1 {
			errs = append(errs, fmt.Errorf("capacity %d must be positive", capacity))
		}
	}
	if len(c.Policies) == 0 {
		errs = append(errs, errors.New("at least one policy is required"))
	}
	known := []string{PolicyDummy, PolicyRandom, PolicyLRU, Policy2Q, PolicyBelady}
	for _, policy := range c.Policies {
		if !slices.Contains(known, policy) {
			errs = append(errs, fmt.Errorf("unknown policy %q (expected one of %v)", policy, known))
		}
	}
	if !(c.ProbationRatio > 0 && c.ProbationRatio < 1) {
		errs = append(errs, fmt.Errorf("probation_ratio %g must be within (0, 1)", c.ProbationRatio))
	}
	if c.BeladyWindow < 0 {
		errs = append(errs, fmt.Errorf("belady_window %d must not be negative", c.BeladyWindow))
	}
	if err := c.Store.validate(); err != nil {
		errs = append(errs, err)
	}
	if len(c.Workloads) == 0 {
		errs = append(errs, errors.New("at least one workload is required"))
	}
	for i, workload := range c.Workloads {
		if err := workload.withDefaults().validate(); err != nil {
			errs = append(errs, fmt.Errorf("workload %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (s StoreConfig) validate() error {
	if s.Latency < 0 {
		return fmt.Errorf("store latency %s must not be negative", s.Latency)
	}
	switch s.Kind {
	case StoreSynthetic:
		return nil
	case StoreFilesystem:
		if s.Root == "" {
			return errors.New("filesystem store requires root")
		}
	case StoreS3:
		if s.Bucket == "" {
			return errors.New("s3 store requires bucket")
		}
	case StoreRedis:
		if s.Address == "" {
			return errors.New("redis store requires address")
		}
	default:
		return fmt.Errorf("unknown store kind %q", s.Kind)
	}
	if s.KeyFormat == "" {
		return fmt.Errorf("%s store requires key_format", s.Kind)
	}
	return nil
}

func (w WorkloadConfig) validate() error {
	switch w.Kind {
	case WorkloadSequential, WorkloadUniform, WorkloadLooping,
		WorkloadZipf, WorkloadGraph, WorkloadTree:
	default:
		return fmt.Errorf("unknown workload kind %q", w.Kind)
	}
	if w.Length < 1 || w.Universe < 1 {
		return fmt.Errorf("length %d and universe %d must be positive", w.Length, w.Universe)
	}
	if w.HotRatio < 0 || w.HotRatio > 1 {
		return fmt.Errorf("hot_ratio %g must be within [0, 1]", w.HotRatio)
	}
	if w.Kind == WorkloadZipf && w.Skew <= 1 {
		return fmt.Errorf("zipf skew %g must be > 1", w.Skew)
	}
	if w.Degree < 0 {
		return fmt.Errorf("degree %d must not be negative", w.Degree)
	}
	return nil
}
