package sim_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djdv/go-pagecache/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	require.NoError(t, sim.DefaultConfig().Validate())
}

func TestParseConfig(t *testing.T) {
	const document = `
seed: 7
capacities: [4, 8]
policies: [lru, belady]
belady_window: 32
store:
  kind: synthetic
  latency: 1ms
workloads:
  - name: scan
    kind: sequential
    length: 100
    universe: 10
`
	config, err := sim.ParseConfig([]byte(document))
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, int64(7), config.Seed)
	assert.Equal(t, []int{4, 8}, config.Capacities)
	assert.Equal(t, []string{sim.PolicyLRU, sim.PolicyBelady}, config.Policies)
	assert.Equal(t, 32, config.BeladyWindow)
	assert.Equal(t, time.Millisecond, config.Store.Latency)
	require.Len(t, config.Workloads, 1)
	assert.Equal(t, "scan", config.Workloads[0].Name)

	defaults := sim.DefaultConfig()
	assert.Equal(t, defaults.ProbationRatio, config.ProbationRatio,
		"unset fields should keep their default")
	assert.Equal(t, defaults.Store.KeyFormat, config.Store.KeyFormat)
	assert.Equal(t, defaults.Store.Timeout, config.Store.Timeout)
}

func TestParseConfigMalformed(t *testing.T) {
	_, err := sim.ParseConfig([]byte("capacities: {"))
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagesim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacities: [3]\n"), 0o600))

	config, err := sim.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, config.Capacities)

	_, err = sim.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*sim.Config)
		want   string
	}{
		{
			name:   "no capacities",
			modify: func(c *sim.Config) { c.Capacities = nil },
			want:   "at least one capacity",
		},
		{
			name:   "non-positive capacity",
			modify: func(c *sim.Config) { c.Capacities = []int{0} },
			want:   "capacity 0 must be positive",
		},
		{
			name:   "unknown policy",
			modify: func(c *sim.Config) { c.Policies = []string{"fifo"} },
			want:   `unknown policy "fifo"`,
		},
		{
			name:   "ratio out of range",
			modify: func(c *sim.Config) { c.ProbationRatio = 1 },
			want:   "probation_ratio",
		},
		{
			name:   "negative window",
			modify: func(c *sim.Config) { c.BeladyWindow = -1 },
			want:   "belady_window",
		},
		{
			name:   "unknown store",
			modify: func(c *sim.Config) { c.Store.Kind = "tape" },
			want:   `unknown store kind "tape"`,
		},
		{
			name:   "filesystem without root",
			modify: func(c *sim.Config) { c.Store.Kind = sim.StoreFilesystem },
			want:   "requires root",
		},
		{
			name:   "s3 without bucket",
			modify: func(c *sim.Config) { c.Store.Kind = sim.StoreS3 },
			want:   "requires bucket",
		},
		{
			name:   "redis without address",
			modify: func(c *sim.Config) { c.Store.Kind = sim.StoreRedis },
			want:   "requires address",
		},
		{
			name: "unknown workload",
			modify: func(c *sim.Config) {
				c.Workloads = []sim.WorkloadConfig{{Kind: "bursty"}}
			},
			want: `unknown workload kind "bursty"`,
		},
		{
			name: "zipf without skew",
			modify: func(c *sim.Config) {
				c.Workloads = []sim.WorkloadConfig{{Kind: sim.WorkloadZipf, Skew: 0.5}}
			},
			want: "skew",
		},
		{
			name:   "no workloads",
			modify: func(c *sim.Config) { c.Workloads = nil },
			want:   "at least one workload",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := sim.DefaultConfig()
			test.modify(&config)
			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.want)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	config := sim.DefaultConfig()
	config.Capacities = []int{-1}
	config.Policies = []string{"mru"}
	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity -1")
	assert.Contains(t, err.Error(), `unknown policy "mru"`)
}
