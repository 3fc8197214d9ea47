package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

type Config struct {
	RPCAddress     string `toml:"RPCAddress"`
	MetricsAddress string `toml:"MetricsAddress"`
	DataDir        string `toml:"DataDir"`

	// OwnerAddress is the hex address of the single administrator allowed
	// to mutate the rewards policy.
	OwnerAddress string `toml:"OwnerAddress"`

	// MinQualifyingAmount and DailyCap seed the policy on first start.
	// Both are base-10 integers in the native asset's smallest
	// denomination and must be strictly positive.
	MinQualifyingAmount string `toml:"MinQualifyingAmount"`
	DailyCap            string `toml:"DailyCap"`

	// AuthSecretEnv names the environment variable holding the HMAC
	// secret for bearer tokens on mutating RPC methods. Auth is disabled
	// when the variable is unset or empty.
	AuthSecretEnv string `toml:"AuthSecretEnv"`
	AuthIssuer    string `toml:"AuthIssuer"`
	AuthAudience  string `toml:"AuthAudience"`

	// RPCRequestsPerMinute bounds each client's request rate on the
	// JSON-RPC endpoint. Zero disables limiting.
	RPCRequestsPerMinute float64 `toml:"RPCRequestsPerMinute"`
	RPCBurst             int     `toml:"RPCBurst"`

	LogFile       string `toml:"LogFile"`
	LogMaxSizeMB  int    `toml:"LogMaxSizeMB"`
	LogMaxBackups int    `toml:"LogMaxBackups"`
	LogMaxAgeDays int    `toml:"LogMaxAgeDays"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s contains unknown key %q", path, undecoded[0].String())
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.RPCAddress) == "" {
		cfg.RPCAddress = ":8080"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./rewards-data"
	}
	if cfg.LogMaxSizeMB <= 0 {
		cfg.LogMaxSizeMB = 100
	}
	if cfg.RPCRequestsPerMinute < 0 {
		cfg.RPCRequestsPerMinute = 0
	}
	if cfg.RPCRequestsPerMinute > 0 && cfg.RPCBurst <= 0 {
		cfg.RPCBurst = 20
	}
	if cfg.LogMaxBackups < 0 {
		cfg.LogMaxBackups = 0
	}
	if cfg.LogMaxAgeDays < 0 {
		cfg.LogMaxAgeDays = 0
	}
}

// Validate checks that the configuration can actually boot the daemon.
func (cfg *Config) Validate() error {
	if !common.IsHexAddress(cfg.OwnerAddress) {
		return fmt.Errorf("OwnerAddress must be a hex address, got %q", cfg.OwnerAddress)
	}
	if cfg.Owner() == (common.Address{}) {
		return fmt.Errorf("OwnerAddress must not be the zero address")
	}
	if _, err := parsePositiveAmount("MinQualifyingAmount", cfg.MinQualifyingAmount); err != nil {
		return err
	}
	if _, err := parsePositiveAmount("DailyCap", cfg.DailyCap); err != nil {
		return err
	}
	return nil
}

// Owner returns the configured administrator address. Validate must have
// succeeded before calling.
func (cfg *Config) Owner() common.Address {
	return common.HexToAddress(cfg.OwnerAddress)
}

// GenesisMinQualifyingAmount returns the seed value for the anti-dust floor.
func (cfg *Config) GenesisMinQualifyingAmount() *big.Int {
	v, _ := parsePositiveAmount("MinQualifyingAmount", cfg.MinQualifyingAmount)
	return v
}

// GenesisDailyCap returns the seed value for the per-trader daily cap.
func (cfg *Config) GenesisDailyCap() *big.Int {
	v, _ := parsePositiveAmount("DailyCap", cfg.DailyCap)
	return v
}

// AuthSecret resolves the bearer-token HMAC secret from the environment.
// An empty result means the admin surface runs unauthenticated (dev only).
func (cfg *Config) AuthSecret() string {
	env := strings.TrimSpace(cfg.AuthSecretEnv)
	if env == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(env))
}

func parsePositiveAmount(field, raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%s must be set", field)
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("%s must be a base-10 integer, got %q", field, raw)
	}
	if value.Sign() <= 0 {
		return nil, fmt.Errorf("%s must be strictly positive", field)
	}
	return value, nil
}

// createDefault creates and saves a default configuration file. The default
// owner is intentionally invalid so operators are forced to set it.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		RPCAddress:     ":8080",
		MetricsAddress: ":9090",
		DataDir:        "./rewards-data",
		OwnerAddress:   "",
		// 100 native units of dust floor and a 1000 point ceiling are
		// placeholders; production values come from governance.
		MinQualifyingAmount:  "100",
		DailyCap:             "1000",
		AuthSecretEnv:        "REWARDS_RPC_SECRET",
		RPCRequestsPerMinute: 600,
		RPCBurst:             20,
		LogMaxSizeMB:         100,
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("wrote default config to %s; set OwnerAddress before starting", path)
}

func persist(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
