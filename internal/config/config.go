// Package config loads launchpad configuration from a YAML file and LAUNCHPAD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"solana-launchpad/internal/settlement"
)

// EnvPrefix prefixes every environment override, e.g. LAUNCHPAD_SOLANA_RPC_ENDPOINT.
const EnvPrefix = "LAUNCHPAD"

// Config is the full service configuration.
type Config struct {
	HTTPAddr string                   `mapstructure:"http_addr"`
	Log      LogConfig                `mapstructure:"log"`
	Storage  StorageConfig            `mapstructure:"storage"`
	Solana   SolanaConfig             `mapstructure:"solana"`
	Curve    CurveConfig              `mapstructure:"curve"`
	Surfaces map[string]SurfaceConfig `mapstructure:"surfaces"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// StorageConfig selects the ledger and history backends.
type StorageConfig struct {
	UseMemory     bool   `mapstructure:"use_memory"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"` // empty disables curve history
}

// SolanaConfig configures the payout executor.
type SolanaConfig struct {
	RPCEndpoint    string        `mapstructure:"rpc_endpoint"`
	WSEndpoint     string        `mapstructure:"ws_endpoint"` // empty confirms by polling
	TreasuryKey    string        `mapstructure:"treasury_key"`
	Commitment     string        `mapstructure:"commitment"`
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
}

// CurveConfig holds market-wide curve parameters.
type CurveConfig struct {
	GraduationThresholdSol string `mapstructure:"graduation_threshold_sol"`
	TotalSupply            string `mapstructure:"total_supply"`
}

// SurfaceConfig is the raw configuration of one product surface.
type SurfaceConfig struct {
	FeeClaimsTable     string        `mapstructure:"fee_claims_table"`
	DistributionsTable string        `mapstructure:"distributions_table"`
	TokensTable        string        `mapstructure:"tokens_table"`
	CreatorShare       string        `mapstructure:"creator_share"`
	MinClaimSol        string        `mapstructure:"min_claim_sol"`
	MaxClaimSol        string        `mapstructure:"max_claim_sol"`
	Cooldown           time.Duration `mapstructure:"cooldown"`
	LockDuration       time.Duration `mapstructure:"lock_duration"`
	ReserveBufferSol   string        `mapstructure:"reserve_buffer_sol"`
}

// Defaults
const (
	DefaultHTTPAddr       = ":8080"
	DefaultMinClaimSol    = "0.01"
	DefaultCooldown       = time.Hour
	DefaultLockDuration   = 60 * time.Second
	DefaultReserveBuffer  = "0.05"
	DefaultConfirmTimeout = 45 * time.Second
	DefaultGraduationSol  = "85"
	DefaultTotalSupply    = "1000000000"
	DefaultRPCMaxRetries  = 3
	DefaultLogLevel       = "info"
	DefaultRPCEndpoint    = "https://api.mainnet-beta.solana.com"
	DefaultCommitment     = "confirmed"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", DefaultHTTPAddr)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.development", false)
	v.SetDefault("storage.use_memory", false)
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.clickhouse_dsn", "")
	v.SetDefault("solana.rpc_endpoint", DefaultRPCEndpoint)
	v.SetDefault("solana.ws_endpoint", "")
	v.SetDefault("solana.treasury_key", "")
	v.SetDefault("solana.commitment", DefaultCommitment)
	v.SetDefault("solana.confirm_timeout", DefaultConfirmTimeout)
	v.SetDefault("solana.max_retries", DefaultRPCMaxRetries)
	v.SetDefault("curve.graduation_threshold_sol", DefaultGraduationSol)
	v.SetDefault("curve.total_supply", DefaultTotalSupply)

	surfaces := map[string]struct {
		share string
		max   string
	}{
		"agent": {share: "0.5", max: "10"},
		"claw":  {share: "0.3", max: "0"},
	}
	for name, s := range surfaces {
		prefix := "surfaces." + name + "."
		v.SetDefault(prefix+"fee_claims_table", name+"_fee_claims")
		v.SetDefault(prefix+"distributions_table", name+"_distributions")
		v.SetDefault(prefix+"tokens_table", name+"_tokens")
		v.SetDefault(prefix+"creator_share", s.share)
		v.SetDefault(prefix+"min_claim_sol", DefaultMinClaimSol)
		v.SetDefault(prefix+"max_claim_sol", s.max)
		v.SetDefault(prefix+"cooldown", DefaultCooldown)
		v.SetDefault(prefix+"lock_duration", DefaultLockDuration)
		v.SetDefault(prefix+"reserve_buffer_sol", DefaultReserveBuffer)
	}
}

// Load reads configuration from path (optional) and the environment.
// Without a path, ./launchpad.yaml is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("launchpad")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applySurfaceDefaults(v, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applySurfaceDefaults fills unset fields of surfaces that only exist in the config file.
func applySurfaceDefaults(v *viper.Viper, cfg *Config) {
	for name, sc := range cfg.Surfaces {
		prefix := "surfaces." + name + "."
		if sc.FeeClaimsTable == "" {
			sc.FeeClaimsTable = name + "_fee_claims"
		}
		if sc.DistributionsTable == "" {
			sc.DistributionsTable = name + "_distributions"
		}
		if sc.TokensTable == "" {
			sc.TokensTable = name + "_tokens"
		}
		if sc.MinClaimSol == "" {
			sc.MinClaimSol = DefaultMinClaimSol
		}
		if sc.ReserveBufferSol == "" {
			sc.ReserveBufferSol = DefaultReserveBuffer
		}
		if !v.IsSet(prefix + "cooldown") {
			sc.Cooldown = DefaultCooldown
		}
		if sc.LockDuration == 0 {
			sc.LockDuration = DefaultLockDuration
		}
		cfg.Surfaces[name] = sc
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http_addr is required")
	}
	if !c.Storage.UseMemory && c.Storage.PostgresDSN == "" {
		return errors.New("storage.postgres_dsn is required unless storage.use_memory is set")
	}
	if err := validateURL(c.Solana.RPCEndpoint, "http"); err != nil {
		return fmt.Errorf("solana.rpc_endpoint: %w", err)
	}
	if c.Solana.WSEndpoint != "" {
		if err := validateURL(c.Solana.WSEndpoint, "ws"); err != nil {
			return fmt.Errorf("solana.ws_endpoint: %w", err)
		}
	}
	switch c.Solana.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("solana.commitment: unknown level %q", c.Solana.Commitment)
	}
	if c.Solana.ConfirmTimeout <= 0 {
		return errors.New("solana.confirm_timeout must be positive")
	}
	if _, err := c.Market(); err != nil {
		return err
	}
	if len(c.Surfaces) == 0 {
		return errors.New("at least one surface is required")
	}
	for _, name := range c.SurfaceNames() {
		s, err := c.Settlement(name)
		if err != nil {
			return err
		}
		// A payment waiting on confirmation must fit inside the lock's payment window.
		if s.PaymentWindow() <= c.Solana.ConfirmTimeout {
			return fmt.Errorf("surfaces.%s.lock_duration (%s) leaves a payment window of %s, which must exceed solana.confirm_timeout (%s)",
				name, s.LockDuration, s.PaymentWindow(), c.Solana.ConfirmTimeout)
		}
		sc := c.Surfaces[name]
		if sc.FeeClaimsTable == "" || sc.DistributionsTable == "" || sc.TokensTable == "" {
			return fmt.Errorf("surfaces.%s: table names are required", name)
		}
	}
	return nil
}

// SurfaceNames returns configured surface names in sorted order.
func (c *Config) SurfaceNames() []string {
	names := make([]string, 0, len(c.Surfaces))
	for name := range c.Surfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Settlement converts a surface's raw values into a settlement.Surface.
func (c *Config) Settlement(name string) (settlement.Surface, error) {
	sc, ok := c.Surfaces[name]
	if !ok {
		return settlement.Surface{}, fmt.Errorf("unknown surface %q", name)
	}

	var (
		s   = settlement.Surface{Name: name, Cooldown: sc.Cooldown, LockDuration: sc.LockDuration}
		err error
	)
	fields := []struct {
		key string
		raw string
		dst *decimal.Decimal
	}{
		{"creator_share", sc.CreatorShare, &s.CreatorShare},
		{"min_claim_sol", sc.MinClaimSol, &s.MinClaim},
		{"max_claim_sol", sc.MaxClaimSol, &s.MaxClaim},
		{"reserve_buffer_sol", sc.ReserveBufferSol, &s.ReserveBuffer},
	}
	for _, f := range fields {
		if *f.dst, err = parseDecimal(f.raw); err != nil {
			return settlement.Surface{}, fmt.Errorf("surfaces.%s.%s: %w", name, f.key, err)
		}
	}
	if err := s.Validate(); err != nil {
		return settlement.Surface{}, err
	}
	return s, nil
}

// MarketParams holds parsed curve parameters.
type MarketParams struct {
	GraduationThresholdSol decimal.Decimal
	TotalSupply            decimal.Decimal
}

// Market parses the curve section.
func (c *Config) Market() (MarketParams, error) {
	threshold, err := parseDecimal(c.Curve.GraduationThresholdSol)
	if err != nil {
		return MarketParams{}, fmt.Errorf("curve.graduation_threshold_sol: %w", err)
	}
	supply, err := parseDecimal(c.Curve.TotalSupply)
	if err != nil {
		return MarketParams{}, fmt.Errorf("curve.total_supply: %w", err)
	}
	if threshold.IsNegative() || !supply.IsPositive() {
		return MarketParams{}, errors.New("curve: threshold must not be negative and supply must be positive")
	}
	return MarketParams{GraduationThresholdSol: threshold, TotalSupply: supply}, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(s))
}

func validateURL(raw, scheme string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if !strings.HasPrefix(u.Scheme, scheme) || u.Host == "" {
		return fmt.Errorf("expected %s(s) URL, got %q", scheme, raw)
	}
	return nil
}
