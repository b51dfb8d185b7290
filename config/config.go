package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/fastset-labs/fastset-go-sdk/client"
	"github.com/fastset-labs/fastset-go-sdk/utils"
)

// ErrConfig marks invalid or missing configuration.
var ErrConfig = errors.New("configuration error")

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File    string
	Level   string
	Console bool
}

// Config holds everything the bot reads at startup.
type Config struct {
	Network client.NetworkConfig

	PrivateKeys []string
	Addresses   []string
	Proxies     []string
	ProxyFile   string
	WalletFile  string

	SendsPerAccount int
	Delay           time.Duration

	HTTPTimeout  time.Duration
	RateLimitRPS float64

	Logging LoggingConfig

	StatusAddr string
	ResultsCSV string
	Schedule   string
}

// LoadOptions selects the optional files merged under the process environment.
type LoadOptions struct {
	// EnvFile is a dotenv file; a missing file is not an error.
	EnvFile string
	// ConfigFile is an optional YAML file with the same keys in lower case.
	ConfigFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("network", client.TestnetConfig.Name)
	v.SetDefault("api_base", "")
	v.SetDefault("private_keys", "")
	v.SetDefault("addresses", "")
	v.SetDefault("proxies", "")
	v.SetDefault("proxy_file", "proxy.txt")
	v.SetDefault("wallet_file", "wallet.txt")
	v.SetDefault("sends_per_account", "1")
	v.SetDefault("delay_seconds", "5")
	v.SetDefault("http_timeout", "30s")
	v.SetDefault("rate_limit_rps", "0")
	v.SetDefault("log_file", "transactions.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_console", "false")
	v.SetDefault("status_addr", "")
	v.SetDefault("results_csv", "")
	v.SetDefault("schedule", "@every 6h")
}

// Load reads configuration from the environment, an optional dotenv file and an optional
// YAML file. Environment variables win over the YAML file.
func Load(opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: load %s: %v", ErrConfig, opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: error reading config file: %v", ErrConfig, err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	network, ok := client.NamedNetworks[strings.ToLower(v.GetString("network"))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown network %q", ErrConfig, v.GetString("network"))
	}
	if base := strings.TrimSpace(v.GetString("api_base")); base != "" {
		network.APIBase = base
	}

	sends, err := strconv.Atoi(strings.TrimSpace(v.GetString("sends_per_account")))
	if err != nil || sends < 1 {
		return nil, fmt.Errorf("%w: SENDS_PER_ACCOUNT must be a positive integer, got %q", ErrConfig, v.GetString("sends_per_account"))
	}
	delay, err := strconv.Atoi(strings.TrimSpace(v.GetString("delay_seconds")))
	if err != nil || delay < 0 {
		return nil, fmt.Errorf("%w: DELAY_SECONDS must be a non-negative integer, got %q", ErrConfig, v.GetString("delay_seconds"))
	}
	timeout, err := time.ParseDuration(strings.TrimSpace(v.GetString("http_timeout")))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("%w: HTTP_TIMEOUT must be a positive duration, got %q", ErrConfig, v.GetString("http_timeout"))
	}
	rps, err := strconv.ParseFloat(strings.TrimSpace(v.GetString("rate_limit_rps")), 64)
	if err != nil || rps < 0 {
		return nil, fmt.Errorf("%w: RATE_LIMIT_RPS must be a non-negative number, got %q", ErrConfig, v.GetString("rate_limit_rps"))
	}

	return &Config{
		Network:         network,
		PrivateKeys:     utils.SplitList(v.GetString("private_keys")),
		Addresses:       utils.SplitList(v.GetString("addresses")),
		Proxies:         utils.SplitList(v.GetString("proxies")),
		ProxyFile:       v.GetString("proxy_file"),
		WalletFile:      v.GetString("wallet_file"),
		SendsPerAccount: sends,
		Delay:           time.Duration(delay) * time.Second,
		HTTPTimeout:     timeout,
		RateLimitRPS:    rps,
		Logging: LoggingConfig{
			File:    v.GetString("log_file"),
			Level:   v.GetString("log_level"),
			Console: v.GetBool("log_console"),
		},
		StatusAddr: v.GetString("status_addr"),
		ResultsCSV: v.GetString("results_csv"),
		Schedule:   v.GetString("schedule"),
	}, nil
}

// LoadProxies returns the configured proxy list, falling back to ProxyFile when PROXIES is
// empty. A missing proxy file means no proxies.
func (c *Config) LoadProxies() ([]string, error) {
	if len(c.Proxies) > 0 {
		return c.Proxies, nil
	}
	if c.ProxyFile == "" {
		return nil, nil
	}
	lines, err := utils.ReadLines(c.ProxyFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return lines, err
}

// LoadRecipients reads the recipient pool. A missing wallet file is ErrConfig.
func (c *Config) LoadRecipients() ([]string, error) {
	lines, err := utils.ReadLines(c.WalletFile)
	if err != nil {
		return nil, fmt.Errorf("%w: recipients: %v", ErrConfig, err)
	}
	return lines, nil
}
