package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/sqs-admin-tui/internal/app"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config captures runtime configuration for the application.
type Config struct {
	App        app.Config
	Logging    Logging
	ConfigFile string
	Flags      map[string]string
	Args       []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfig            = "SQS_ADMIN_CONFIG"
	envEndpoint          = "SQS_ADMIN_ENDPOINT"
	envRegion            = "SQS_ADMIN_REGION"
	envProfile           = "SQS_ADMIN_PROFILE"
	envAccessKey         = "SQS_ADMIN_ACCESS_KEY"
	envSecretKey         = "SQS_ADMIN_SECRET_KEY"
	envPollInterval      = "SQS_ADMIN_POLL_INTERVAL"
	envSettleDelay       = "SQS_ADMIN_SETTLE_DELAY"
	envRequestInterval   = "SQS_ADMIN_REQUEST_INTERVAL"
	envMaxMessages       = "SQS_ADMIN_MAX_MESSAGES"
	envVisibilityTimeout = "SQS_ADMIN_VISIBILITY_TIMEOUT"
	envWidth             = "SQS_ADMIN_WIDTH"
	envHeight            = "SQS_ADMIN_HEIGHT"
	envShowFooter        = "SQS_ADMIN_FOOTER"
	envVerbose           = "SQS_ADMIN_VERBOSE"
	envTrace             = "SQS_ADMIN_TRACE"
	envLogFile           = "SQS_ADMIN_LOG_FILE"
	envMetricsListen     = "SQS_ADMIN_METRICS_LISTEN"
)

const (
	DefaultRegion       = "eu-central-1"
	DefaultPollInterval = 3 * time.Second
	DefaultSettleDelay  = time.Second
	DefaultMaxMessages  = 10

	maxVisibilityTimeout = 43200
)

// fileConfig mirrors the TOML layout. Values already set act as defaults.
type fileConfig struct {
	AWS struct {
		Endpoint  string `koanf:"endpoint"`
		Region    string `koanf:"region"`
		Profile   string `koanf:"profile"`
		AccessKey string `koanf:"access_key"`
		SecretKey string `koanf:"secret_key"`
	} `koanf:"aws"`
	Sync struct {
		PollInterval    time.Duration `koanf:"poll_interval"`
		SettleDelay     time.Duration `koanf:"settle_delay"`
		RequestInterval time.Duration `koanf:"request_interval"`
	} `koanf:"sync"`
	Receive struct {
		MaxMessages       int `koanf:"max_messages"`
		VisibilityTimeout int `koanf:"visibility_timeout"`
	} `koanf:"receive"`
	UI struct {
		Width   int  `koanf:"width"`
		Height  int  `koanf:"height"`
		Footer  bool `koanf:"footer"`
		Verbose bool `koanf:"verbose"`
	} `koanf:"ui"`
	Log struct {
		File  string `koanf:"file"`
		Trace bool   `koanf:"trace"`
	} `koanf:"log"`
	Metrics struct {
		Listen string `koanf:"listen"`
	} `koanf:"metrics"`
}

func defaultFileConfig() fileConfig {
	var fc fileConfig
	fc.AWS.Region = DefaultRegion
	fc.Sync.PollInterval = DefaultPollInterval
	fc.Sync.SettleDelay = DefaultSettleDelay
	fc.Receive.MaxMessages = DefaultMaxMessages
	fc.UI.Footer = true
	return fc
}

// Load parses configuration from CLI arguments, environment variables and
// the optional TOML file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	path, explicit := configPath(args, env)
	fc, loaded, err := loadFile(path, explicit)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("sqs-admin-tui", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", path, "path to a TOML config file")
	endpoint := fs.String("endpoint", envOrDefault(env, envEndpoint, fc.AWS.Endpoint), "SQS endpoint URL (empty uses the SDK default)")
	region := fs.String("region", envOrDefault(env, envRegion, fc.AWS.Region), "AWS region")
	profile := fs.String("profile", envOrDefault(env, envProfile, fc.AWS.Profile), "shared config profile")
	accessKey := fs.String("access-key", envOrDefault(env, envAccessKey, fc.AWS.AccessKey), "static access key id")
	secretKey := fs.String("secret-key", envOrDefault(env, envSecretKey, fc.AWS.SecretKey), "static secret access key")
	poll := fs.Duration("poll-interval", envOrDuration(env, envPollInterval, fc.Sync.PollInterval), "message refresh interval (0 disables polling)")
	settle := fs.Duration("settle-delay", envOrDuration(env, envSettleDelay, fc.Sync.SettleDelay), "delay before re-listing queues after create/delete")
	requestInterval := fs.Duration("request-interval", envOrDuration(env, envRequestInterval, fc.Sync.RequestInterval), "minimum spacing between remote calls")
	maxMessages := fs.Int("max-messages", envOrInt(env, envMaxMessages, fc.Receive.MaxMessages), "messages fetched per refresh (1-10)")
	visibility := fs.Int("visibility-timeout", envOrInt(env, envVisibilityTimeout, fc.Receive.VisibilityTimeout), "visibility timeout in seconds applied to received messages")
	width := fs.Int("width", envOrInt(env, envWidth, fc.UI.Width), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, fc.UI.Height), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, fc.UI.Footer), "show the key hint footer")
	trace := fs.Bool("trace", envOrBool(env, envTrace, fc.Log.Trace), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, fc.UI.Verbose), "print success messages for actions")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, fc.Log.File), "path to the log file")
	metricsListen := fs.String("metrics-listen", envOrDefault(env, envMetricsListen, fc.Metrics.Listen), "address to serve Prometheus metrics on (empty disables)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			Endpoint:          *endpoint,
			Region:            *region,
			Profile:           *profile,
			AccessKey:         *accessKey,
			SecretKey:         *secretKey,
			PollInterval:      *poll,
			SettleDelay:       *settle,
			RequestInterval:   *requestInterval,
			MaxMessages:       *maxMessages,
			VisibilityTimeout: *visibility,
			Width:             *width,
			Height:            *height,
			ShowFooter:        *footer,
			Verbose:           *verbose,
			MetricsListen:     *metricsListen,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"endpoint":          *endpoint,
			"region":            *region,
			"profile":           *profile,
			"accessKey":         *accessKey,
			"secretKey":         redact(*secretKey),
			"pollInterval":      poll.String(),
			"settleDelay":       settle.String(),
			"requestInterval":   requestInterval.String(),
			"maxMessages":       strconv.Itoa(*maxMessages),
			"visibilityTimeout": strconv.Itoa(*visibility),
			"width":             strconv.Itoa(*width),
			"height":            strconv.Itoa(*height),
			"footer":            strconv.FormatBool(*footer),
			"trace":             strconv.FormatBool(*trace),
			"verbose":           strconv.FormatBool(*verbose),
			"logFile":           *logFile,
			"metricsListen":     *metricsListen,
		},
		Args: append([]string(nil), args...),
	}
	if loaded {
		cfg.ConfigFile = path
	}

	return cfg, nil
}

// configPath finds the config file before flags are parsed, since file
// values seed the flag defaults. The bool reports an explicit choice.
func configPath(args []string, env map[string]string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if value, ok := strings.CutPrefix(name, "config="); ok {
			return value, true
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1], true
		}
	}
	if v := strings.TrimSpace(env[envConfig]); v != "" {
		return v, true
	}
	for _, candidate := range defaultConfigPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, false
		}
	}
	return "", false
}

func defaultConfigPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "sqs-admin-tui", "config.toml"))
	}
	return append(paths, "sqs-admin-tui.toml")
}

func loadFile(path string, explicit bool) (fileConfig, bool, error) {
	fc := defaultFileConfig()
	if path == "" {
		return fc, false, nil
	}
	path = expandPath(path)
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return fc, false, nil
		}
		return fc, false, fmt.Errorf("config file %s: %w", path, err)
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return fc, false, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := k.Unmarshal("", &fc); err != nil {
		return fc, false, fmt.Errorf("config file %s: %w", path, err)
	}
	return fc, true, nil
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	a := cfg.App
	if strings.TrimSpace(a.Region) == "" {
		return errors.New("region must not be empty")
	}
	if a.PollInterval < 0 {
		return fmt.Errorf("poll interval must be >= 0 (got %s)", a.PollInterval)
	}
	if a.SettleDelay < 0 {
		return fmt.Errorf("settle delay must be >= 0 (got %s)", a.SettleDelay)
	}
	if a.RequestInterval < 0 {
		return fmt.Errorf("request interval must be >= 0 (got %s)", a.RequestInterval)
	}
	if a.MaxMessages < 1 || a.MaxMessages > 10 {
		return fmt.Errorf("max messages must be between 1 and 10 (got %d)", a.MaxMessages)
	}
	if a.VisibilityTimeout < 0 || a.VisibilityTimeout > maxVisibilityTimeout {
		return fmt.Errorf("visibility timeout must be between 0 and %d seconds (got %d)", maxVisibilityTimeout, a.VisibilityTimeout)
	}
	if (a.AccessKey == "") != (a.SecretKey == "") {
		return errors.New("access key and secret key must be set together")
	}
	return nil
}
