package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadArgsDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.toml")
	cfg, err := LoadArgs(nil, []string{"SQS_ADMIN_CONFIG=" + missing})
	require.Error(t, err, "an explicitly named config file must exist")

	cfg, err = LoadArgs([]string{"--config", writeConfig(t, "")}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, cfg.App.Region)
	assert.Equal(t, DefaultPollInterval, cfg.App.PollInterval)
	assert.Equal(t, DefaultSettleDelay, cfg.App.SettleDelay)
	assert.Equal(t, DefaultMaxMessages, cfg.App.MaxMessages)
	assert.True(t, cfg.App.ShowFooter)
	assert.False(t, cfg.Logging.Trace)
	require.NoError(t, Validate(cfg))
}

func TestLoadArgsPrecedence(t *testing.T) {
	path := writeConfig(t, `
[aws]
endpoint = "http://file:4566"
region = "us-east-1"

[sync]
poll_interval = "5s"
settle_delay = "2s"

[receive]
max_messages = 4

[ui]
footer = false
verbose = true

[log]
file = "/tmp/from-file.log"
`)
	env := []string{
		"SQS_ADMIN_CONFIG=" + path,
		"SQS_ADMIN_REGION=eu-west-1",
		"SQS_ADMIN_POLL_INTERVAL=7s",
	}
	args := []string{"--poll-interval=9s", "-max-messages", "6"}

	cfg, err := LoadArgs(args, env)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "http://file:4566", cfg.App.Endpoint, "file beats default")
	assert.Equal(t, "eu-west-1", cfg.App.Region, "env beats file")
	assert.Equal(t, 9*time.Second, cfg.App.PollInterval, "flag beats env")
	assert.Equal(t, 2*time.Second, cfg.App.SettleDelay)
	assert.Equal(t, 6, cfg.App.MaxMessages)
	assert.False(t, cfg.App.ShowFooter)
	assert.True(t, cfg.App.Verbose)
	assert.Equal(t, "/tmp/from-file.log", cfg.Logging.FilePath)
	assert.Equal(t, "9s", cfg.Flags["pollInterval"])
}

func TestLoadArgsConfigFlagBeatsEnv(t *testing.T) {
	fromEnv := writeConfig(t, "[aws]\nregion = \"env-file\"\n")
	fromFlag := writeConfig(t, "[aws]\nregion = \"flag-file\"\n")

	cfg, err := LoadArgs([]string{"-config=" + fromFlag}, []string{"SQS_ADMIN_CONFIG=" + fromEnv})
	require.NoError(t, err)
	assert.Equal(t, "flag-file", cfg.App.Region)
}

func TestLoadArgsInvalidFile(t *testing.T) {
	path := writeConfig(t, "this is = = not toml")
	_, err := LoadArgs([]string{"--config", path}, nil)
	assert.Error(t, err)
}

func TestLoadArgsRejectsNegativeSize(t *testing.T) {
	base := []string{"--config", writeConfig(t, "")}
	_, err := LoadArgs(append(base, "--width=-1"), nil)
	assert.Error(t, err)
	_, err = LoadArgs(append(base, "--height=-3"), nil)
	assert.Error(t, err)
}

func TestLoadArgsUnknownFlag(t *testing.T) {
	_, err := LoadArgs([]string{"--config", writeConfig(t, ""), "--nope"}, nil)
	assert.Error(t, err)
}

func TestSecretKeyIsRedactedInFlags(t *testing.T) {
	cfg, err := LoadArgs([]string{"--config", writeConfig(t, "")}, []string{
		"SQS_ADMIN_ACCESS_KEY=AKIA",
		"SQS_ADMIN_SECRET_KEY=shh",
	})
	require.NoError(t, err)
	assert.Equal(t, "shh", cfg.App.SecretKey)
	assert.Equal(t, "***", cfg.Flags["secretKey"])
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	cfg, err := LoadArgs([]string{"--config", writeConfig(t, "")}, []string{
		"SQS_ADMIN_MAX_MESSAGES=lots",
		"SQS_ADMIN_SETTLE_DELAY=soon",
		"SQS_ADMIN_FOOTER=maybe",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxMessages, cfg.App.MaxMessages)
	assert.Equal(t, DefaultSettleDelay, cfg.App.SettleDelay)
	assert.True(t, cfg.App.ShowFooter)
}

func TestValidate(t *testing.T) {
	good, err := LoadArgs([]string{"--config", writeConfig(t, "")}, nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty region", func(c *Config) { c.App.Region = " " }},
		{"negative poll", func(c *Config) { c.App.PollInterval = -time.Second }},
		{"negative settle", func(c *Config) { c.App.SettleDelay = -time.Second }},
		{"negative request interval", func(c *Config) { c.App.RequestInterval = -time.Millisecond }},
		{"zero max messages", func(c *Config) { c.App.MaxMessages = 0 }},
		{"too many messages", func(c *Config) { c.App.MaxMessages = 11 }},
		{"visibility too long", func(c *Config) { c.App.VisibilityTimeout = maxVisibilityTimeout + 1 }},
		{"access key alone", func(c *Config) { c.App.AccessKey = "AKIA" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := good
			tt.mutate(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}

	disabled := good
	disabled.App.PollInterval = 0
	disabled.App.SettleDelay = 0
	assert.NoError(t, Validate(disabled))
}
