package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/sqs-admin-tui/internal/app"
	"github.com/atomicstack/sqs-admin-tui/internal/config"
	"github.com/atomicstack/sqs-admin-tui/internal/logging"
	"github.com/atomicstack/sqs-admin-tui/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	traceStartup(runtimeCfg)

	if err := app.Run(runtimeCfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles the effective configuration with the terminal
// the console is about to draw on.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	safe := cfg
	safe.App.SecretKey = cfg.Flags["secretKey"]
	return map[string]interface{}{
		"argv":     cfg.Args,
		"flags":    flags,
		"config":   safe,
		"terminal": describeTerminal(int(os.Stdout.Fd()), cfg.App),
	}
}

// terminalInfo records whether the output is a terminal and which size the
// view starts with.
type terminalInfo struct {
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	FixedSize  bool   `json:"fixed_size"`
	Error      string `json:"error,omitempty"`
}

func describeTerminal(fd int, cfg app.Config) terminalInfo {
	info := terminalInfo{FixedSize: cfg.Width > 0 && cfg.Height > 0}
	if fd >= 0 && term.IsTerminal(fd) {
		info.IsTerminal = true
		if width, height, err := term.GetSize(fd); err == nil {
			info.Width, info.Height = width, height
		} else {
			info.Error = err.Error()
		}
	}
	if cfg.Width > 0 {
		info.Width = cfg.Width
	}
	if cfg.Height > 0 {
		info.Height = cfg.Height
	}
	return info
}
