package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/sqs-admin-tui/internal/action"
	"github.com/atomicstack/sqs-admin-tui/internal/backend"
	"github.com/atomicstack/sqs-admin-tui/internal/logging"
	"github.com/atomicstack/sqs-admin-tui/internal/logging/events"
	"github.com/atomicstack/sqs-admin-tui/internal/metrics"
	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
	"github.com/atomicstack/sqs-admin-tui/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
)

// Config describes user-provided application options.
type Config struct {
	Endpoint  string
	Region    string
	Profile   string
	AccessKey string
	SecretKey string

	PollInterval    time.Duration
	SettleDelay     time.Duration
	RequestInterval time.Duration

	MaxMessages       int
	VisibilityTimeout int

	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool

	MetricsListen string
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewRealClock()
	client, err := sqs.NewClient(ctx, sqs.Options{
		Endpoint:          cfg.Endpoint,
		Region:            cfg.Region,
		Profile:           cfg.Profile,
		AccessKey:         cfg.AccessKey,
		SecretKey:         cfg.SecretKey,
		MaxMessages:       int32(cfg.MaxMessages),
		VisibilityTimeout: int32(cfg.VisibilityTimeout),
		RequestInterval:   cfg.RequestInterval,
		Clock:             clock,
	})
	if err != nil {
		return fmt.Errorf("create sqs client: %w", err)
	}

	rt := build(ctx, cfg, client, clock)
	defer rt.watcher.Stop()

	if cfg.MetricsListen != "" {
		go func() {
			if err := rt.metrics.Serve(ctx, cfg.MetricsListen); err != nil {
				logging.Error(fmt.Errorf("metrics listener: %w", err))
			}
		}()
	}

	logging.Info("console started", startupFields(cfg, rt))
	program := tea.NewProgram(rt.model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	events.App.Stop(stopReason(err))
	logging.Info("console stopped", map[string]interface{}{"reason": stopReason(err)})
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

type runtime struct {
	model   *ui.Model
	watcher *backend.Watcher
	metrics *metrics.Recorder
}

// build wires the transport into the dispatcher, scheduler and model.
func build(ctx context.Context, cfg Config, transport sqs.Transport, clock clockwork.Clock) runtime {
	recorder := metrics.New()
	recorder.Preset(actionNames()...)
	watcher := backend.NewWatcher(clock, cfg.PollInterval)
	dispatcher := action.NewDispatcher(transport,
		action.WithContext(ctx),
		action.WithMetrics(recorder),
		action.WithClock(clock),
	)
	model := ui.NewModel(ui.Options{
		Dispatcher:  dispatcher,
		Watcher:     watcher,
		Metrics:     recorder,
		Clock:       clock,
		Region:      cfg.Region,
		SettleDelay: cfg.SettleDelay,
		Width:       cfg.Width,
		Height:      cfg.Height,
		ShowFooter:  cfg.ShowFooter,
		Verbose:     cfg.Verbose,
	})
	return runtime{model: model, watcher: watcher, metrics: recorder}
}

func actionNames() []string {
	actions := sqs.Actions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return names
}

// startupFields summarises the running configuration for the log file.
// Credentials are never included.
func startupFields(cfg Config, rt runtime) map[string]interface{} {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "default"
	}
	return map[string]interface{}{
		"region":       cfg.Region,
		"endpoint":     endpoint,
		"pollInterval": rt.watcher.Interval().String(),
		"settleDelay":  cfg.SettleDelay.String(),
		"metrics":      cfg.MetricsListen,
		"logFile":      logging.Path(),
	}
}

func stopReason(err error) string {
	switch {
	case err == nil:
		return "quit"
	case errors.Is(err, tea.ErrProgramKilled):
		return "killed"
	default:
		return err.Error()
	}
}
