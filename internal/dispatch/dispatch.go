package dispatch

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/session-sentry/sentry/internal/config"
	"github.com/session-sentry/sentry/internal/wts"
)

// Dispatcher maps each session event to its configured reaction command
// and runs it. Reactions run off the event loop so a slow command never
// stalls message retrieval.
type Dispatcher struct {
	actions map[wts.Event]string
	timeout time.Duration
	log     zerolog.Logger
}

// New validates the configured actions against the known event names.
func New(cfg config.DispatchConfig, log zerolog.Logger) (*Dispatcher, error) {
	actions := make(map[wts.Event]string)
	for name, cmd := range cfg.Actions {
		ev, ok := wts.EventFromName(name)
		if !ok {
			return nil, fmt.Errorf("unknown event %q in dispatch actions", name)
		}
		if cmd != "" {
			actions[ev] = cmd
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Dispatcher{
		actions: actions,
		timeout: timeout,
		log:     log,
	}, nil
}

// ActionCount reports how many events have a configured reaction.
func (d *Dispatcher) ActionCount() int {
	return len(d.actions)
}

// Handle reacts to one observed event. Events without a configured
// command are ignored.
func (d *Dispatcher) Handle(ev wts.Event) {
	cmd, ok := d.actions[ev]
	if !ok {
		d.log.Debug().Stringer("event", ev).Msg("no reaction configured")
		return
	}
	go d.run(ev, cmd)
}

func (d *Dispatcher) run(ev wts.Event, command string) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	shell, flag := systemShell()
	out, err := exec.CommandContext(ctx, shell, flag, command).CombinedOutput()
	if err != nil {
		d.log.Error().
			Stringer("event", ev).
			Str("command", command).
			Err(err).
			Bytes("output", out).
			Msg("reaction failed")
		return
	}
	d.log.Info().
		Stringer("event", ev).
		Str("command", command).
		Msg("reaction ran")
}

func systemShell() (string, string) {
	if runtime.GOOS == "windows" {
		return "cmd", "/C"
	}
	return "sh", "-c"
}
