// Package notify delivers desktop notifications through an external
// command, with a console fallback when no command is available.
package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/trackd/internal/config"
)

// ErrUnavailable reports that no notification command could be found
// on the host. The message has already been written to the log as a
// fallback; callers that only need best-effort delivery may ignore it.
var ErrUnavailable = errors.New("no notification command available")

// Sink delivers a single notification. Implementations must be safe
// for concurrent use.
type Sink interface {
	Notify(ctx context.Context, title, message string) error
}

// ExecSink shells out to a platform notification command such as
// notify-send. When the command is missing the notification is logged
// instead of delivered and ErrUnavailable reported. Deliveries are
// rate limited so a misconfigured reminder cannot flood the desktop.
type ExecSink struct {
	command string
	args    []string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger

	// resolve is swapped in tests to avoid depending on PATH contents.
	resolve func(string) (string, error)
}

// NewExecSink builds a sink from notify configuration.
func NewExecSink(cfg config.NotifyConfig, logger *zap.Logger) *ExecSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	perMinute := cfg.RatePerMinute
	if perMinute <= 0 {
		perMinute = 12
	}
	return &ExecSink{
		command: cfg.Command,
		args:    cfg.Args,
		timeout: cfg.Timeout.Duration(),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		logger:  logger,
		resolve: exec.LookPath,
	}
}

// Notify delivers one notification. A rate-limited send degrades to a
// log line and returns nil; a missing command logs the message and
// returns ErrUnavailable so callers can surface the absent mechanism.
func (s *ExecSink) Notify(ctx context.Context, title, message string) error {
	if !s.limiter.Allow() {
		s.logger.Warn("notification dropped by rate limit", zap.String("title", title))
		return nil
	}

	path := ""
	if s.command != "" {
		p, err := s.resolve(s.command)
		if err == nil {
			path = p
		}
	}
	if path == "" {
		s.logger.Info("notification (console fallback)",
			zap.String("title", title),
			zap.String("message", message))
		return ErrUnavailable
	}

	timeout := s.timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, s.args...), title, message)
	cmd := exec.CommandContext(ctx, path, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("notification command failed: %w (output: %s)", err, out)
	}

	s.logger.Debug("notification delivered", zap.String("title", title))
	return nil
}
