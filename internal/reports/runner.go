// Package reports runs external report-generation scripts.
package reports

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/config"
)

// ErrUnknownReport is returned when no script is configured under the
// requested name.
var ErrUnknownReport = errors.New("unknown report")

// Result is the outcome of one report run.
type Result struct {
	Name     string        `json:"name"`
	Output   string        `json:"output"`
	Duration time.Duration `json:"duration"`
}

// Runner executes a named report. Implementations must be safe for
// concurrent use.
type Runner interface {
	Run(ctx context.Context, name string) (Result, error)
	Names() []string
}

// ExecRunner runs configured report scripts through the shell with a
// timeout ceiling. A nonzero exit or timeout is an error result, never
// a crash, and scripts are never retried.
type ExecRunner struct {
	scripts map[string]string
	timeout time.Duration
	logger  *zap.Logger
}

// NewExecRunner builds a runner from reports configuration.
func NewExecRunner(cfg config.ReportsConfig, logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{
		scripts: cfg.Scripts,
		timeout: cfg.Timeout.Duration(),
		logger:  logger,
	}
}

// Names returns the configured report names, sorted.
func (r *ExecRunner) Names() []string {
	names := make([]string, 0, len(r.scripts))
	for name := range r.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the named report script and returns its output.
func (r *ExecRunner) Run(ctx context.Context, name string) (Result, error) {
	script, ok := r.scripts[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownReport, name)
	}

	timeout := r.timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", script)
	out, err := cmd.CombinedOutput()
	elapsed := time.Since(start)

	if err != nil {
		r.logger.Error("report script failed",
			zap.String("report", name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return Result{Name: name, Output: string(out), Duration: elapsed},
			fmt.Errorf("report %s failed: %w", name, err)
	}

	r.logger.Info("report generated",
		zap.String("report", name),
		zap.Duration("elapsed", elapsed))
	return Result{Name: name, Output: string(out), Duration: elapsed}, nil
}
