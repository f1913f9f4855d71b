// Package generator provides domain.QuizGenerator adapters. Both return
// the raw text a model produced; validation belongs to the parser.
package generator

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/logger"
)

// SubprocessGenerator runs an external command per request. The topic
// is written to the process stdin and the raw quiz text is read from
// its stdout.
type SubprocessGenerator struct {
	command string
	args    []string
	timeout time.Duration
}

// NewSubprocessGenerator creates a generator around the given command
func NewSubprocessGenerator(command string, args []string, timeout time.Duration) *SubprocessGenerator {
	return &SubprocessGenerator{command: command, args: args, timeout: timeout}
}

// Generate runs the command and returns its full stdout. A non-zero
// exit or a timeout yields a GENERATOR_FAILED error; stderr is logged,
// never returned to callers.
func (g *SubprocessGenerator) Generate(ctx context.Context, topic string) (string, error) {
	log := logger.Get()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, g.command, g.args...)
	cmd.Stdin = strings.NewReader(topic)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return "", domain.NewError(domain.CodeGeneratorFailed, "failed to attach to generator output", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", domain.NewError(domain.CodeGeneratorFailed, "failed to attach to generator output", err)
	}

	if err := cmd.Start(); err != nil {
		return "", domain.NewError(domain.CodeGeneratorFailed, "failed to start generator process", err)
	}

	var stdout, stderr bytes.Buffer
	group := new(errgroup.Group)
	group.Go(func() error {
		_, err := io.Copy(&stdout, stdoutPipe)
		return err
	})
	group.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return err
	})

	drainErr := group.Wait()
	waitErr := cmd.Wait()

	if waitErr != nil || drainErr != nil {
		log.Error("quiz generator process failed",
			zap.String("command", g.command),
			zap.String("topic", topic),
			zap.String("stderr", stderr.String()),
			zap.NamedError("wait_error", waitErr),
			zap.NamedError("drain_error", drainErr))
		if ctx.Err() != nil {
			return "", domain.NewError(domain.CodeGeneratorFailed, "generator timed out", ctx.Err())
		}
		err := waitErr
		if err == nil {
			err = drainErr
		}
		return "", domain.NewGeneratorError(err)
	}

	log.Debug("quiz generator produced output",
		zap.String("topic", topic),
		zap.Int("bytes", stdout.Len()))
	return stdout.String(), nil
}
