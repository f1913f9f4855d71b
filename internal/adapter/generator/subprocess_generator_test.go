package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-portal/internal/domain"
)

func TestSubprocessGeneratorReadsStdout(t *testing.T) {
	g := NewSubprocessGenerator("sh", []string{"-c", "cat; echo done"}, 10*time.Second)

	out, err := g.Generate(context.Background(), "Astronomy")
	require.NoError(t, err)
	assert.Equal(t, "Astronomydone\n", out)
}

func TestSubprocessGeneratorNonZeroExit(t *testing.T) {
	g := NewSubprocessGenerator("sh", []string{"-c", "echo boom >&2; exit 3"}, 10*time.Second)

	_, err := g.Generate(context.Background(), "Astronomy")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeGeneratorFailed, domainErr.Code)
	// stderr content is logged, not surfaced.
	assert.NotContains(t, err.Error(), "boom")
}

func TestSubprocessGeneratorTimeout(t *testing.T) {
	g := NewSubprocessGenerator("sh", []string{"-c", "sleep 5"}, 100*time.Millisecond)

	start := time.Now()
	_, err := g.Generate(context.Background(), "Astronomy")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeGeneratorFailed, domainErr.Code)
}

func TestSubprocessGeneratorMissingCommand(t *testing.T) {
	g := NewSubprocessGenerator("definitely-not-a-real-binary", nil, time.Second)

	_, err := g.Generate(context.Background(), "Astronomy")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeGeneratorFailed, domainErr.Code)
}
