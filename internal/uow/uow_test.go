package uow

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunHooks(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("runs in order past a panic", func(t *testing.T) {
		var got []int
		runHooks(context.Background(), log, []AfterCommit{
			func(context.Context) { got = append(got, 1) },
			func(context.Context) { panic("boom") },
			func(context.Context) { got = append(got, 3) },
		})
		assert.Equal(t, []int{1, 3}, got)
	})

	t.Run("context survives cancellation of the request", func(t *testing.T) {
		reqCtx, cancel := context.WithCancel(context.Background())
		cancel()

		var hookErr error
		runHooks(context.WithoutCancel(reqCtx), log, []AfterCommit{
			func(ctx context.Context) { hookErr = ctx.Err() },
		})
		assert.NoError(t, hookErr)
	})
}
