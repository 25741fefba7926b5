package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foundry/internal/remote"
	"foundry/internal/tools"
)

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("fast tool is unaffected", func(t *testing.T) {
		tool := tools.New("fast", "", nil, func(ctx context.Context, args map[string]interface{}) remote.Result {
			return remote.Success(map[string]interface{}{"ok": true})
		})

		wrapped := TimeoutMiddleware{Timeout: time.Second}.Wrap(tool)
		result := wrapped.Execute(context.Background(), nil)
		assert.True(t, result.OK())
	})

	t.Run("slow tool reports timeout", func(t *testing.T) {
		tool := tools.New("slow", "", nil, func(ctx context.Context, args map[string]interface{}) remote.Result {
			select {
			case <-ctx.Done():
				return remote.Failure(remote.ErrorCancelled, ctx.Err().Error())
			case <-time.After(time.Second):
				return remote.Success(nil)
			}
		})

		wrapped := TimeoutMiddleware{Timeout: 30 * time.Millisecond}.Wrap(tool)
		result := wrapped.Execute(context.Background(), nil)

		require.Equal(t, remote.StatusError, result.Status)
		assert.Equal(t, remote.ErrorTimeout, result.ErrorKind)
	})

	t.Run("caller cancellation stays cancelled", func(t *testing.T) {
		tool := tools.New("slow", "", nil, func(ctx context.Context, args map[string]interface{}) remote.Result {
			<-ctx.Done()
			return remote.Failure(remote.ErrorCancelled, ctx.Err().Error())
		})

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		wrapped := TimeoutMiddleware{Timeout: time.Second}.Wrap(tool)
		result := wrapped.Execute(ctx, nil)
		assert.Equal(t, remote.ErrorCancelled, result.ErrorKind)
	})

	t.Run("zero timeout is a no-op wrap", func(t *testing.T) {
		tool := tools.New("fast", "", nil, func(ctx context.Context, args map[string]interface{}) remote.Result {
			return remote.Success(nil)
		})
		assert.Equal(t, tool, TimeoutMiddleware{}.Wrap(tool))
	})
}

func TestMetricsMiddleware_PassesResultThrough(t *testing.T) {
	tool := tools.New("probe", "", nil, func(ctx context.Context, args map[string]interface{}) remote.Result {
		r := remote.Failure(remote.ErrorServer, "bad gateway")
		r.Attempts = 3
		return r
	})

	wrapped := MetricsMiddleware{}.Wrap(tool)
	result := wrapped.Execute(context.Background(), nil)

	assert.Equal(t, remote.ErrorServer, result.ErrorKind)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "probe", wrapped.Name())
}
