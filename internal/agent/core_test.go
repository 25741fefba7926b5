package agent

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foundry/internal/remote"
	"foundry/internal/tools"
)

func newCountingTool(name string, calls *int32, params []tools.Parameter) tools.Tool {
	return tools.New(name, "counting tool", params, func(ctx context.Context, args map[string]interface{}) remote.Result {
		atomic.AddInt32(calls, 1)
		return remote.Success(map[string]interface{}{"echo": args})
	})
}

func TestCore_InvokeTool(t *testing.T) {
	t.Run("dispatches with arguments unmodified", func(t *testing.T) {
		registry := tools.NewRegistry()

		var got map[string]interface{}
		capture := tools.New("echo", "echoes args", nil, func(ctx context.Context, args map[string]interface{}) remote.Result {
			got = args
			return remote.Success(nil)
		})
		require.NoError(t, registry.Register(capture))

		core := NewCore(registry)
		args := map[string]interface{}{"a": "1", "nested": map[string]interface{}{"b": 2.0}}

		result := core.InvokeTool(context.Background(), "echo", args)
		require.True(t, result.OK())
		assert.Equal(t, args, got)
	})

	t.Run("unknown tool without dispatch", func(t *testing.T) {
		registry := tools.NewRegistry()
		var calls int32
		require.NoError(t, registry.Register(newCountingTool("known", &calls, nil)))

		core := NewCore(registry)
		result := core.InvokeTool(context.Background(), "missing", nil)

		assert.Equal(t, remote.StatusError, result.Status)
		assert.Equal(t, remote.ErrorUnknownTool, result.ErrorKind)
		assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
	})

	t.Run("invalid arguments without dispatch", func(t *testing.T) {
		registry := tools.NewRegistry()
		var calls int32
		params := []tools.Parameter{
			{Name: "query", Type: tools.TypeString, Required: true},
		}
		require.NoError(t, registry.Register(newCountingTool("search", &calls, params)))

		core := NewCore(registry)

		result := core.InvokeTool(context.Background(), "search", map[string]interface{}{})
		assert.Equal(t, remote.ErrorInvalidArguments, result.ErrorKind)

		result = core.InvokeTool(context.Background(), "search", map[string]interface{}{"query": 5})
		assert.Equal(t, remote.ErrorInvalidArguments, result.ErrorKind)

		assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
	})

	t.Run("nil args validate against optional-only params", func(t *testing.T) {
		registry := tools.NewRegistry()
		var calls int32
		params := []tools.Parameter{
			{Name: "limit", Type: tools.TypeInteger},
		}
		require.NoError(t, registry.Register(newCountingTool("list", &calls, params)))

		core := NewCore(registry)
		result := core.InvokeTool(context.Background(), "list", nil)

		require.True(t, result.OK())
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})

	t.Run("panicking tool yields internal error", func(t *testing.T) {
		registry := tools.NewRegistry()
		boom := tools.New("boom", "always panics", nil, func(ctx context.Context, args map[string]interface{}) remote.Result {
			panic("kaboom")
		})
		require.NoError(t, registry.Register(boom))

		core := NewCore(registry)
		result := core.InvokeTool(context.Background(), "boom", nil)

		assert.Equal(t, remote.StatusError, result.Status)
		assert.Equal(t, remote.ErrorInternal, result.ErrorKind)
		assert.Contains(t, result.ErrorMessage, "kaboom")
	})
}
