package eventbus

import (
	"TurnstileCore/internal/core/ports"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHook captures hook calls so tests can assert on them.
type recordingHook struct {
	added    int
	removed  int
	emitted  []ports.EventName
	failures []error
}

func (h *recordingHook) ListenerAdded(ports.EventName, *ports.Listener) { h.added++ }
func (h *recordingHook) ListenerRemoved(_ ports.EventName, _ *ports.Listener, n int) {
	h.removed += n
}
func (h *recordingHook) Emitted(name ports.EventName, _ int) { h.emitted = append(h.emitted, name) }
func (h *recordingHook) ListenerFailed(_ ports.EventName, _ *ports.Listener, err error) {
	h.failures = append(h.failures, err)
}

// callLog records which listener got which args, in call order.
type callLog struct {
	names []string
	args  [][]any
}

func (c *callLog) listener(name string) *ports.Listener {
	return ports.NewListener(func(_ context.Context, event ports.Event) error {
		c.names = append(c.names, name)
		c.args = append(c.args, event.Args)
		return nil
	})
}

func TestEmitter_UnknownEvent_IsNoOp(t *testing.T) {
	hook := &recordingHook{}
	emitter := NewInMemoryEmitter(hook)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		emitter.Emit(ctx, "never-registered", "x")
		emitter.Off("never-registered", ports.NewListener(nil))
	})

	assert.Equal(t, 0, emitter.ListenerCount("never-registered"))
	assert.Empty(t, hook.emitted, "emit of an unknown event must not reach the hook")
	assert.Zero(t, hook.removed)
}

func TestEmitter_Emit_RegistrationOrder(t *testing.T) {
	emitter := NewInMemoryEmitter(nil)
	calls := &callLog{}

	emitter.On("ping", calls.listener("l1"))
	emitter.On("ping", calls.listener("l2"))
	emitter.Emit(context.Background(), "ping", "x")

	assert.Equal(t, []string{"l1", "l2"}, calls.names)
	assert.Equal(t, [][]any{{"x"}, {"x"}}, calls.args)
}

func TestEmitter_Emit_PassesArgsPositionally(t *testing.T) {
	emitter := NewInMemoryEmitter(nil)
	var got ports.Event
	emitter.On("multi", ports.NewListener(func(_ context.Context, event ports.Event) error {
		got = event
		return nil
	}))

	emitter.Emit(context.Background(), "multi", "a", 2, nil)

	assert.Equal(t, ports.EventName("multi"), got.Name)
	assert.Equal(t, []any{"a", 2, nil}, got.Args)
}

func TestEmitter_Off_RemovesAllOccurrences(t *testing.T) {
	hook := &recordingHook{}
	emitter := NewInMemoryEmitter(hook)
	calls := &callLog{}
	dup := calls.listener("dup")

	emitter.On("e", dup)
	emitter.On("e", dup)
	require.Equal(t, 2, emitter.ListenerCount("e"))

	emitter.Emit(context.Background(), "e")
	assert.Len(t, calls.names, 2, "a duplicated listener is called once per registration")

	emitter.Off("e", dup)
	assert.Equal(t, 0, emitter.ListenerCount("e"))
	assert.Equal(t, 2, hook.removed)

	emitter.Emit(context.Background(), "e")
	assert.Len(t, calls.names, 2, "listener must not be called after Off")
}

func TestEmitter_Off_UnknownListener_LeavesSequence(t *testing.T) {
	hook := &recordingHook{}
	emitter := NewInMemoryEmitter(hook)
	calls := &callLog{}

	emitter.On("e", calls.listener("l1"))
	emitter.On("e", calls.listener("l2"))

	emitter.Off("e", calls.listener("stranger"))

	assert.Equal(t, 2, emitter.ListenerCount("e"))
	assert.Zero(t, hook.removed)

	emitter.Emit(context.Background(), "e")
	assert.Equal(t, []string{"l1", "l2"}, calls.names)
}

func TestEmitter_On_NilListenerIgnored(t *testing.T) {
	hook := &recordingHook{}
	emitter := NewInMemoryEmitter(hook)

	emitter.On("e", nil)

	assert.Equal(t, 0, emitter.ListenerCount("e"))
	assert.Zero(t, hook.added)
}

func TestEmitter_SelfRemovalDuringEmit(t *testing.T) {
	emitter := NewInMemoryEmitter(nil)
	ctx := context.Background()
	calls := &callLog{}

	var self *ports.Listener
	self = ports.NewListener(func(_ context.Context, _ ports.Event) error {
		calls.names = append(calls.names, "self")
		emitter.Off("e", self)
		return nil
	})

	emitter.On("e", calls.listener("before"))
	emitter.On("e", self)
	emitter.On("e", calls.listener("after"))

	require.NotPanics(t, func() { emitter.Emit(ctx, "e") })
	assert.Equal(t, []string{"before", "self", "after"}, calls.names)

	calls.names = nil
	emitter.Emit(ctx, "e")
	assert.Equal(t, []string{"before", "after"}, calls.names)
}

func TestEmitter_RemovingLaterListenerDuringEmit_StillDelivered(t *testing.T) {
	emitter := NewInMemoryEmitter(nil)
	ctx := context.Background()
	calls := &callLog{}
	later := calls.listener("later")

	emitter.On("e", ports.NewListener(func(_ context.Context, _ ports.Event) error {
		emitter.Off("e", later)
		return nil
	}))
	emitter.On("e", later)

	emitter.Emit(ctx, "e")
	assert.Equal(t, []string{"later"}, calls.names, "the snapshot of the running emit is stable")

	emitter.Emit(ctx, "e")
	assert.Equal(t, []string{"later"}, calls.names)
}

func TestEmitter_AddingDuringEmit_NotDeliveredUntilNextEmit(t *testing.T) {
	emitter := NewInMemoryEmitter(nil)
	ctx := context.Background()
	calls := &callLog{}
	added := calls.listener("added")

	emitter.On("e", ports.NewListener(func(_ context.Context, _ ports.Event) error {
		emitter.On("e", added)
		return nil
	}))

	emitter.Emit(ctx, "e")
	assert.Empty(t, calls.names)

	emitter.Emit(ctx, "e")
	assert.Equal(t, []string{"added"}, calls.names)
}

func TestEmitter_FailingListener_DoesNotStopDelivery(t *testing.T) {
	hook := &recordingHook{}
	emitter := NewInMemoryEmitter(hook)
	calls := &callLog{}
	boom := errors.New("boom")

	emitter.On("e", ports.NewListener(func(_ context.Context, _ ports.Event) error {
		return boom
	}))
	emitter.On("e", ports.NewListener(func(_ context.Context, _ ports.Event) error {
		panic("listener exploded")
	}))
	emitter.On("e", calls.listener("survivor"))

	require.NotPanics(t, func() { emitter.Emit(context.Background(), "e") })

	assert.Equal(t, []string{"survivor"}, calls.names)
	require.Len(t, hook.failures, 2)
	assert.ErrorIs(t, hook.failures[0], boom)
	assert.ErrorIs(t, hook.failures[1], ports.ErrListenerPanic)
	assert.Contains(t, hook.failures[1].Error(), "listener exploded")
	assert.Equal(t, []ports.EventName{"e"}, hook.emitted)
}

func TestEmitter_VerifiedTokenScenario(t *testing.T) {
	emitter := NewInMemoryEmitter(nil)
	ctx := context.Background()

	var tokens []string
	recordToken := ports.NewListener(func(_ context.Context, event ports.Event) error {
		tokens = append(tokens, event.Args[0].(string))
		return nil
	})

	emitter.On("verified", recordToken)
	emitter.Emit(ctx, "verified", "tok123")
	assert.Equal(t, []string{"tok123"}, tokens)

	emitter.Off("verified", recordToken)
	emitter.Emit(ctx, "verified", "tok456")
	assert.Equal(t, []string{"tok123"}, tokens)
}

func TestLogHook_WritesFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	emitter := NewInMemoryEmitter(NewLogHook(&logger))

	l := ports.NewListener(func(_ context.Context, _ ports.Event) error {
		return errors.New("listener broke")
	})
	emitter.On("verified", l)
	emitter.Emit(context.Background(), "verified")
	emitter.Off("verified", l)

	out := buf.String()
	assert.Contains(t, out, `"component":"in_memory_emitter"`)
	assert.Contains(t, out, "Listener added")
	assert.Contains(t, out, "listener broke")
	assert.Contains(t, out, "Event emitted")
	assert.Contains(t, out, "Listener removed")
	assert.Contains(t, out, l.ID().String())
}

func TestDefault_ReturnsSameInstance(t *testing.T) {
	first := Default()
	second := Default()
	require.NotNil(t, first)
	assert.Same(t, first, second)

	l := ports.NewListener(nil)
	first.On("default-test", l)
	assert.Equal(t, 1, second.ListenerCount("default-test"))
	second.Off("default-test", l)
}
