package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ping struct{ N int }
type pong struct{ N int }

func TestEventsDeliveredAfterSwap(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(p ping) { got = append(got, p.N) })

	Emit(b, ping{1})
	Emit(b, ping{2})
	assert.Equal(t, 2, b.Pending())

	b.DispatchAll()
	assert.Empty(t, got, "nothing is delivered before the swap")

	b.SwapBuffers()
	assert.Zero(t, b.Pending())
	b.DispatchAll()
	assert.Equal(t, []int{1, 2}, got)

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []int{1, 2}, got, "events are delivered once")
}

func TestDeliveryOrderFollowsFirstEmission(t *testing.T) {
	b := NewBus()
	var log []string
	Subscribe(b, func(ping) { log = append(log, "ping") })
	Subscribe(b, func(pong) { log = append(log, "pong") })

	Emit(b, pong{})
	Emit(b, ping{})
	Emit(b, pong{})
	b.SwapBuffers()
	b.DispatchAll()

	assert.Equal(t, []string{"pong", "pong", "ping"}, log)
}

func TestHandlerEmitsForNextFrame(t *testing.T) {
	b := NewBus()
	var pongs int
	Subscribe(b, func(p ping) { Emit(b, pong{p.N}) })
	Subscribe(b, func(pong) { pongs++ })

	Emit(b, ping{1})
	b.SwapBuffers()
	b.DispatchAll()
	assert.Zero(t, pongs)
	assert.Equal(t, 1, b.Pending())

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, 1, pongs)
}

func TestEmitOnNilBusIsNoop(t *testing.T) {
	var b *Bus
	assert.NotPanics(t, func() { Emit(b, ping{}) })
}

func TestClearDropsQueuedEvents(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(p ping) { got = append(got, p.N) })

	Emit(b, ping{1})
	b.SwapBuffers()
	Emit(b, ping{2})
	b.Clear()
	assert.Zero(t, b.Pending())

	b.DispatchAll()
	b.SwapBuffers()
	b.DispatchAll()
	assert.Empty(t, got)

	Emit(b, ping{3})
	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []int{3}, got, "subscriptions survive")
}
