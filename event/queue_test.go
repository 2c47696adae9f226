package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/liquid-glass/glass"
	"github.com/lixenwraith/liquid-glass/parameter"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	q.Push(Event{Type: EventNodeDirty, Node: 1})
	q.Push(Event{Type: EventArrangeRoot})
	q.Push(Event{Type: EventNodeDirty, Node: 2})
	assert.Equal(t, 3, q.Len())

	events, lost := q.Consume()
	assert.False(t, lost)
	require.Len(t, events, 3)
	assert.Equal(t, glass.NodeID(1), events[0].Node)
	assert.Equal(t, EventArrangeRoot, events[1].Type)
	assert.Equal(t, glass.NodeID(2), events[2].Node)

	events, lost = q.Consume()
	assert.Nil(t, events)
	assert.False(t, lost)
	assert.Equal(t, 0, q.Len())
}

func TestQueueOverflowReportsLoss(t *testing.T) {
	q := NewQueue()
	total := parameter.EventQueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(Event{Type: EventNodeDirty, Node: glass.NodeID(i + 1)})
	}

	events, lost := q.Consume()
	assert.True(t, lost)
	require.Len(t, events, parameter.EventQueueSize)
	assert.Equal(t, glass.NodeID(11), events[0].Node, "oldest events are overwritten")

	_, lost = q.Consume()
	assert.False(t, lost, "loss flag resets after being reported")
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()
	const producers, each = 4, 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				q.Push(Event{Type: EventArrangeRoot})
			}
		}()
	}
	wg.Wait()

	events, lost := q.Consume()
	assert.False(t, lost)
	assert.Len(t, events, producers*each)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "arrange_root", EventArrangeRoot.String())
	assert.Equal(t, "node_dirty", EventNodeDirty.String())
	assert.Equal(t, "unknown", EventType(0).String())
}
