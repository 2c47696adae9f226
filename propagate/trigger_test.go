package propagate

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/liquid-glass/event"
	"github.com/lixenwraith/liquid-glass/glass"
	"github.com/lixenwraith/liquid-glass/parameter"
)

type fixedGen uint64

func (g fixedGen) Generation() uint64 { return uint64(g) }

func newTestTrigger(gen uint64) *Trigger {
	return NewTrigger(event.NewQueue(), fixedGen(gen), zerolog.Nop())
}

func TestDrainEmpty(t *testing.T) {
	tr := newTestTrigger(0)
	p := tr.Drain()
	assert.True(t, p.Empty())
	assert.Equal(t, 0, tr.Outstanding())
}

func TestDrainNodesCoalesced(t *testing.T) {
	tr := newTestTrigger(3)
	tr.Node(7)
	tr.Node(2)
	tr.Node(7)
	assert.Equal(t, 3, tr.Outstanding())

	p := tr.Drain()
	assert.False(t, p.Full)
	assert.Equal(t, []glass.NodeID{2, 7}, p.Nodes)
	assert.Equal(t, uint64(3), p.Generation)
	assert.True(t, tr.Drain().Empty(), "drain consumes requests")
}

func TestDrainFullSubsumesNodes(t *testing.T) {
	tr := newTestTrigger(1)
	tr.Node(4)
	tr.Full()
	tr.Node(5)

	p := tr.Drain()
	assert.True(t, p.Full)
	assert.Nil(t, p.Nodes)
}

func TestDrainOverflowEscalates(t *testing.T) {
	tr := newTestTrigger(1)
	before := testutil.ToFloat64(propagationOverflowsTotal)
	for i := 0; i < parameter.EventQueueSize+1; i++ {
		tr.Node(glass.NodeID(i + 1))
	}

	p := tr.Drain()
	assert.True(t, p.Full)
	assert.Equal(t, before+1, testutil.ToFloat64(propagationOverflowsTotal))
}

func TestRequestCounters(t *testing.T) {
	full := testutil.ToFloat64(propagationRequestsTotal.WithLabelValues(levelFull))
	node := testutil.ToFloat64(propagationRequestsTotal.WithLabelValues(levelNode))

	tr := newTestTrigger(0)
	tr.Full()
	tr.Node(1)
	tr.Node(2)

	assert.Equal(t, full+1, testutil.ToFloat64(propagationRequestsTotal.WithLabelValues(levelFull)))
	assert.Equal(t, node+2, testutil.ToFloat64(propagationRequestsTotal.WithLabelValues(levelNode)))
}
