package parameter

import "time"

// Frame Loop Timing
const (
	// FrameUpdateInterval is the frame production interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// DirectiveQueueSize is the buffered depth of the directive submission channel
	DirectiveQueueSize = 64
)

// Propagation Limits
const (
	// EventQueueSize is the fixed capacity of the propagation ring buffer
	EventQueueSize = 2048

	// EventBufferMask is the bitmask for fast modulo operations (2048 - 1)
	EventBufferMask = 2047
)
