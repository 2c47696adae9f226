package parameter

import "time"

// Console Layout
const (
	// BottomMargin for status bar (1 line for command input, 1 line for status)
	BottomMargin = 2

	// TopMargin for title bar
	TopMargin = 1

	// ParamColumnWidth is the width of the parameter name column
	ParamColumnWidth = 24
)

// Console Status
const (
	ModeTextNormal  = " NORMAL "
	ModeTextCommand = "  CMD   "

	// AudioStr marks audible cues as enabled in the status bar
	AudioStr = "♫ "

	// CommandStatusMessageTimeout is how long command status messages are displayed
	CommandStatusMessageTimeout = 3 * time.Second

	// StatusCursorChar is the command line cursor
	StatusCursorChar = '█'

	// ConsoleRedrawInterval refreshes the readout between key presses
	ConsoleRedrawInterval = 100 * time.Millisecond

	// CueVolume is the linear volume of accept/reject cues
	CueVolume = 0.5
)

// IPC
const (
	// DefaultListenAddr is the control server bind address
	DefaultListenAddr = "127.0.0.1:7341"

	// WebsocketWriteTimeout bounds each event push to a subscriber
	WebsocketWriteTimeout = 2 * time.Second

	// SubscriberBuffer is the config event backlog held per websocket client
	SubscriberBuffer = 16

	// ReadHeaderTimeout bounds request header reads on the control server
	ReadHeaderTimeout = 5 * time.Second

	// ShutdownTimeout bounds graceful control server shutdown
	ShutdownTimeout = 3 * time.Second

	// MaxScriptBytes caps uploaded directive scripts
	MaxScriptBytes = 1 << 20
)
