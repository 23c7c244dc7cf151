package client

// UI is the minimal surface the command table and controller need from a
// terminal front-end, simplified from the teacher's per-buffer UI
// interface (serialui/ui.go's ColorMsg/Msg/Error/ReadLine/SetCurrentBuffer)
// down to the single global scrollback this system's data model specifies
// (spec section 3 describes exactly one scrollback, not one per buffer).
type UI interface {
	// Msg appends a formatted line to the scrollback.
	Msg(format string, args ...interface{})

	// Error appends a formatted error line to the scrollback, styled
	// distinctly from Msg by the concrete UI.
	Error(format string, args ...interface{})

	// Status updates the status/header line (connection state, pending
	// scrollback notifications, etc.).
	Status(format string, args ...interface{})
}
