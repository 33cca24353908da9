package vm

import "errors"

// ---------------------------------------------------------------------------
// UI: the sole external collaborator referenced by opcodes
// ---------------------------------------------------------------------------

// ErrEndSession may be returned from a UI input call to request termination.
// The machine treats it as a normal quit and unwinds cleanly between
// instructions.
var ErrEndSession = errors.New("vm: end of session")

// UI is the boundary to the windowing/terminal layer. Units for cursor
// positions and string widths are UI-defined but stable for a session.
// Errors from the UI propagate as machine failures.
type UI interface {
	// PrintString writes decoded text to the current window.
	PrintString(s string) error
	// PrintChar writes a single character to the current window.
	PrintChar(c rune) error
	// ReadLine blocks for a line of input of at most maxLen characters and
	// returns it with its terminator.
	ReadLine(maxLen int) (string, rune, error)
	// ReadChar blocks for a single character of input.
	ReadChar() (rune, error)
	// SetCursor moves the cursor within the current window (1-based).
	SetCursor(x, y int) error
	// SetWindow selects the window receiving output.
	SetWindow(n int) error
	// EraseWindow clears a window.
	EraseWindow(n int) error
	// ScrollRegion reserves the given rectangle as the scrolling region.
	ScrollRegion(x, y, w, h int) error
	// StringWidth measures s in UI units.
	StringWidth(s string) (int, error)
	// ScreenSize reports the display size in characters.
	ScreenSize() (width, height int)
	// Save persists a snapshot; false means the player declined.
	Save(snap *Snapshot) (bool, error)
	// Restore produces a previously saved snapshot, or nil for none.
	Restore() (*Snapshot, error)
}
