package session

import (
	"fmt"
	"strings"
)

// IncompleteScriptError means a merge was attempted while at least one
// script line has no live clip. The merge never proceeds partially.
type IncompleteScriptError struct {
	Missing []string // speaker names of lines without a clip, in script order
}

func (e *IncompleteScriptError) Error() string {
	if len(e.Missing) == 0 {
		return "session: merge blocked: script is empty"
	}
	return fmt.Sprintf("session: merge blocked: no clip for %s", strings.Join(e.Missing, ", "))
}

// LineError attributes a synthesis or decode failure to one script line so
// the caller can report a targeted message.
type LineError struct {
	Speaker string
	Index   int // 0-based position in the script
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("session: line %d (%s): %v", e.Index+1, e.Speaker, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
