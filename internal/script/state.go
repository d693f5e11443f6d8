package script

// State is the current script: an ordered list of lines. It is modified
// only through Apply, so every user action is a discrete command and clip
// invalidation is explicit rather than hidden in UI callbacks.
type State struct {
	Lines []Line
}

// Command is one discrete user action applied to the script state
type Command interface {
	isCommand()
}

// Append adds a line at the end of the script
type Append struct {
	Line Line
}

// Remove deletes the line with the given ID
type Remove struct {
	LineID string
}

// SetVoice changes the voice of one line; its clip becomes stale
type SetVoice struct {
	LineID  string
	VoiceID string
}

// SetText changes the text of one line; its clip becomes stale
type SetText struct {
	LineID string
	Text   string
}

// SetSpeaker renames the speaker of one line; its clip slot moves
type SetSpeaker struct {
	LineID  string
	Speaker string
}

// SetParams changes the per-line synthesis parameters
type SetParams struct {
	LineID       string
	Stability    float64
	Speed        float64
	Style        float64
	SpeakerBoost bool
}

// Replace swaps the whole script, e.g. after a new file upload
type Replace struct {
	Lines []Line
}

// Clear empties the script
type Clear struct{}

func (Append) isCommand()     {}
func (Remove) isCommand()     {}
func (SetVoice) isCommand()   {}
func (SetText) isCommand()    {}
func (SetSpeaker) isCommand() {}
func (SetParams) isCommand()  {}
func (Replace) isCommand()    {}
func (Clear) isCommand()      {}

// Apply returns the next state and the owner keys whose clips are no longer
// valid and must be released by the caller. The input state is not mutated.
func Apply(s State, cmd Command) (State, []string) {
	switch c := cmd.(type) {
	case Append:
		next := State{Lines: append(copyLines(s.Lines), c.Line)}
		return next, nil

	case Remove:
		next := State{Lines: make([]Line, 0, len(s.Lines))}
		var stale []string
		for _, l := range s.Lines {
			if l.ID == c.LineID {
				stale = append(stale, l.OwnerKey())
				continue
			}
			next.Lines = append(next.Lines, l)
		}
		return next, stale

	case SetVoice:
		return updateLine(s, c.LineID, func(l Line) Line {
			l.VoiceID = c.VoiceID
			return l
		})

	case SetText:
		return updateLine(s, c.LineID, func(l Line) Line {
			l.Text = c.Text
			return l
		})

	case SetSpeaker:
		return updateLine(s, c.LineID, func(l Line) Line {
			l.Speaker = c.Speaker
			return l
		})

	case SetParams:
		return updateLine(s, c.LineID, func(l Line) Line {
			l.Stability = c.Stability
			l.Speed = c.Speed
			l.Style = c.Style
			l.SpeakerBoost = c.SpeakerBoost
			return l
		})

	case Replace:
		return State{Lines: copyLines(c.Lines)}, allKeys(s.Lines)

	case Clear:
		return State{}, allKeys(s.Lines)

	default:
		return s, nil
	}
}

// updateLine applies fn to the matching line. Any edit makes the line's
// previous clip stale: the old owner key is reported for release.
func updateLine(s State, lineID string, fn func(Line) Line) (State, []string) {
	next := State{Lines: copyLines(s.Lines)}
	var stale []string
	for i, l := range next.Lines {
		if l.ID == lineID {
			stale = append(stale, l.OwnerKey())
			next.Lines[i] = fn(l)
			break
		}
	}
	return next, stale
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

func allKeys(lines []Line) []string {
	keys := make([]string, 0, len(lines))
	for _, l := range lines {
		keys = append(keys, l.OwnerKey())
	}
	return keys
}
