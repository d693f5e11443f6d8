package script

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseError reports a malformed script line by its 1-based line number
type ParseError struct {
	LineNumber int
	Content    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("script line %d: missing \"speaker: text\" separator in %q", e.LineNumber, e.Content)
}

// Parse reads a plain text script, one dialogue entry per line, in the form
// "speaker: text". Blank lines are ignored. The first colon separates the
// speaker from the text; colons inside the text are preserved.
func Parse(r io.Reader) ([]Line, error) {
	var lines []Line

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}

		speaker, text, found := strings.Cut(raw, ":")
		if !found || strings.TrimSpace(speaker) == "" {
			return nil, &ParseError{LineNumber: lineNumber, Content: raw}
		}

		lines = append(lines, NewLine(strings.TrimSpace(speaker), strings.TrimSpace(text)))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	return lines, nil
}
