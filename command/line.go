package command

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lixenwraith/liquid-glass/glass"
)

// ParseLine splits a directive line into scope, name and arguments
// Accepted form: [node=N] name arg...
// Blank lines and lines starting with '#' yield an empty name
func ParseLine(line string) (Scope, string, []string, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Global, "", nil, nil
	}

	parts := strings.Fields(line)
	scope := Global

	if strings.HasPrefix(parts[0], "[") {
		s, err := parseCriteria(parts[0])
		if err != nil {
			return Global, "", nil, err
		}
		scope = s
		parts = parts[1:]
		if len(parts) == 0 {
			return Global, "", nil, fmt.Errorf("%w: criteria without directive", ErrInvalidCriteria)
		}
	}

	return scope, parts[0], parts[1:], nil
}

// parseCriteria reads a "[node=N]" block
func parseCriteria(tok string) (Scope, error) {
	if !strings.HasSuffix(tok, "]") {
		return Global, fmt.Errorf("%w: unterminated %q", ErrInvalidCriteria, tok)
	}
	key, val, ok := strings.Cut(tok[1:len(tok)-1], "=")
	if !ok || key != "node" {
		return Global, fmt.Errorf("%w: expected [node=<id>], got %q", ErrInvalidCriteria, tok)
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil || id == 0 {
		return Global, fmt.Errorf("%w: bad node id %q", ErrInvalidCriteria, val)
	}
	return ForNode(glass.NodeID(id)), nil
}

// ReadScript reads r to the end and splits it into lines
func ReadScript(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return lines, nil
}

// RunScript executes one directive per line under scope
// Stops at the first failure and returns how many directives succeeded
func (e *Executor) RunScript(scope Scope, lines []string) (int, error) {
	applied := 0
	for i, line := range lines {
		lineNo := i + 1
		s, name, args, err := ParseLine(line)
		if err != nil {
			e.record(scope, line, nil, err)
			return applied, &ScriptError{Line: lineNo, Err: err}
		}
		if name == "" {
			continue
		}
		target := scope
		if _, ok := s.Node(); ok {
			target = s
		}
		if err := e.Execute(target, name, args); err != nil {
			return applied, &ScriptError{Line: lineNo, Err: err}
		}
		applied++
	}
	return applied, nil
}
