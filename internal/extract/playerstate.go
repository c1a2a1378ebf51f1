package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/dop251/goja"

	"github.com/famomatic/livehls/internal/innertube"
)

var errPlayerStateNotFound = errors.New("player state not found in markup")

var playerStatePattern = regexp.MustCompile(`ytInitialPlayerResponse\s*=\s*\{`)

// extractPlayerState locates the inline ytInitialPlayerResponse assignment
// and returns the raw object literal, using balanced-brace scanning since
// the object is followed by arbitrary script text.
func extractPlayerState(markup []byte) ([]byte, error) {
	loc := playerStatePattern.FindIndex(markup)
	if loc == nil {
		return nil, errPlayerStateNotFound
	}
	start := loc[1] - 1 // position of the opening brace
	depth := 0
	// quote is the active string delimiter; bare JS literals use single
	// quotes, so both kinds must hide braces from the scanner.
	var quote byte
	escaped := false
	for i := start; i < len(markup); i++ {
		c := markup[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return markup[start : i+1], nil
			}
		}
	}
	return nil, fmt.Errorf("player state object not terminated")
}

// decodePlayerState parses the extracted object literal. Strict JSON is the
// common case; when the platform emits a bare JS literal (single quotes,
// unquoted keys) the literal is normalized through a JS engine instead.
func decodePlayerState(raw []byte) (*innertube.PlayerResponse, error) {
	var resp innertube.PlayerResponse
	if err := json.Unmarshal(raw, &resp); err == nil {
		return &resp, nil
	}

	vm := goja.New()
	value, err := vm.RunString("JSON.stringify((" + string(raw) + "))")
	if err != nil {
		return nil, fmt.Errorf("player state is neither JSON nor a JS literal: %w", err)
	}
	normalized, ok := value.Export().(string)
	if !ok {
		return nil, fmt.Errorf("player state normalization yielded %T", value.Export())
	}
	if err := json.Unmarshal([]byte(normalized), &resp); err != nil {
		return nil, fmt.Errorf("normalized player state: %w", err)
	}
	return &resp, nil
}
