package insights

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractJSON returns the first balanced {...} object in text. Braces inside
// JSON strings are ignored. The object must be valid JSON.
func ExtractJSON(text string) (json.RawMessage, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, eris.New("insights: no JSON object in model output")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				obj := text[start : i+1]
				if !json.Valid([]byte(obj)) {
					return nil, eris.New("insights: model output is not valid JSON")
				}
				return json.RawMessage(obj), nil
			}
		}
	}
	return nil, eris.New("insights: unbalanced JSON object in model output")
}
