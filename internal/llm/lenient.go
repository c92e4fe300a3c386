package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/madhu-yavar/transaction-agent/internal/common"
)

var (
	reFenceOpen  = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*")
	reFenceClose = regexp.MustCompile("(?s)\\s*```$")
	reJSONObject = regexp.MustCompile(`(?s)\{.*\}`)
	reJSONArray  = regexp.MustCompile(`(?s)\[.*\]`)
)

// StripFences removes a markdown code-fence wrapping (```sql, ```json or bare
// ```) from a completion response.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = reFenceOpen.ReplaceAllString(s, "")
	s = reFenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// DecodeObject decodes a completion response expected to carry one JSON
// object. It parses strictly first and, when that fails, re-parses the first
// {...} block found in the response. The two stages fail distinctly so logs
// can tell a chatty-but-recoverable response from a truly malformed one.
func DecodeObject(raw string, v any, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	cleaned := StripFences(raw)

	strictErr := json.Unmarshal([]byte(cleaned), v)
	if strictErr == nil {
		return nil
	}

	m := reJSONObject.FindString(cleaned)
	if m == "" {
		return fmt.Errorf("%w: no JSON object in completion response: %v", common.ErrMalformedCompletion, strictErr)
	}
	if err := json.Unmarshal([]byte(m), v); err != nil {
		return fmt.Errorf("%w: recovered JSON block did not parse: %v", common.ErrMalformedCompletion, err)
	}
	logger.Warn("llm.decode.regex_fallback_applied", "raw_len", len(raw), "recovered_len", len(m))
	return nil
}

// DecodeArray is DecodeObject for responses expected to carry a JSON array.
func DecodeArray(raw string, v any, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	cleaned := StripFences(raw)

	strictErr := json.Unmarshal([]byte(cleaned), v)
	if strictErr == nil {
		return nil
	}

	m := reJSONArray.FindString(cleaned)
	if m == "" {
		return fmt.Errorf("%w: no JSON array in completion response: %v", common.ErrMalformedCompletion, strictErr)
	}
	if err := json.Unmarshal([]byte(m), v); err != nil {
		return fmt.Errorf("%w: recovered JSON block did not parse: %v", common.ErrMalformedCompletion, err)
	}
	logger.Warn("llm.decode.regex_fallback_applied", "raw_len", len(raw), "recovered_len", len(m))
	return nil
}
