// Package repair heals raw model output into valid structured data. Models
// wrap JSON in markdown fences, truncate mid-array when the token budget
// runs out, and occasionally emit trailing garbage; Repair absorbs all of
// that and always returns some structured value.
package repair

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/sourceflow-ai/bom-cli/internal/model"
)

// payloadKey is the key scanned for during array recovery: the BOM stages
// all carry their primary payload under a categories array.
const payloadKey = "categories"

// previewLen bounds the raw-text preview kept on the fallback value.
const previewLen = 500

// defaultConfidence is injected when a parsed object omits its own.
const defaultConfidence = 0.8

// fallbackConfidence is reported when nothing parseable could be recovered.
const fallbackConfidence = 0.5

// Repair converts raw model text into a structured map. It never fails:
// fidelity degrades through fence stripping, truncation healing, payload
// array recovery, and backward truncation, ending at a minimal fallback
// value with empty defaults.
func Repair(raw string) model.StageResult {
	text := StripFences(raw)

	// Direct parse.
	if m, ok := parseValue(text); ok {
		return withDefaults(m)
	}

	// Assume truncation: close unterminated strings/braces/brackets.
	if !strings.HasSuffix(text, "}") && !strings.HasSuffix(text, "]") {
		if m, ok := parseValue(autoClose(text)); ok {
			zap.L().Debug("repair: healed truncated payload", zap.Int("len", len(text)))
			return withDefaults(m)
		}
	}

	// Scan out the last structurally complete payload array, even when the
	// surrounding object is beyond saving.
	if arr, ok := extractArray(text, payloadKey); ok && len(arr) > 0 {
		zap.L().Debug("repair: recovered payload array", zap.Int("entries", len(arr)))
		return withDefaults(map[string]any{payloadKey: arr})
	}

	// Backward truncation: find the longest prefix that parses once closed.
	if m, ok := truncateScan(text); ok {
		zap.L().Debug("repair: parsed truncated prefix")
		return withDefaults(m)
	}

	zap.L().Warn("repair: returning minimal fallback", zap.Int("raw_len", len(raw)))
	return Fallback(raw)
}

// RepairInto repairs raw and unmarshals the result into v, for stages with
// a fixed result schema.
func RepairInto(raw string, v any) error {
	m := Repair(raw)
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// StripFences trims whitespace and unwraps a markdown code fence, with or
// without a language tag.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

// parseValue parses text as a JSON object, or as a JSON array wrapped under
// the payload key so callers always get a map.
func parseValue(text string) (map[string]any, bool) {
	if text == "" {
		return nil, false
	}
	switch text[0] {
	case '{':
		var m map[string]any
		if err := json.Unmarshal([]byte(text), &m); err == nil {
			return m, true
		}
	case '[':
		var arr []any
		if err := json.Unmarshal([]byte(text), &arr); err == nil {
			return map[string]any{payloadKey: arr}, true
		}
	}
	return nil, false
}

// scanner tracks string/escape state and the stack of open delimiters while
// walking JSON text byte by byte.
type scanner struct {
	inString bool
	escape   bool
	stack    []byte
}

func (s *scanner) feed(ch byte) {
	if s.escape {
		s.escape = false
		return
	}
	if s.inString {
		switch ch {
		case '\\':
			s.escape = true
		case '"':
			s.inString = false
		}
		return
	}
	switch ch {
	case '"':
		s.inString = true
	case '{':
		s.stack = append(s.stack, '}')
	case '[':
		s.stack = append(s.stack, ']')
	case '}', ']':
		if n := len(s.stack); n > 0 && s.stack[n-1] == ch {
			s.stack = s.stack[:n-1]
		}
	}
}

// autoClose appends whatever closers the text is missing, in reverse order
// of opening. An unterminated string is closed first.
func autoClose(text string) string {
	var s scanner
	for i := 0; i < len(text); i++ {
		s.feed(text[i])
	}

	var b strings.Builder
	b.WriteString(text)
	if s.inString {
		b.WriteByte('"')
	}
	for i := len(s.stack) - 1; i >= 0; i-- {
		b.WriteByte(s.stack[i])
	}
	return b.String()
}

// extractArray locates `"key": [...]` in text and returns the array's
// elements if the bracket pair completes, tolerating garbage after it.
func extractArray(text, key string) ([]any, bool) {
	keyPos := strings.Index(text, `"`+key+`"`)
	if keyPos < 0 {
		return nil, false
	}
	start := strings.IndexByte(text[keyPos:], '[')
	if start < 0 {
		return nil, false
	}
	start += keyPos

	var s scanner
	for i := start; i < len(text); i++ {
		s.feed(text[i])
		if i > start && len(s.stack) == 0 && !s.inString {
			var arr []any
			if err := json.Unmarshal([]byte(text[start:i+1]), &arr); err == nil {
				return arr, true
			}
			return nil, false
		}
	}
	return nil, false
}

// truncateScan cuts the text back from the end, auto-closing at each cut
// point, and returns the first successful parse.
func truncateScan(text string) (map[string]any, bool) {
	for i := len(text); i > 0; i-- {
		if m, ok := parseValue(autoClose(text[:i])); ok {
			return m, true
		}
	}
	return nil, false
}

// withDefaults guarantees the keys every consumer may touch exist on a
// successfully parsed result.
func withDefaults(m map[string]any) map[string]any {
	if m == nil {
		m = map[string]any{}
	}
	for _, key := range []string{payloadKey, "primary_materials", "trims", "notions"} {
		if _, ok := m[key]; !ok {
			m[key] = []any{}
		}
	}
	if _, ok := m["confidence"]; !ok {
		m["confidence"] = defaultConfidence
	}
	return m
}

// Fallback builds the minimal structured value returned when nothing in
// raw could be parsed.
func Fallback(raw string) map[string]any {
	preview := raw
	if len(preview) > previewLen {
		preview = preview[:previewLen]
	}
	return map[string]any{
		"error":                "failed to parse model response",
		"raw_response_preview": preview,
		payloadKey:             []any{},
		"primary_materials":    []any{},
		"trims":                []any{},
		"notions":              []any{},
		"confidence":           fallbackConfidence,
	}
}
