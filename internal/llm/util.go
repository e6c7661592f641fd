package llm

import "strings"

// CleanJSONBlock returns the JSON document inside an LLM response. It removes
// markdown code fences, then any preamble before the first '{' or '[' and any
// text after the matching close.
func CleanJSONBlock(text string) string {
	text = stripCodeFence(strings.TrimSpace(text))

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	var span string
	if text[start] == '{' {
		span = extractJSONObject(text[start:])
	} else {
		span = extractJSONArray(text[start:])
	}
	if span == "" {
		return text
	}
	return span
}

// ExtractJSONObject returns the first balanced {...} span of text. Braces
// inside JSON strings are ignored. ok is false when no object closes.
func ExtractJSONObject(text string) (span string, ok bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	span = extractJSONObject(text[start:])
	return span, span != ""
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Skip a language identifier on the first line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.ContainsAny(firstLine, "{[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

func extractJSONObject(text string) string {
	return balancedSpan(text, '{', '}')
}

func extractJSONArray(text string) string {
	return balancedSpan(text, '[', ']')
}

// balancedSpan returns the prefix of text from its opening delimiter to the
// matching close, or "" when text does not start with open or never closes.
func balancedSpan(text string, open, close byte) string {
	if text == "" || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
