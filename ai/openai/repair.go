package openai

import "strings"

// repairJSON cleans a model answer so that it decodes as JSON. It strips
// markdown fences and surrounding prose, drops trailing commas and quotes
// object keys whose quotes are missing. String contents are never touched.
func repairJSON(s string) string {
	rs := []rune(outermostJSON(stripCodeFences(s)))
	out := make([]rune, 0, len(rs)+16)

	inString, escaped := false, false
	for i := 0; i < len(rs); i++ {
		ch := rs[i]
		if inString {
			out = append(out, ch)
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
			out = append(out, ch)
		case ',':
			if next := skipSpace(rs, i+1); next < len(rs) && (rs[next] == '}' || rs[next] == ']') {
				continue
			}
			out = append(out, ch)
			i = quoteKey(rs, i+1, &out) - 1
		case '{':
			out = append(out, ch)
			i = quoteKey(rs, i+1, &out) - 1
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

// quoteKey copies whitespace from rs[i:] into out and, when a bare
// identifier used as an object key follows, writes it quoted. It returns
// the index of the first rune not consumed.
func quoteKey(rs []rune, i int, out *[]rune) int {
	j := skipSpace(rs, i)
	*out = append(*out, rs[i:j]...)
	k := j
	for k < len(rs) && isIdent(rs[k]) {
		k++
	}
	if k == j {
		return j
	}
	ident := rs[j:k]
	switch {
	case k+1 < len(rs) && rs[k] == '"' && rs[k+1] == ':':
		// key lost its opening quote
		*out = append(*out, '"')
		*out = append(*out, ident...)
		*out = append(*out, '"')
		return k + 1
	case skipSpace(rs, k) < len(rs) && rs[skipSpace(rs, k)] == ':':
		*out = append(*out, '"')
		*out = append(*out, ident...)
		*out = append(*out, '"')
		return k
	default:
		*out = append(*out, ident...)
		return k
	}
}

// outermostJSON trims anything before the first object or array opener and
// after the last closer.
func outermostJSON(s string) string {
	start := strings.IndexAny(s, "{[")
	end := strings.LastIndexAny(s, "}]")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

// stripCodeFences removes markdown code fences wrapped around a model response.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func skipSpace(rs []rune, i int) int {
	for i < len(rs) && (rs[i] == ' ' || rs[i] == '\n' || rs[i] == '\t' || rs[i] == '\r') {
		i++
	}
	return i
}

func isIdent(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
