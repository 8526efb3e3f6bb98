package service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// ConfirmSuffix ends every cleaned checklist item.
const ConfirmSuffix = "확인하세요."

const confirmStem = "확인하세요"

var (
	ordinalMarker = regexp.MustCompile(`^\s*(\d+[.)]|[-*•·])(\s+|$)`)
	codeFence     = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*\\s*(.*?)\\s*```$")
)

// parseStrategy turns raw model output into candidate items. A strategy that
// cannot interpret the text returns nil.
type parseStrategy struct {
	name  string
	parse func(text string) []string
}

// checklistStrategies are tried in order; the first one that yields at least
// one cleaned item wins.
var checklistStrategies = []parseStrategy{
	{name: "json_array", parse: parseJSONStringArray},
	{name: "fenced_json", parse: parseFencedJSON},
	{name: "bracket_scan", parse: parseBracketedJSON},
	{name: "line_split", parse: splitLines},
}

// ParseChecklistOutput converts free-form model output into a deduplicated
// list of cleaned items. It never fails; unusable text yields an empty list.
func ParseChecklistOutput(text string) []string {
	items, _ := parseWithStrategies(text, checklistStrategies)
	return items
}

func parseWithStrategies(text string, strategies []parseStrategy) ([]string, string) {
	for _, s := range strategies {
		if items := NormalizeItems(s.parse(text)); len(items) > 0 {
			return items, s.name
		}
	}
	return []string{}, ""
}

// NormalizeItems cleans every item and drops empties and duplicates, keeping
// the first occurrence.
func NormalizeItems(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		item := CleanItem(r)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// CleanItem normalizes one candidate item. The result is either "" or ends
// with " 확인하세요.", and CleanItem(CleanItem(s)) == CleanItem(s).
func CleanItem(raw string) string {
	s := strings.Join(strings.Fields(sanitizeText(raw)), " ")
	for {
		if strings.TrimFunc(s, isEnclosingRune) == "" {
			return ""
		}
		prev := s
		s = strings.Trim(s, " ,")
		s = trimWrapper(s)
		s = trimConfirmSuffix(s)
		if s == prev {
			break
		}
	}
	if s == "" {
		return ""
	}
	return s + " " + ConfirmSuffix
}

func trimConfirmSuffix(s string) string {
	for {
		s = strings.TrimRightFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '.' })
		if !strings.HasSuffix(s, confirmStem) {
			return s
		}
		s = strings.TrimSuffix(s, confirmStem)
	}
}

var wrapperPairs = map[rune]rune{
	'"': '"', '\'': '\'', '`': '`', '‘': '’', '“': '”', '[': ']',
}

// trimWrapper removes one pair of quotes or brackets, and only when that pair
// encloses the whole item: "[특약] 조항" and `"전세" 계약` are left alone.
func trimWrapper(s string) string {
	runes := []rune(s)
	if len(runes) < 2 {
		return s
	}
	open, last := runes[0], runes[len(runes)-1]
	closer, ok := wrapperPairs[open]
	if !ok || last != closer {
		return s
	}

	inner := runes[1 : len(runes)-1]
	if open == closer {
		for _, r := range inner {
			if r == open {
				return s
			}
		}
		return strings.TrimSpace(string(inner))
	}

	depth := 0
	for _, r := range inner {
		switch r {
		case open:
			depth++
		case closer:
			depth--
			if depth < 0 {
				return s
			}
		}
	}
	if depth != 0 {
		return s
	}
	return strings.TrimSpace(string(inner))
}

func isEnclosingRune(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '"', '\'', '`', '‘', '’', '“', '”', '[', ']', ',':
		return true
	}
	return false
}

// sanitizeText drops invalid UTF-8, NUL and other control characters while
// keeping tabs and newlines.
func sanitizeText(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		case unicode.IsControl(r):
		case r == utf8.RuneError:
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseJSONStringArray(text string) []string {
	t := strings.TrimSpace(text)
	if !gjson.Valid(t) {
		return nil
	}
	result := gjson.Parse(t)
	if !result.IsArray() {
		return nil
	}
	var items []string
	allStrings := true
	result.ForEach(func(_, v gjson.Result) bool {
		if v.Type != gjson.String {
			allStrings = false
			return false
		}
		items = append(items, v.String())
		return true
	})
	if !allStrings {
		return nil
	}
	return items
}

func parseFencedJSON(text string) []string {
	m := codeFence.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil
	}
	return parseJSONStringArray(m[1])
}

func parseBracketedJSON(text string) []string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil
	}
	return parseJSONStringArray(text[start : end+1])
}

// splitLines is the last resort for output that is not a JSON array, often a
// numbered list or a truncated array. Stray quotes, brackets and commas around
// each piece are dropped, then at most one leading list marker.
func splitLines(text string) []string {
	t := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if t == "" {
		return nil
	}
	sep := ","
	if strings.Contains(t, "\n") {
		sep = "\n"
	}
	pieces := strings.Split(t, sep)
	for i, piece := range pieces {
		piece = strings.TrimFunc(piece, isEnclosingRune)
		pieces[i] = ordinalMarker.ReplaceAllString(piece, "")
	}
	return pieces
}
