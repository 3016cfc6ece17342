package qa

import (
	"strings"
	"unicode"
)

// Query is a question prepared for matching.
type Query struct {
	Raw        string
	Lower      string // lower-cased raw question, punctuation kept
	Normalized string
	words      map[string]struct{}
}

// NewQuery lower-cases and normalizes a question.
func NewQuery(raw string) Query {
	q := Query{
		Raw:        raw,
		Lower:      strings.ToLower(raw),
		Normalized: Normalize(raw),
	}
	fields := strings.Fields(q.Normalized)
	q.words = make(map[string]struct{}, len(fields))
	for _, w := range fields {
		q.words[w] = struct{}{}
	}
	return q
}

// Normalize lower-cases s, drops everything but letters, digits and
// whitespace, and collapses runs of whitespace to one space.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteString(strings.ToLower(string(r)))
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// HasWord reports whether any of words appears as a whole word.
func (q Query) HasWord(words ...string) bool {
	for _, w := range words {
		if _, ok := q.words[w]; ok {
			return true
		}
	}
	return false
}

// NormalizedContains reports whether any of subs occurs in the normalized text.
func (q Query) NormalizedContains(subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(q.Normalized, s) {
			return true
		}
	}
	return false
}

// Contains reports whether any of subs occurs in the lower-cased question.
func (q Query) Contains(subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(q.Lower, s) {
			return true
		}
	}
	return false
}

// overlap is the fraction of key's words present in the query.
func (q Query) overlap(key string) (matched, total int) {
	keyWords := strings.Fields(strings.ToLower(strings.ReplaceAll(key, "?", "")))
	for _, w := range keyWords {
		if _, ok := q.words[w]; ok {
			matched++
		}
	}
	return matched, len(keyWords)
}
