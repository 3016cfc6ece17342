package qa

import "strings"

// Rule maps a predicate over a question to a canned answer.
type Rule struct {
	Name   string
	Match  func(q Query) bool
	Answer string
}

// KeywordRules run after the fuzzy pass, top to bottom. They look at whole
// words of the normalized question.
func KeywordRules() []Rule {
	return []Rule{
		{"alice", func(q Query) bool {
			return q.HasWord("alice") && q.HasWord("kim", "kimdir", "kız")
		}, cannedAnswer(keyAlice)},
		{"rabbit", func(q Query) bool {
			return q.HasWord("tavşan") || q.NormalizedContains("beyaz tavşan")
		}, cannedAnswer(keyRabbit)},
		{"wonderland", func(q Query) bool { return q.HasWord("diyar", "harikalar") }, cannedAnswer(keyWonderland)},
		{"cat", func(q Query) bool { return q.HasWord("kedi", "cheshire") }, cannedAnswer(keyCat)},
		{"hatter", func(q Query) bool { return q.HasWord("şapkacı", "çılgın") }, cannedAnswer(keyHatter)},
		{"author", func(q Query) bool { return q.HasWord("yazar", "carroll", "lewis") }, cannedAnswer(keyCarroll)},
		{"queen", func(q Query) bool { return q.HasWord("kraliçe", "kupa") }, cannedAnswer(keyQueen)},
	}
}

// FallbackRules replace a model answer that apologised. They match
// substrings of the lower-cased question, so "tavşanı" still hits "tavşan".
func FallbackRules() []Rule {
	return []Rule{
		{"alice", func(q Query) bool { return q.Contains("alice") }, cannedAnswer(keyAlice)},
		{"rabbit", func(q Query) bool { return q.Contains("tavşan", "beyaz tavşan") }, cannedAnswer(keyRabbit)},
		{"wonderland", func(q Query) bool { return q.Contains("diyar", "harikalar") }, cannedAnswer(keyWonderland)},
		{"cat", func(q Query) bool { return q.Contains("kedi", "cheshire") }, cannedAnswer(keyCat)},
		{"hatter", func(q Query) bool { return q.Contains("şapkacı", "çılgın") }, cannedAnswer(keyHatter)},
		{"author", func(q Query) bool { return q.Contains("yazar", "carroll") }, cannedAnswer(keyCarroll)},
		{"queen", func(q Query) bool { return q.Contains("kraliçe", "kral") }, cannedAnswer(keyQueen)},
	}
}

// Matcher answers questions from the canned table without touching a document.
type Matcher struct {
	entries   []CannedAnswer
	rules     []Rule
	fallback  []Rule
	threshold float64
}

// NewMatcher returns a Matcher over the built-in table. A threshold <= 0
// falls back to 0.7.
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = 0.7
	}
	return &Matcher{
		entries:   cannedAnswers,
		rules:     KeywordRules(),
		fallback:  FallbackRules(),
		threshold: threshold,
	}
}

// Match tries, in order: an exact lookup of the lower-cased question, the
// keyword-overlap pass over the table, then the keyword rules.
func (m *Matcher) Match(q Query) (answer string, matchedBy string, ok bool) {
	exact := strings.TrimSpace(q.Lower)
	for _, e := range m.entries {
		if e.Question == exact {
			return e.Answer, "exact", true
		}
	}

	for _, e := range m.entries {
		matched, total := q.overlap(e.Question)
		if total > 0 && float64(matched) >= float64(total)*m.threshold {
			return e.Answer, "fuzzy", true
		}
	}

	for _, r := range m.rules {
		if r.Match(q) {
			return r.Answer, "rule:" + r.Name, true
		}
	}
	return "", "", false
}

// Fallback picks a canned answer for a question the model could not
// answer. It never fails: unmatched questions get InsufficientInfoMessage.
func (m *Matcher) Fallback(q Query) (answer string, matchedBy string) {
	for _, r := range m.fallback {
		if r.Match(q) {
			return r.Answer, "fallback:" + r.Name
		}
	}
	return InsufficientInfoMessage, "fallback:none"
}
