package qa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docqa/backend/internal/config"
	"github.com/docqa/backend/internal/testutil"
)

func qaConfig() config.QAConfig {
	return config.DefaultConfig().QA
}

func TestTruncateContext_Flat(t *testing.T) {
	cfg := qaConfig()

	short := "Hello world, this is Alice."
	assert.Equal(t, short, TruncateContext("Bugün hava nasıl?", short, cfg))

	long := strings.Repeat("ş", 2500)
	got := TruncateContext("Bugün hava nasıl?", long, cfg)
	assert.Equal(t, 2000, runeLen(got), "cut counts runes, not bytes")
	assert.True(t, strings.HasPrefix(long, got))
}

func TestTruncateContext_AliceParagraphs(t *testing.T) {
	cfg := qaConfig()
	a2 := testutil.AliceParagraph + " Second."
	a3 := testutil.AliceParagraph + " Third."
	a4 := testutil.AliceParagraph + " Fourth."
	text := strings.Join([]string{
		testutil.AliceParagraph,
		"Alice said hi.",
		testutil.RabbitParagraph,
		a2, a3, a4,
	}, "\n\n")

	got := TruncateContext("Alice nereye gitti?", text, cfg)
	assert.Equal(t, strings.Join([]string{testutil.AliceParagraph, a2, a3}, "\n\n"), got)
}

func TestTruncateContext_AliceWithoutLongParagraphs(t *testing.T) {
	cfg := qaConfig()
	text := "Alice said hi.\n\n" + strings.Repeat("x", 3000)

	got := TruncateContext("alice ne dedi", text, cfg)
	assert.Equal(t, 2000, runeLen(got))
	assert.True(t, strings.HasPrefix(got, "Alice said hi."))
}

func TestTruncateContext_AliceQuestionWithoutAliceInText(t *testing.T) {
	cfg := qaConfig()
	text := testutil.RabbitParagraph

	assert.Equal(t, text, TruncateContext("Alice nerede?", text, cfg))
}

func TestTruncateContext_RabbitParagraphs(t *testing.T) {
	cfg := qaConfig()
	turkish := "Beyaz tavşan yeleğinin cebinden bir saat çıkardı, saate baktı ve sonra aceleyle yoluna devam etti, Alice de peşinden koştu."
	text := strings.Join([]string{
		testutil.AliceParagraph,
		testutil.RabbitParagraph,
		"The Rabbit ran.",
		turkish,
	}, "\n\n")

	got := TruncateContext("Beyaz tavşan nereye koştu?", text, cfg)
	assert.Equal(t, testutil.RabbitParagraph+"\n\n"+turkish, got)
}

func TestTruncateContext_RabbitFallsBackToFlatCut(t *testing.T) {
	cfg := qaConfig()
	text := strings.Repeat("y", 2100)
	assert.Len(t, TruncateContext("tavşan", text, cfg), 2000)
}

func TestHeadRunes(t *testing.T) {
	assert.Equal(t, "çı", headRunes("çılgın", 2))
	assert.Equal(t, "abc", headRunes("abc", 5))
	assert.Equal(t, "abc", headRunes("abc", 0))
}
