package markdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/srsdeck/internal/markdown"
	"github.com/vytor/srsdeck/internal/models"
)

func TestParseCards_WellFormedBlocks(t *testing.T) {
	md := "Q: What is Bayes' theorem?\n" +
		"A: P(A|B) = [P(B|A) * P(A)] / P(B)\n" +
		"\n" +
		"Q: Define precision in classification.\n" +
		"A: TP / (TP + FP)\n"

	cards := markdown.ParseCards(md)

	require.Len(t, cards, 2)
	assert.Equal(t, "What is Bayes' theorem?", cards[0].Question)
	assert.Equal(t, "P(A|B) = [P(B|A) * P(A)] / P(B)", cards[0].Answer)
	assert.Equal(t, "Define precision in classification.", cards[1].Question)
	assert.Equal(t, "TP / (TP + FP)", cards[1].Answer)
}

func TestParseCards_EmptyInput(t *testing.T) {
	assert.Empty(t, markdown.ParseCards(""))
	assert.Empty(t, markdown.ParseCards("\n\n\n"))
	assert.Empty(t, markdown.ParseCards("just prose, no markers"))
}

func TestParseCards_QuestionWithoutAnswer(t *testing.T) {
	md := "Q: orphaned question\n\nQ: second\nA: answered\n"

	cards := markdown.ParseCards(md)

	// The orphan must surface as an incomplete card, not be dropped.
	require.Len(t, cards, 2)
	assert.Equal(t, "orphaned question", cards[0].Question)
	assert.Equal(t, "", cards[0].Answer)
	assert.Equal(t, "second", cards[1].Question)
	assert.Equal(t, "answered", cards[1].Answer)
}

func TestParseCards_QuestionEndsAtNextMarker(t *testing.T) {
	md := "Q: first\nQ: second\nA: only the second has an answer\n"

	cards := markdown.ParseCards(md)

	require.Len(t, cards, 2)
	assert.Equal(t, "first", cards[0].Question)
	assert.Empty(t, cards[0].Answer)
	assert.Equal(t, "second", cards[1].Question)
}

func TestParseCards_MultilineAnswer(t *testing.T) {
	md := "Q: What does 'idempotent' mean?\n" +
		"A: An operation that can be applied multiple times\n" +
		"without changing the result beyond the initial application.\n"

	cards := markdown.ParseCards(md)

	require.Len(t, cards, 1)
	assert.Equal(t,
		"An operation that can be applied multiple times without changing the result beyond the initial application.",
		cards[0].Answer)
}

func TestParseCards_TrimsWhitespaceAndMarkers(t *testing.T) {
	md := "   Q:   padded question   \n   A:   padded answer   \n"

	cards := markdown.ParseCards(md)

	require.Len(t, cards, 1)
	assert.Equal(t, "padded question", cards[0].Question)
	assert.Equal(t, "padded answer", cards[0].Answer)
}

func TestParseCards_AnswerWithoutQuestionIgnored(t *testing.T) {
	md := "A: floating answer\n\nQ: real\nA: pair\n"

	cards := markdown.ParseCards(md)

	require.Len(t, cards, 1)
	assert.Equal(t, "real", cards[0].Question)
}

func TestParseCards_Idempotent(t *testing.T) {
	md := "Q: a?\nA: b\n\nQ: c?\nA: d\n"

	first := markdown.ParseCards(md)
	second := markdown.ParseCards(md)

	assert.Equal(t, first, second)
}

func TestParseCards_PreservesOrder(t *testing.T) {
	md := "Q: one\nA: 1\n\nQ: two\nA: 2\n\nQ: three\nA: 3\n"

	cards := markdown.ParseCards(md)

	require.Len(t, cards, 3)
	expected := []models.Card{
		{Question: "one", Answer: "1"},
		{Question: "two", Answer: "2"},
		{Question: "three", Answer: "3"},
	}
	assert.Equal(t, expected, cards)
}
