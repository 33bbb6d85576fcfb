package markdown

import (
	"strings"

	"github.com/vytor/srsdeck/internal/models"
)

const (
	questionMarker = "Q:"
	answerMarker   = "A:"
)

// ParseCards extracts question/answer pairs from raw markdown text.
//
// A block starts with a line prefixed "Q:"; the answer is the following
// "A:" line. Unmarked non-blank lines continue the current field, so
// multi-line answers survive. Blocks end at a blank line or at the next
// question marker.
//
// Parsing is total and order-preserving: malformed input never fails, it
// degrades to incomplete cards (e.g. an empty answer) that the validator
// will reject. A question with no answer is still surfaced rather than
// silently dropped. The function is a pure function of the text.
func ParseCards(md string) []models.Card {
	var cards []models.Card
	var cur *models.Card
	inAnswer := false

	flush := func() {
		if cur != nil {
			cards = append(cards, *cur)
			cur = nil
			inAnswer = false
		}
	}

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, questionMarker):
			flush()
			cur = &models.Card{Question: strings.TrimSpace(strings.TrimPrefix(line, questionMarker))}
		case strings.HasPrefix(line, answerMarker):
			if cur == nil {
				// Answer with no preceding question carries no card.
				continue
			}
			cur.Answer = strings.TrimSpace(strings.TrimPrefix(line, answerMarker))
			inAnswer = true
		case line == "":
			flush()
		default:
			if cur == nil {
				continue
			}
			if inAnswer {
				cur.Answer = appendLine(cur.Answer, line)
			} else {
				cur.Question = appendLine(cur.Question, line)
			}
		}
	}
	flush()
	return cards
}

func appendLine(text, line string) string {
	if text == "" {
		return line
	}
	return text + " " + line
}
