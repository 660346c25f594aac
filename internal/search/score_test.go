package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_TitleEqualsPhrase(t *testing.T) {
	// 100 title==phrase, 50 all terms in title, 2x15 word-boundary, 10 short title.
	score := Score("ITC Mismatch", "", ParseQuery("itc mismatch"))
	assert.Equal(t, 190, score)
}

func TestScore_ContentOnlyMatch(t *testing.T) {
	// 25 all terms in content, 10 short title.
	score := Score("Monthly filing tracker", "penalty computation for detention", ParseQuery("penalty detention"))
	assert.Equal(t, 35, score)
}

func TestScore_FloorIsOne(t *testing.T) {
	longTitle := strings.Repeat("x", 60)
	score := Score(longTitle, "", ParsedQuery{})
	assert.Equal(t, 1, score)
}

func TestScore_OperatorBonuses(t *testing.T) {
	q := ParsedQuery{Filename: "brief", Tag: "urgent", Uploader: "priya", CaseRef: "cs-100"}

	// 15 filename + 10 tag + 10 uploader + 10 case + 10 short title.
	assert.Equal(t, 55, Score("Hearing brief", "", q))
}

func TestScore_ExactBonus(t *testing.T) {
	q := ParseQuery("show cause notice")
	exact := q
	exact.Exact = true

	assert.Equal(t, 20, Score("Show Cause Notice", "", exact)-Score("Show Cause Notice", "", q))
}

func TestFilenameBoost(t *testing.T) {
	q := ParseQuery("scn reply")

	// Stem match ignores the extension entirely.
	assert.Equal(t, 100, FilenameBoost("SCN_Reply.docx", q))

	// Word overlap with one query term.
	assert.Equal(t, 50, FilenameBoost("Reply_Notes.txt", q))

	// Nothing in common.
	assert.Equal(t, 0, FilenameBoost("Detention_Order.pdf", q))

	// No terms, no boost.
	assert.Equal(t, 0, FilenameBoost("SCN_Reply.docx", ParsedQuery{Tag: "urgent"}))
}

func TestScore_FilenameMatchOutranksTextMatch(t *testing.T) {
	q := ParseQuery("scn reply")

	exactFilename := Score("SCN_Reply.docx", "", q) + FilenameBoost("SCN_Reply.docx", q)
	partialFilename := Score("Reply_Notes.txt", "scn reply follow-up", q) + FilenameBoost("Reply_Notes.txt", q)
	textOnly := Score("Case correspondence", "scn reply attached herewith", q)

	assert.Greater(t, exactFilename, partialFilename)
	assert.Greater(t, partialFilename, textOnly)
}
