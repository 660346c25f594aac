package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "scn reply draft", Normalize("SCN_Reply-Draft"))
	assert.Equal(t, "gstr 2a reconciliation", Normalize("  GSTR-2A   Reconciliation!! "))
	assert.Equal(t, "itc mismatch demand", Normalize("ITC Mismatch (Demand)"))
	assert.Equal(t, "", Normalize("...!!!"))
	assert.Equal(t, "", Normalize("   "))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"SCN_Reply-Draft.docx",
		"GST/2025/0100",
		"  Mixed   CASE  with_underscores ",
		"already normalized text",
		"",
		"!!!",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}
