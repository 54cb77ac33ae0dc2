package readability_test

import (
	"testing"

	"github.com/fwojciec/briefly/readability"
	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	t.Parallel()

	t.Run("separates blocks and collapses spaces", func(t *testing.T) {
		t.Parallel()

		n := fragment(t, "<div><h2>Title</h2><p>One   two\n three</p><p>Four<br>five <em>six</em></p><ul><li>a</li><li>b</li></ul></div>")

		assert.Equal(t, "Title\n\nOne two three\n\nFour\n\nfive six\n\na\n\nb", readability.PlainText(n))
	})

	t.Run("normalizes to NFC", func(t *testing.T) {
		t.Parallel()

		n := fragment(t, "<p>Cafe\u0301</p>")

		assert.Equal(t, "Caf\u00e9", readability.PlainText(n))
	})
}

func TestInnerHTML(t *testing.T) {
	t.Parallel()

	got, err := readability.InnerHTML(fragment(t, `<div><p>a</p>b</div>`))

	assert.NoError(t, err)
	assert.Equal(t, "<p>a</p>b", got)
}
