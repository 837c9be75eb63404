package rhinodoc_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/rhinodoc"
	"github.com/stretchr/testify/assert"
)

func TestExcerpt(t *testing.T) {
	t.Parallel()

	t.Run("keeps short text unchanged", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Boundary representation.", rhinodoc.Excerpt("Boundary representation."))
	})

	t.Run("truncates to 200 characters", func(t *testing.T) {
		t.Parallel()

		got := rhinodoc.Excerpt(strings.Repeat("a", 250))
		assert.Len(t, got, rhinodoc.ExcerptLength)
	})

	t.Run("counts characters rather than bytes", func(t *testing.T) {
		t.Parallel()

		got := rhinodoc.Excerpt(strings.Repeat("é", 250))
		assert.Equal(t, rhinodoc.ExcerptLength, utf8.RuneCountInString(got))
		assert.True(t, utf8.ValidString(got))
	})
}
