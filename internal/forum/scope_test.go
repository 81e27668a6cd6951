package forum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageClamp(t *testing.T) {
	t.Run("unset limit takes a full page", func(t *testing.T) {
		assert.Equal(t, Page{Skip: 0, Limit: 25}, Page{}.Clamp())
		assert.Equal(t, Page{Skip: 0, Limit: 25}, Page{Limit: -3}.Clamp())
	})

	t.Run("oversized limit and negative skip are clamped", func(t *testing.T) {
		assert.Equal(t, Page{Skip: 0, Limit: 25}, Page{Skip: -1, Limit: 500}.Clamp())
	})

	t.Run("in-range values pass through", func(t *testing.T) {
		assert.Equal(t, Page{Skip: 10, Limit: 5}, Page{Skip: 10, Limit: 5}.Clamp())
	})
}
