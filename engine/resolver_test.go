package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arbiterhq/arbiter/model"
)

func TestResolveAttribute(t *testing.T) {
	ctx := model.PolicyContext{
		Subject: map[string]any{
			"id":         "u-1",
			"role":       "admin",
			"department": "engineering",
		},
		Resource: map[string]any{
			"name":  "users",
			"owner": "u-2",
		},
		Action: "read",
		Data: map[string]any{
			"consent": map[string]any{
				"given": true,
			},
		},
	}

	t.Run("subject attribute", func(t *testing.T) {
		value, ok := ResolveAttribute("subject.department", ctx)
		assert.True(t, ok)
		assert.Equal(t, "engineering", value)
	})

	t.Run("resource attribute", func(t *testing.T) {
		value, ok := ResolveAttribute("resource.owner", ctx)
		assert.True(t, ok)
		assert.Equal(t, "u-2", value)
	})

	t.Run("action", func(t *testing.T) {
		value, ok := ResolveAttribute("action", ctx)
		assert.True(t, ok)
		assert.Equal(t, "read", value)
	})

	t.Run("nested data path", func(t *testing.T) {
		value, ok := ResolveAttribute("data.consent.given", ctx)
		assert.True(t, ok)
		assert.Equal(t, true, value)
	})

	t.Run("missing segment", func(t *testing.T) {
		_, ok := ResolveAttribute("subject.location", ctx)
		assert.False(t, ok)
	})

	t.Run("missing nested segment", func(t *testing.T) {
		_, ok := ResolveAttribute("data.consent.revoked.at", ctx)
		assert.False(t, ok)
	})

	t.Run("unknown root", func(t *testing.T) {
		_, ok := ResolveAttribute("environment.ip", ctx)
		assert.False(t, ok)
	})

	t.Run("descending past action fails", func(t *testing.T) {
		_, ok := ResolveAttribute("action.verb", ctx)
		assert.False(t, ok)
	})

	t.Run("empty path", func(t *testing.T) {
		_, ok := ResolveAttribute("", ctx)
		assert.False(t, ok)
	})

	t.Run("string map walking", func(t *testing.T) {
		stringCtx := model.PolicyContext{
			Subject: map[string]any{
				"tags": map[string]string{"team": "core"},
			},
		}
		value, ok := ResolveAttribute("subject.tags.team", stringCtx)
		assert.True(t, ok)
		assert.Equal(t, "core", value)
	})

	t.Run("nil context maps", func(t *testing.T) {
		_, ok := ResolveAttribute("subject.role", model.PolicyContext{})
		assert.False(t, ok)
	})
}
