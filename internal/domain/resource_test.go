package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/scholar-api/internal/domain"
)

func TestResourceRecordValidate(t *testing.T) {
	t.Parallel()

	valid := domain.ResourceRecord{
		Title: "Intro to Algorithms",
		URL:   "https://ocw.mit.edu/6-006/lecture-notes",
		Type:  domain.ResourceTypeTextbook,
	}

	t.Run("valid record", func(t *testing.T) {
		t.Parallel()
		r := valid
		assert.NoError(t, r.Validate())
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		r := valid
		r.Title = ""
		assert.ErrorIs(t, r.Validate(), domain.ErrEmptyResourceTitle)
	})

	t.Run("missing url", func(t *testing.T) {
		t.Parallel()
		r := valid
		r.URL = ""
		assert.ErrorIs(t, r.Validate(), domain.ErrEmptyResourceURL)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		r := valid
		r.Type = domain.ResourceType("podcast")
		assert.ErrorIs(t, r.Validate(), domain.ErrInvalidResourceType)
	})

	t.Run("metadata is optional", func(t *testing.T) {
		t.Parallel()
		r := valid
		r.Metadata = map[string]string{"section": "Week 3"}
		assert.NoError(t, r.Validate())
	})
}
