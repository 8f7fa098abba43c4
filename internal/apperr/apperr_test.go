package apperr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsSetKindAndStatus(t *testing.T) {
	assert.Equal(t, KindParse, Parse(400, "bad").Kind)
	assert.Equal(t, 400, Parse(400, "bad").Status)

	assert.Equal(t, KindURL, URL(404, "missing").Kind)
	assert.Equal(t, KindMedia, Media(415, "nope").Kind)
	assert.Equal(t, KindStore, Store(500, "io").Kind)
	assert.Equal(t, KindConfig, Config("bad key").Kind)
}

func TestStoreRollbackSetsFlag(t *testing.T) {
	e := StoreRollback("cleanup also failed: %v", "disk full")
	assert.True(t, e.Rollback)
	assert.Equal(t, 500, e.Status)
	assert.Equal(t, KindStore, e.Kind)
}

func TestErrorMessageIncludesKindAndReason(t *testing.T) {
	e := URL(404, "unknown endpoint %q", "/nope")
	assert.Contains(t, e.Error(), "url")
	assert.Contains(t, e.Error(), "/nope")
}
