package negotiate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/server/internal/model"
)

func headersWith(pairs ...string) *model.Headers {
	h := model.NewHeaders()
	for i := 0; i+1 < len(pairs); i += 2 {
		h.Set(pairs[i], pairs[i+1])
	}
	return h
}

func TestCheckRequestType(t *testing.T) {
	allowed := model.BinaryMediaTypes

	err := CheckRequestType(headersWith(model.HeaderContentType, "application/octet-stream"), allowed)
	assert.NoError(t, err)

	err = CheckRequestType(headersWith(model.HeaderContentType, "text/html"), allowed)
	require.Error(t, err)

	err = CheckRequestType(headersWith(), allowed)
	assert.NoError(t, err, "missing Content-Type is accepted when nothing needs validating")

	err = CheckRequestType(headersWith(model.HeaderContentType, "text/html"), map[model.ContentType]bool{AnyRequestType: true})
	assert.NoError(t, err, "the any-request-type marker accepts everything")
}

func TestSelectResponseType(t *testing.T) {
	offered := []model.ContentType{model.ContentTypeJSON, model.ContentTypeText, model.ContentTypeNone}

	ct, err := SelectResponseType(headersWith(model.HeaderAccept, "*/*"), offered)
	require.NoError(t, err)
	assert.Equal(t, model.ContentTypeJSON, ct)

	ct, err = SelectResponseType(headersWith(model.HeaderAccept, "text/plain, application/json"), offered)
	require.NoError(t, err)
	assert.Equal(t, model.ContentTypeJSON, ct, "offer order wins over Accept order")

	ct, err = SelectResponseType(headersWith(), offered)
	require.NoError(t, err)
	assert.Equal(t, model.ContentTypeJSON, ct, "no Accept header selects the first offered type")

	_, err = SelectResponseType(headersWith(model.HeaderAccept, "image/png"), offered)
	require.Error(t, err)
}
