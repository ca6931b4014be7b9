package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemas_ValidJSON(t *testing.T) {
	for name, content := range registry {
		t.Run(name, func(t *testing.T) {
			var v interface{}
			assert.NoError(t, json.Unmarshal([]byte(content), &v), "schema should be valid JSON: %s", name)
		})
	}
}

func TestValidate_EvaluationResponse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "reply only", doc: `{"reply": "hi"}`},
		{name: "empty object", doc: `{}`},
		{name: "ok and error results", doc: `{"results": [{"filename": "a.pdf", "score": 80, "name": "A"}, {"filename": "b.pdf", "error": "Unsupported file type"}]}`},
		{name: "null name accepted", doc: `{"results": [{"filename": "a.pdf", "score": 80, "name": null}]}`},
		{name: "missing filename", doc: `{"results": [{"score": 80}]}`, wantErr: true},
		{name: "neither score nor error", doc: `{"results": [{"filename": "a.pdf"}]}`, wantErr: true},
		{name: "score as string", doc: `{"results": [{"filename": "a.pdf", "score": "80"}]}`, wantErr: true},
		{name: "results not array", doc: `{"results": {}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(EvaluationResponse, []byte(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			validationErr, ok := err.(*ValidationError)
			require.True(t, ok, "error should be ValidationError type")
			assert.Equal(t, EvaluationResponse, validationErr.Schema)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidate_CandidateList(t *testing.T) {
	assert.NoError(t, Validate(CandidateList, []byte(`{"candidates": [{"id": 1, "score": 90, "shortlisted": false, "resume_url": null}]}`)))
	assert.NoError(t, Validate(CandidateList, []byte(`{"candidates": []}`)))

	err := Validate(CandidateList, []byte(`{"jobs": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidate_list")
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSONString_InvalidSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}
