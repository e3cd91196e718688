package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
		empty   bool
	}{
		{name: "valid", body: `{"days":3}`},
		{name: "empty", body: "", wantErr: true, empty: true},
		{name: "unknown field", body: `{"days":3,"weeks":1}`, wantErr: true},
		{name: "trailing data", body: `{"days":3}{"days":4}`, wantErr: true},
		{name: "malformed", body: `{"days":`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var v sampleRequest
			err := DecodeJSON(req, &v)
			if !tc.wantErr {
				require.NoError(t, err)
				assert.Equal(t, 3, v.Days)
				return
			}
			require.Error(t, err)
			if tc.empty {
				assert.ErrorIs(t, err, ErrEmptyBody)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(&sampleRequest{Days: 1}))
	assert.Error(t, ValidateRequest(&sampleRequest{Days: 0}))
}
