package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantNames []string
		wantErr   bool
	}{
		{
			name:      "wrapped payload",
			body:      `{"success":true,"products":[{"id":1,"name":"Rice 5kg","price":400},{"id":2,"name":"Oil 1l","price":200}]}`,
			wantNames: []string{"Rice 5kg", "Oil 1l"},
		},
		{
			name:      "bare array",
			body:      `[{"id":1,"name":"Rice 5kg","price":400}]`,
			wantNames: []string{"Rice 5kg"},
		},
		{
			name:      "bare empty array",
			body:      `[]`,
			wantNames: []string{},
		},
		{
			name:    "wrapped failure",
			body:    `{"success":false,"products":[],"message":"db down"}`,
			wantErr: true,
		},
		{
			name:    "malformed body",
			body:    `<html>gateway error</html>`,
			wantErr: true,
		},
		{
			name:    "object without products",
			body:    `{"error":"nope"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := ParsePayload([]byte(tt.body))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}
