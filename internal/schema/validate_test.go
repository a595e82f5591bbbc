package schema

import (
	"testing"

	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petsProto = `syntax = "proto3";

package pets.v1;

message Pet {
  string id = 1;
  string name = 2;
}

message GetPetRequest {
  string id = 1;
}

service PetService {
  rpc GetPet(GetPetRequest) returns (Pet);
}
`

func TestValidate_Accepts(t *testing.T) {
	tests := []struct {
		name     string
		language string
		content  string
		want     Info
	}{
		{
			name:     "openapi json",
			language: "json",
			content:  `{"openapi":"3.0.0","info":{"title":"Pets","version":"1"}}`,
			want:     Info{Language: "json", Checked: true, Title: "Pets", Version: "openapi 3.0.0"},
		},
		{
			name:     "swagger yaml",
			language: "YAML",
			content:  "swagger: \"2.0\"\ninfo:\n  title: Legacy\n",
			want:     Info{Language: "yaml", Checked: true, Title: "Legacy", Version: "swagger 2.0"},
		},
		{
			name:     "yaml list",
			language: "yml",
			content:  "- a\n- b\n",
			want:     Info{Language: "yaml", Checked: true},
		},
		{
			name:     "proto",
			language: "proto",
			content:  petsProto,
			want:     Info{Language: "proto", Checked: true, Title: "pets.v1", Version: "proto3", Messages: 2, Services: 1},
		},
		{
			name:     "graphql is not checked",
			language: "graphql",
			content:  "type Query { pets: [String] }",
			want:     Info{Language: "graphql"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Validate(tt.language, tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, info)
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		language string
		content  string
	}{
		{name: "truncated json", language: "json", content: `{"openapi": "3.0.0"`},
		{name: "bad yaml indentation", language: "yaml", content: "a: b\n  c: d\n"},
		{name: "proto missing brace", language: "proto", content: "syntax = \"proto3\";\nmessage Pet {\n  string id = 1;\n"},
		{name: "proto unknown type", language: "protobuf", content: "syntax = \"proto3\";\nmessage Pet {\n  Missing id = 1;\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.language, tt.content)
			require.Error(t, err)

			var validationErr apperrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Message)
		})
	}
}

func TestInfo_String(t *testing.T) {
	assert.Equal(t, "graphql (not checked)", Info{Language: "graphql"}.String())
	assert.Equal(t, "json", Info{Language: "json", Checked: true}.String())
	assert.Equal(t, "json: Pets, openapi 3.0.0", Info{Language: "json", Checked: true, Title: "Pets", Version: "openapi 3.0.0"}.String())
	assert.Equal(t, "proto: pets.v1, proto3, 2 messages, 1 services",
		Info{Language: "proto", Checked: true, Title: "pets.v1", Version: "proto3", Messages: 2, Services: 1}.String())
}
