package domain

import "github.com/google/uuid"

// Session carries the state of one user-initiated flow: who is calling and
// what they picked along the way. It is passed by value through a flow
// instead of living in shared state, so two flows never see each other's
// selection.
type Session struct {
	FlowID    string
	APIKey    string
	Workspace Workspace
	API       API
	Version   APIVersion
	Schema    Schema
}

// NewSession starts a session for the given API key.
func NewSession(apiKey string) Session {
	return Session{
		FlowID: uuid.NewString(),
		APIKey: apiKey,
	}
}

// WithSelection returns a copy of the session pointing at a stored version.
func (s Session) WithSelection(versionID string, meta VersionMeta) Session {
	s.API = API{ID: meta.APIID, Name: meta.APIName, Label: meta.APIName}
	s.Version = APIVersion{ID: versionID, Name: meta.VersionName, Label: meta.VersionName}
	s.Schema = Schema{ID: meta.SchemaID, Type: meta.SchemaType, Language: meta.SchemaLanguage}
	return s
}

// HasSelection reports whether the session points at a publishable schema.
func (s Session) HasSelection() bool {
	return s.API.ID != "" && s.Version.ID != "" && s.Schema.ID != ""
}
