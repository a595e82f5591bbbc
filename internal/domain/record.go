package domain

// Kind identifies which level of the hierarchy a stored record belongs to
type Kind string

const (
	KindWorkspace  Kind = "workspace"
	KindAPI        Kind = "api"
	KindAPIVersion Kind = "apiVersion"
)

// Record is the element type of every list held by the keyed store.
// Kind is stamped by the store on write and kept apart from Type, which is
// the remote workspace type and is empty for APIs and versions.
type Record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	Kind Kind   `json:"kind"`
}

// WorkspaceRecord converts a workspace into its stored form.
func WorkspaceRecord(ws Workspace) Record {
	return Record{ID: ws.ID, Name: ws.Name, Type: ws.Type, Kind: KindWorkspace}
}

// APIRecord converts an API into its stored form.
func APIRecord(api API) Record {
	return Record{ID: api.ID, Name: api.Name, Kind: KindAPI}
}

// VersionRecord converts an API version into its stored form.
func VersionRecord(v APIVersion) Record {
	return Record{ID: v.ID, Name: v.Name, Kind: KindAPIVersion}
}

// API returns the record as an API.
func (r Record) API() API {
	return API{ID: r.ID, Name: r.Name, Label: r.Name}
}

// APIVersion returns the record as an API version.
func (r Record) APIVersion() APIVersion {
	return APIVersion{ID: r.ID, Name: r.Name, Label: r.Name}
}
