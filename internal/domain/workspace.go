package domain

// Workspace is a Postman workspace, the root of the hierarchy
type Workspace struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"` // "personal" or "team"
	Label string `json:"-"`
}

// API is an API definition living in exactly one workspace
type API struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"-"`
}

// APIVersion is one version of an API
type APIVersion struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"-"`
}

// Schema is the schema attached to an API version
type Schema struct {
	ID       string `json:"id"`
	Type     string `json:"type"`     // e.g. "openapi3", "proto3"
	Language string `json:"language"` // e.g. "json", "yaml", "proto"
	Content  string `json:"schema"`
}

// VersionMeta is the denormalized record kept for every fetched API version.
// It is overwritten as a whole on each successful fetch or sync.
type VersionMeta struct {
	FilePath       string `json:"filePath"`
	APIName        string `json:"apiName"`
	APIID          string `json:"apiId"`
	SchemaID       string `json:"schemaId"`
	VersionName    string `json:"versionName"`
	SchemaType     string `json:"schemaType"`
	SchemaLanguage string `json:"schemaLanguage"`
}

// MetaFor builds the metadata record for a version from its freshly fetched schema.
func MetaFor(api API, version APIVersion, schema Schema, filePath string) VersionMeta {
	return VersionMeta{
		FilePath:       filePath,
		APIName:        api.Name,
		APIID:          api.ID,
		SchemaID:       schema.ID,
		VersionName:    version.Name,
		SchemaType:     schema.Type,
		SchemaLanguage: schema.Language,
	}
}
