// Package remotetest provides an in-process fake of the Postman API for tests.
package remotetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Key is the API key the fake server accepts
const Key = "PMAK-test"

// Schema is a schema held by the fake server
type Schema struct {
	ID       string
	Type     string
	Language string
	Content  string
}

// Version is an API version held by the fake server
type Version struct {
	ID       string
	Name     string
	SchemaID string // empty means the version has no schema
}

// Server is a fake Postman API backed by an in-memory hierarchy.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	workspaces []map[string]any
	apis       map[string][]map[string]any // workspace id -> apis
	versions   map[string][]Version        // api id -> versions
	schemas    map[string]Schema           // schema id -> schema
	failures   map[string]int              // path -> status; 0 drops the connection
	requests   []string
	published  map[string]string // schema id -> last published body
}

// NewServer starts a fake server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		apis:      make(map[string][]map[string]any),
		versions:  make(map[string][]Version),
		schemas:   make(map[string]Schema),
		failures:  make(map[string]int),
		published: make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /workspaces", s.handleWorkspaces)
	mux.HandleFunc("GET /apis", s.handleAPIs)
	mux.HandleFunc("GET /apis/{api}/versions", s.handleVersions)
	mux.HandleFunc("GET /apis/{api}/versions/{version}", s.handleVersion)
	mux.HandleFunc("GET /apis/{api}/versions/{version}/schemas/{schema}", s.handleGetSchema)
	mux.HandleFunc("PUT /apis/{api}/versions/{version}/schemas/{schema}", s.handlePutSchema)

	s.Server = httptest.NewServer(s.intercept(mux))
	t.Cleanup(s.Close)
	return s
}

// AddWorkspace registers a workspace
func (s *Server) AddWorkspace(id, name, kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces = append(s.workspaces, map[string]any{"id": id, "name": name, "type": kind})
}

// AddAPI registers an API inside a workspace
func (s *Server) AddAPI(workspaceID, id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apis[workspaceID] = append(s.apis[workspaceID], map[string]any{"id": id, "name": name})
}

// AddVersion registers a version of an API together with its schema
func (s *Server) AddVersion(apiID string, v Version, schema *Schema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[apiID] = append(s.versions[apiID], v)
	if schema != nil {
		s.schemas[schema.ID] = *schema
	}
}

// FailPath makes every request to path answer with status. A zero status
// drops the connection instead, producing a transport error on the client.
func (s *Server) FailPath(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// Requests returns the "METHOD path" lines received so far
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// Published returns the last body published for a schema id
func (s *Server) Published(schemaID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.published[schemaID]
	return body, ok
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.RequestURI())
		status, failing := s.failures[r.URL.Path]
		s.mu.Unlock()

		if r.Header.Get("X-Api-Key") != Key {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]string{"name": "AuthenticationError"}})
			return
		}
		if failing {
			if status == 0 {
				dropConnection(w)
				return
			}
			writeJSON(w, status, map[string]any{"error": map[string]string{"name": "injected"}})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleWorkspaces(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspaces == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workspaces": s.workspaces})
}

func (s *Server) handleAPIs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apis, ok := s.apis[r.URL.Query().Get("workspace")]
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"apis": apis})
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	versions, ok := s.versions[r.PathValue("api")]
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	out := make([]map[string]any, 0, len(versions))
	for _, v := range versions {
		out = append(out, map[string]any{"id": v.ID, "name": v.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": out})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.findVersion(r.PathValue("api"), r.PathValue("version"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]string{"name": "instanceNotFoundError"}})
		return
	}
	version := map[string]any{"id": v.ID, "name": v.Name}
	if v.SchemaID != "" {
		version["schema"] = []string{v.SchemaID}
	}
	writeJSON(w, http.StatusOK, map[string]any{"version": version})
}

func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	schema, ok := s.schemas[r.PathValue("schema")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]string{"name": "instanceNotFoundError"}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schema": map[string]any{
		"id":       schema.ID,
		"type":     schema.Type,
		"language": schema.Language,
		"schema":   schema.Content,
	}})
}

func (s *Server) handlePutSchema(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Schema struct {
			Type     string `json:"type"`
			Language string `json:"language"`
			Schema   string `json:"schema"`
		} `json:"schema"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]string{"name": "malformedRequestError"}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("schema")
	schema, ok := s.schemas[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]string{"name": "instanceNotFoundError"}})
		return
	}
	schema.Type = body.Schema.Type
	schema.Language = body.Schema.Language
	schema.Content = body.Schema.Schema
	s.schemas[id] = schema
	s.published[id] = body.Schema.Schema
	writeJSON(w, http.StatusOK, map[string]any{"schema": map[string]any{"id": id}})
}

func (s *Server) findVersion(apiID, versionID string) (Version, bool) {
	for _, v := range s.versions[apiID] {
		if v.ID == versionID {
			return v, true
		}
	}
	return Version{}, false
}

// SchemaPath returns the request path of a schema, for use with FailPath
func SchemaPath(apiID, versionID, schemaID string) string {
	return strings.Join([]string{"", "apis", apiID, "versions", versionID, "schemas", schemaID}, "/")
}

// VersionPath returns the request path of a version, for use with FailPath
func VersionPath(apiID, versionID string) string {
	return strings.Join([]string{"", "apis", apiID, "versions", versionID}, "/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func dropConnection(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic("remotetest: response writer cannot hijack")
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		panic(err)
	}
	conn.Close()
}
