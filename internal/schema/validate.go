// Package schema checks schema bodies before they are published and
// summarizes them for display.
package schema

import (
	"fmt"
	"strings"

	"github.com/jhump/protoreflect/desc/protoparse"
	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/tidwall/gjson"
	"google.golang.org/protobuf/reflect/protoreflect"
	"gopkg.in/yaml.v3"
)

// Languages with a syntax check
const (
	LanguageJSON  = "json"
	LanguageYAML  = "yaml"
	LanguageProto = "proto"
)

// protoFileName is the virtual file name used when parsing a proto body
const protoFileName = "schema.proto"

// Info summarizes a schema body
type Info struct {
	Language string
	Checked  bool   // false when the language has no syntax check
	Title    string // document title, package name for proto
	Version  string // declared format version, e.g. "3.0.0" or "proto3"
	Messages int    // proto only
	Services int    // proto only
}

// String renders a one-line summary
func (i Info) String() string {
	if !i.Checked {
		return i.Language + " (not checked)"
	}
	var parts []string
	if i.Title != "" {
		parts = append(parts, i.Title)
	}
	if i.Version != "" {
		parts = append(parts, i.Version)
	}
	if i.Language == LanguageProto {
		parts = append(parts, fmt.Sprintf("%d messages, %d services", i.Messages, i.Services))
	}
	if len(parts) == 0 {
		return i.Language
	}
	return i.Language + ": " + strings.Join(parts, ", ")
}

// Validate checks that content parses as language and returns a summary.
// Languages without a checker pass unchecked. A syntax error is returned
// as an errors.ValidationError.
func Validate(language, content string) (Info, error) {
	lang := strings.ToLower(strings.TrimSpace(language))
	info := Info{Language: lang}

	switch lang {
	case LanguageJSON:
		return validateJSON(info, content)
	case LanguageYAML, "yml":
		info.Language = LanguageYAML
		return validateYAML(info, content)
	case LanguageProto, "protobuf":
		info.Language = LanguageProto
		return validateProto(info, content)
	}
	return info, nil
}

func validateJSON(info Info, content string) (Info, error) {
	if !gjson.Valid(content) {
		return info, apperrors.ValidationError{Field: LanguageJSON, Message: "schema is not valid JSON"}
	}
	info.Checked = true
	info.Title = gjson.Get(content, "info.title").String()
	info.Version = specVersion(gjson.Get(content, "openapi").String(), gjson.Get(content, "swagger").String())
	return info, nil
}

func validateYAML(info Info, content string) (Info, error) {
	var doc struct {
		OpenAPI string `yaml:"openapi"`
		Swagger string `yaml:"swagger"`
		Info    struct {
			Title string `yaml:"title"`
		} `yaml:"info"`
	}
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(content), &node); err != nil {
		return info, apperrors.ValidationError{Field: LanguageYAML, Message: err.Error()}
	}
	info.Checked = true

	// a document that is not a mapping (e.g. a bare list) has no header to read
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.MappingNode {
		if err := node.Decode(&doc); err == nil {
			info.Title = doc.Info.Title
			info.Version = specVersion(doc.OpenAPI, doc.Swagger)
		}
	}
	return info, nil
}

func validateProto(info Info, content string) (Info, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{protoFileName: content}),
	}
	fds, err := parser.ParseFiles(protoFileName)
	if err != nil {
		return info, apperrors.ValidationError{Field: LanguageProto, Message: err.Error()}
	}
	if len(fds) == 0 {
		return info, apperrors.ValidationError{Field: LanguageProto, Message: "no file descriptor produced"}
	}

	fd := fds[0].UnwrapFile()
	info.Checked = true
	info.Title = string(fd.Package())
	info.Version = syntaxName(fd.Syntax())
	info.Messages = fd.Messages().Len()
	info.Services = fd.Services().Len()
	return info, nil
}

func syntaxName(s protoreflect.Syntax) string {
	switch s {
	case protoreflect.Proto2:
		return "proto2"
	case protoreflect.Proto3:
		return "proto3"
	case protoreflect.Editions:
		return "editions"
	}
	return ""
}

func specVersion(openapi, swagger string) string {
	if openapi != "" {
		return "openapi " + openapi
	}
	if swagger != "" {
		return "swagger " + swagger
	}
	return ""
}
