// Package workflowfile recognizes workflow documents by their shape.
//
// A file counts as a workflow when it parses as a JSON object with a
// top-level "nodes" or "connections" key. Nothing deeper is checked.
package workflowfile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Check reports whether data is a structurally valid workflow document.
// Malformed JSON yields false.
func Check(data []byte) bool {
	ok, _ := Inspect(data)
	return ok
}

// Inspect behaves like Check and also returns the reason a document was
// rejected. The reason is empty for accepted documents. The whole input must
// be one UTF-8 JSON value; trailing data is a parse failure.
func Inspect(data []byte) (bool, string) {
	schema, err := loadSchema()
	if err != nil {
		return false, fmt.Sprintf("schema: %v", err)
	}
	if !utf8.Valid(data) {
		return false, "parse: invalid UTF-8"
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, fmt.Sprintf("parse: %v", err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return false, fmt.Sprintf("parse: %v", err)
	}
	if result.Valid() {
		return true, ""
	}
	reasons := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		reasons = append(reasons, desc.Description())
	}
	return false, strings.Join(reasons, "; ")
}

// CheckFile reads path and runs Check on its contents. Read failures are
// returned so callers can decide whether to treat them as rejection.
func CheckFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return Check(data), nil
}
