package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"

	"github.com/kordano/jobly/pkg/apperr"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// schemas holds the compiled request-body schemas, keyed by file name without
// extension (company_new, company_update, ...).
var schemas = mustLoadSchemas()

func mustLoadSchemas() map[string]*jsonschema.Schema {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		panic(fmt.Sprintf("read embedded schemas: %v", err))
	}

	out := make(map[string]*jsonschema.Schema, len(entries))
	for _, e := range entries {
		b, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			panic(fmt.Sprintf("read schema %s: %v", e.Name(), err))
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			panic(fmt.Sprintf("compile schema %s: %v", e.Name(), err))
		}
		out[strings.TrimSuffix(e.Name(), ".json")] = rs
	}

	return out
}

// validateBody checks a raw JSON body against a named schema and reports all
// violations in one validation error.
func validateBody(ctx context.Context, name string, body []byte) error {
	rs, ok := schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	keyErrs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return apperr.Validation("invalid json body")
	}
	if len(keyErrs) > 0 {
		msgs := make([]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			msgs = append(msgs, fmt.Sprintf("%s: %s", ke.PropertyPath, ke.Message))
		}
		return apperr.Validation("%s", strings.Join(msgs, "; "))
	}

	return nil
}
