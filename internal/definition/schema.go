package definition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/fragebogen/internal/widgets"
)

const schemaURL = "schema://fragebogen-definition.json"

var durationPattern = `^-?([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

// Schema returns the JSON schema every definition is validated against.
func Schema() map[string]any {
	str := map[string]any{"type": "string"}
	boolean := map[string]any{"type": "boolean"}
	integer := map[string]any{"type": "integer"}
	duration := map[string]any{"type": "string", "pattern": durationPattern}
	list := map[string]any{"type": "array", "items": str}
	offset := map[string]any{"type": "integer", "not": map[string]any{"const": 0}}

	kinds := make([]any, 0, len(widgets.Kinds()))
	for _, k := range widgets.Kinds() {
		kinds = append(kinds, string(k))
	}
	screenKinds := make([]any, 0, len(ScreenKinds))
	for _, k := range ScreenKinds {
		screenKinds = append(screenKinds, string(k))
	}

	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"kind":               map[string]any{"type": "string", "enum": kinds},
			"question":           str,
			"required":           boolean,
			"hidden":             boolean,
			"text":               str,
			"options":            map[string]any{"type": "array", "items": str, "minItems": 1},
			"labels":             list,
			"content":            map[string]any{},
			"min":                integer,
			"max":                integer,
			"min_date":           str,
			"max_date":           str,
			"pattern":            str,
			"rows":               map[string]any{"type": "integer", "minimum": 0},
			"cols":               map[string]any{"type": "integer", "minimum": 0},
			"placeholder":        str,
			"caption_left":       str,
			"caption_right":      str,
			"urls":               map[string]any{"type": "array", "items": str, "minItems": 1},
			"duration":           duration,
			"ready_on_error":     boolean,
			"repeatable":         boolean,
			"replay_label":       str,
			"retries":            map[string]any{"type": "integer", "minimum": -1},
			"delay":              duration,
			"ready_mode":         map[string]any{"type": "integer", "minimum": 0, "maximum": 5},
			"url":                map[string]any{"type": "string", "pattern": `^wss?://`},
			"send":               str,
			"expect":             str,
			"reconnect_attempts": map[string]any{"type": "integer", "minimum": -1},
			"timeout":            duration,
		},
		"required":             []any{"kind"},
		"additionalProperties": false,
	}

	paginator := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"back":       offset,
			"next":       offset,
			"back_label": str,
			"next_label": str,
		},
		"anyOf": []any{
			map[string]any{"required": []any{"back"}},
			map[string]any{"required": []any{"next"}},
		},
		"additionalProperties": false,
	}

	screen := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"kind":         map[string]any{"type": "string", "enum": screenKinds},
			"title":        str,
			"items":        map[string]any{"type": "array", "items": item},
			"paginator":    paginator,
			"message":      str,
			"delay":        duration,
			"changelog":    boolean,
			"url":          map[string]any{"type": "string", "pattern": `^https?://`},
			"param":        str,
			"timeout":      duration,
			"retry_delay":  duration,
			"max_attempts": map[string]any{"type": "integer", "minimum": 0},
			"next_on_fail": boolean,
			"fail_message": str,
			"path":         str,
			"format":       map[string]any{"type": "string", "enum": []any{"csv", "xlsx"}},
		},
		"required": []any{"kind"},
		"allOf": []any{
			requireWhen([]any{"elements", "auto", "sequential"}, "items"),
			requireWhen([]any{"upload"}, "url"),
			forbidWhen([]any{"auto"}, "paginator"),
		},
		"additionalProperties": false,
	}

	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"title":   "fragebogen questionnaire definition",
		"type":    "object",
		"properties": map[string]any{
			"version": str,
			"title":   str,
			"screens": map[string]any{"type": "array", "items": screen, "minItems": 1},
		},
		"required":             []any{"version", "screens"},
		"additionalProperties": false,
	}
}

// requireWhen requires field on screens whose kind is one of kinds.
func requireWhen(kinds []any, field string) map[string]any {
	return map[string]any{
		"if": map[string]any{
			"properties": map[string]any{"kind": map[string]any{"enum": kinds}},
		},
		"then": map[string]any{"required": []any{field}},
	}
}

// forbidWhen rejects field on screens whose kind is one of kinds.
func forbidWhen(kinds []any, field string) map[string]any {
	return map[string]any{
		"if": map[string]any{
			"properties": map[string]any{"kind": map[string]any{"enum": kinds}},
		},
		"then": map[string]any{"not": map[string]any{"required": []any{field}}},
	}
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		def, compileErr = roundTrip(Schema())
		if compileErr != nil {
			return
		}
		c := jsonschema.NewCompiler()
		if compileErr = c.AddResource(schemaURL, def); compileErr != nil {
			compileErr = fmt.Errorf("add resource: %w", compileErr)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// roundTrip turns v into the plain JSON value tree the validator expects.
func roundTrip(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(b))
}

// Validate checks a decoded definition document against Schema.
func Validate(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile definition schema: %w", err)
	}
	parsed, err := roundTrip(doc)
	if err != nil {
		return fmt.Errorf("definition is not representable as JSON: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("invalid definition: %w", err)
	}
	return nil
}
