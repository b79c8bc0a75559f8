package signals

import (
	"fmt"
	"strings"

	"github.com/clipsight/clipsight/internal/model"
)

// Extractor maps raw multimodal analysis documents into canonical
// VideoSignals records, tracking field-level coverage
type Extractor struct{}

// NewExtractor creates a signal extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Result holds the outcome of one extraction pass. Partial extraction is the
// common, expected case: Success only turns false when no signals could be
// derived at all.
type Result struct {
	Success  bool                `json:"success"`
	Signals  *model.VideoSignals `json:"signals,omitempty"`
	Errors   []string            `json:"errors,omitempty"`
	Coverage float64             `json:"coverage"`
}

// Extract walks the expected field definitions for schemaVersion and
// assembles whatever the untrusted raw document yields. Missing fields are
// not errors; an unknown schema version is.
func (e *Extractor) Extract(raw map[string]interface{}, schemaVersion int, videoID string) (*Result, error) {
	schema, err := ForVersion(schemaVersion)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Signals: &model.VideoSignals{
			VideoID:       videoID,
			SchemaVersion: schemaVersion,
			Extracted:     make(map[string]model.SignalGroup),
			Source:        model.SourceModel,
		},
	}

	if len(raw) == 0 {
		result.Errors = append(result.Errors, "empty raw analysis")
		return result, nil
	}

	populated := 0
	for _, def := range schema.Fields {
		value, found, lookupErr := lookupField(raw, def)
		if lookupErr != "" {
			result.Errors = append(result.Errors, lookupErr)
		}
		if !found {
			continue
		}

		group, ok := result.Signals.Extracted[def.Group]
		if !ok {
			group = make(model.SignalGroup)
			result.Signals.Extracted[def.Group] = group
		}
		group[def.Name] = value
		populated++
	}

	result.Coverage = float64(populated) / float64(schema.ExpectedFieldCount())
	result.Signals.Coverage = result.Coverage
	result.Success = populated > 0

	return result, nil
}

// ApplyOverrides validates reviewer corrections against the record's schema
// and attaches them. Unknown group or field keys are rejected, not silently
// stored, so schema drift cannot leak into the canonical shape.
func ApplyOverrides(signals *model.VideoSignals, overrides map[string]model.SignalGroup) error {
	schema, err := ForVersion(signals.SchemaVersion)
	if err != nil {
		return err
	}

	for group, fields := range overrides {
		for name := range fields {
			if !schema.Allows(group, name) {
				return fmt.Errorf("%w: %s.%s is not defined for schema v%d",
					model.ErrSchemaViolation, group, name, signals.SchemaVersion)
			}
		}
	}

	if signals.HumanOverrides == nil {
		signals.HumanOverrides = make(map[string]model.SignalGroup, len(overrides))
	}
	for group, fields := range overrides {
		target, ok := signals.HumanOverrides[group]
		if !ok {
			target = make(model.SignalGroup, len(fields))
			signals.HumanOverrides[group] = target
		}
		for name, value := range fields {
			target[name] = value
		}
	}

	return nil
}

// lookupField tries each known path for a field and coerces the first hit to
// the field's declared kind. A present-but-wrongly-typed value is reported,
// not stored.
func lookupField(raw map[string]interface{}, def FieldDef) (model.Value, bool, string) {
	for _, path := range def.Paths {
		rawValue, found := lookupPath(raw, path)
		if !found || rawValue == nil {
			continue
		}

		value, ok := coerce(rawValue, def.Kind)
		if !ok {
			return model.Value{}, false, fmt.Sprintf("%s.%s: value at %q has unexpected type %T",
				def.Group, def.Name, path, rawValue)
		}
		return value, true, ""
	}
	return model.Value{}, false, ""
}

// lookupPath walks a dotted path through nested string-keyed maps
func lookupPath(raw map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = raw

	for _, part := range parts {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// coerce converts a loosely-typed value into the declared kind
func coerce(rawValue interface{}, kind model.ValueKind) (model.Value, bool) {
	value, ok := model.ValueFromAny(rawValue)
	if !ok || value.Kind != kind {
		return model.Value{}, false
	}
	return value, true
}
