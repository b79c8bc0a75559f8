package signals

import (
	"fmt"

	"github.com/clipsight/clipsight/internal/model"
)

// FieldDef describes one expected signal field for a schema version. Paths
// lists the known locations of the field inside the raw analysis document,
// tried in order — the raw shape is itself versioned and drifts.
type FieldDef struct {
	Group string
	Name  string
	Kind  model.ValueKind
	Paths []string
}

// Schema holds the full field table for one schema version
type Schema struct {
	Version int
	Fields  []FieldDef
}

// schemas is the version lookup table. Adding a version means adding an
// entry here, never branching inside shared extraction logic.
var schemas = map[int]Schema{
	1: {
		Version: 1,
		Fields: []FieldDef{
			{Group: "replicability", Name: "difficulty", Kind: model.KindNumber,
				Paths: []string{"replication.difficulty", "replicability.score"}},
			{Group: "replicability", Name: "requires_acting", Kind: model.KindBool,
				Paths: []string{"replication.requires_acting", "performance.acting_required"}},
			{Group: "replicability", Name: "setup_complexity", Kind: model.KindNumber,
				Paths: []string{"replication.setup_complexity", "replication.setup"}},
			{Group: "replicability", Name: "props_required", Kind: model.KindBool,
				Paths: []string{"replication.props_required", "replication.needs_props"}},
			{Group: "audience", Name: "target_generation", Kind: model.KindCategory,
				Paths: []string{"audience.target_generation", "audience.generation"}},
			{Group: "audience", Name: "niche_appeal", Kind: model.KindNumber,
				Paths: []string{"audience.niche_appeal", "audience.niche"}},
			{Group: "audience", Name: "relatability", Kind: model.KindNumber,
				Paths: []string{"audience.relatability"}},
			{Group: "content_classification", Name: "humor_style", Kind: model.KindCategory,
				Paths: []string{"classification.humor_style", "content.humor_style"}},
			{Group: "content_classification", Name: "format", Kind: model.KindCategory,
				Paths: []string{"classification.format", "content.format"}},
			{Group: "content_classification", Name: "hook_type", Kind: model.KindCategory,
				Paths: []string{"classification.hook_type", "content.hook"}},
		},
	},
	2: {
		Version: 2,
		Fields: []FieldDef{
			// v2 analyzers nest everything under "analysis"; the v1 paths
			// remain as fallbacks for mixed-era documents.
			{Group: "replicability", Name: "difficulty", Kind: model.KindNumber,
				Paths: []string{"analysis.replication.difficulty", "replication.difficulty"}},
			{Group: "replicability", Name: "requires_acting", Kind: model.KindBool,
				Paths: []string{"analysis.replication.requires_acting", "replication.requires_acting"}},
			{Group: "replicability", Name: "setup_complexity", Kind: model.KindNumber,
				Paths: []string{"analysis.replication.setup_complexity", "replication.setup_complexity"}},
			{Group: "replicability", Name: "props_required", Kind: model.KindBool,
				Paths: []string{"analysis.replication.props_required", "replication.props_required"}},
			{Group: "audience", Name: "target_generation", Kind: model.KindCategory,
				Paths: []string{"analysis.audience.target_generation", "audience.target_generation"}},
			{Group: "audience", Name: "niche_appeal", Kind: model.KindNumber,
				Paths: []string{"analysis.audience.niche_appeal", "audience.niche_appeal"}},
			{Group: "audience", Name: "relatability", Kind: model.KindNumber,
				Paths: []string{"analysis.audience.relatability", "audience.relatability"}},
			{Group: "content_classification", Name: "humor_style", Kind: model.KindCategory,
				Paths: []string{"analysis.classification.humor_style", "classification.humor_style"}},
			{Group: "content_classification", Name: "format", Kind: model.KindCategory,
				Paths: []string{"analysis.classification.format", "classification.format"}},
			{Group: "content_classification", Name: "hook_type", Kind: model.KindCategory,
				Paths: []string{"analysis.classification.hook_type", "classification.hook_type"}},
			{Group: "content_classification", Name: "trend_alignment", Kind: model.KindNumber,
				Paths: []string{"analysis.classification.trend_alignment"}},
		},
	},
}

// LatestVersion is the newest schema version known to this build
const LatestVersion = 2

// ForVersion returns the schema table for a version
func ForVersion(version int) (Schema, error) {
	schema, ok := schemas[version]
	if !ok {
		return Schema{}, fmt.Errorf("%w: unknown schema version %d", model.ErrSchemaViolation, version)
	}
	return schema, nil
}

// ExpectedFieldCount returns the total number of expected fields
func (s Schema) ExpectedFieldCount() int {
	return len(s.Fields)
}

// Allows reports whether group/field is part of this schema's defined set
func (s Schema) Allows(group, field string) bool {
	for _, def := range s.Fields {
		if def.Group == group && def.Name == field {
			return true
		}
	}
	return false
}
