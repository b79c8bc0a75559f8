package model

// ExtractionSource tags the provenance of a signal record
type ExtractionSource string

const (
	SourceModel  ExtractionSource = "model"  // Derived from the multimodal analysis
	SourceManual ExtractionSource = "manual" // Entered or corrected by a reviewer
)

// SignalGroup maps field names to tagged values within one named group.
// Absence of a field means "not observed", never zero.
type SignalGroup map[string]Value

// VideoSignals is the canonical, schema-versioned signal record for one video.
// A record is only valid under the extractor built for its SchemaVersion.
type VideoSignals struct {
	VideoID       string                 `json:"video_id"`
	SchemaVersion int                    `json:"schema_version"`
	Extracted     map[string]SignalGroup `json:"extracted"`
	// HumanOverrides has the same shape as Extracted; a field present here
	// wins over the extracted field when the two are merged.
	HumanOverrides map[string]SignalGroup `json:"human_overrides,omitempty"`
	Source         ExtractionSource       `json:"extraction_source"`
	// Coverage is the fraction of expected fields populated by extraction.
	// A quality signal about the extraction, not about the video.
	Coverage float64 `json:"coverage"`
}

// Merged returns extracted signals with human overrides applied field by
// field. A reviewer correcting one field of a group must not erase sibling
// fields supplied by extraction. The receiver is not modified.
func (s *VideoSignals) Merged() map[string]SignalGroup {
	merged := make(map[string]SignalGroup, len(s.Extracted))
	for group, fields := range s.Extracted {
		out := make(SignalGroup, len(fields))
		for name, v := range fields {
			out[name] = v
		}
		merged[group] = out
	}
	for group, fields := range s.HumanOverrides {
		out, ok := merged[group]
		if !ok {
			out = make(SignalGroup, len(fields))
			merged[group] = out
		}
		for name, v := range fields {
			out[name] = v
		}
	}
	return merged
}

// FieldCount returns the number of populated fields across all groups
func (s *VideoSignals) FieldCount() int {
	count := 0
	for _, fields := range s.Extracted {
		count += len(fields)
	}
	return count
}
