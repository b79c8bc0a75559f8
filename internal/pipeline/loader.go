package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/clipsight/clipsight/internal/model"
)

// RatingDocument is the input for a single-video extraction run: the raw
// multimodal analysis plus the reviewer's rating. The raw analysis shape is
// not controlled by this engine and is treated as untrusted input.
type RatingDocument struct {
	VideoID       string                 `json:"video_id"`
	SchemaVersion int                    `json:"schema_version"`
	RawAnalysis   map[string]interface{} `json:"raw_analysis"`
	Rating        model.Rating           `json:"rating"`
}

// CorrectedAnalysis is the input for promoting a human correction into the
// teaching-example corpus
type CorrectedAnalysis struct {
	ID                    string               `json:"id,omitempty"`
	VideoSummary          string               `json:"video_summary"`
	CorrectInterpretation string               `json:"correct_interpretation"`
	Explanation           string               `json:"explanation,omitempty"`
	Tags                  []string             `json:"tags,omitempty"`
	HumorTypes            []string             `json:"humor_types,omitempty"`
	DeepReasoning         *model.DeepReasoning `json:"deep_reasoning,omitempty"`
}

// LoadRatingDocument reads and validates one extraction input file
func LoadRatingDocument(path string) (*RatingDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var doc RatingDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse input: %v", model.ErrInvalidInput, err)
	}

	if strings.TrimSpace(doc.VideoID) == "" {
		return nil, fmt.Errorf("%w: video_id is required", model.ErrInvalidInput)
	}
	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = 1
	}
	if doc.Rating.ID == "" {
		doc.Rating.ID = doc.VideoID
	}

	return &doc, nil
}

// LoadRatings reads a batch input file: a JSON array of ratings
func LoadRatings(path string) ([]model.Rating, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var ratings []model.Rating
	if err := json.Unmarshal(data, &ratings); err != nil {
		return nil, fmt.Errorf("%w: parse input: %v", model.ErrInvalidInput, err)
	}
	if len(ratings) == 0 {
		return nil, fmt.Errorf("%w: no ratings in input", model.ErrInvalidInput)
	}

	for i, rating := range ratings {
		if strings.TrimSpace(rating.ID) == "" {
			return nil, fmt.Errorf("%w: rating %d has no id", model.ErrInvalidInput, i)
		}
	}

	return ratings, nil
}

// LoadCorrected reads a promotion input file
func LoadCorrected(path string) (*CorrectedAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var corrected CorrectedAnalysis
	if err := json.Unmarshal(data, &corrected); err != nil {
		return nil, fmt.Errorf("%w: parse input: %v", model.ErrInvalidInput, err)
	}

	return &corrected, nil
}
