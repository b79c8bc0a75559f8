package examples

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clipsight/clipsight/internal/model"
)

// corpusFile is the on-disk corpus shape
type corpusFile struct {
	Examples []json.RawMessage `json:"examples"`
}

// LoadFile restores a previously saved corpus into the store. Stored vectors
// are reused as-is — re-embedding would only be needed if the source text
// changed, which an append-only corpus never does.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // A missing corpus is an empty corpus
		}
		return fmt.Errorf("read corpus: %w", err)
	}

	var file corpusFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse corpus: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, raw := range file.Examples {
		var example model.TeachingExample
		if err := json.Unmarshal(raw, &example); err != nil {
			return fmt.Errorf("parse corpus entry %d: %w", i, err)
		}
		if _, exists := s.byID[example.ID]; exists {
			continue
		}
		s.examples = append(s.examples, example)
		s.byID[example.ID] = len(s.examples) - 1
	}

	return nil
}

// SaveFile writes the corpus atomically (temp file + rename)
func (s *Store) SaveFile(path string) error {
	s.mu.RLock()
	file := corpusFile{Examples: make([]json.RawMessage, 0, len(s.examples))}
	for _, example := range s.examples {
		raw, err := json.Marshal(example)
		if err != nil {
			s.mu.RUnlock()
			return fmt.Errorf("marshal example %s: %w", example.ID, err)
		}
		file.Examples = append(file.Examples, raw)
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal corpus: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create corpus dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".corpus-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close corpus: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace corpus: %w", err)
	}

	return nil
}
