package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// writeJSON renders v as indented JSON to path, or to stdout when path is ""
func writeJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	if path == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote: %s\n", path)
	}
	return nil
}
