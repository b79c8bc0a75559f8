package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipsight/clipsight/internal/pipeline"
)

var (
	extractOut     string
	extractTimeout time.Duration
	llmProvider    string
	llmModel       string
	noLLM          bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <rating.json>",
	Short: "Extract structured signals and criteria for one video",
	Long: `Extract runs both halves of the extraction pipeline over one input
document:
- Signal extraction maps the raw multimodal analysis into the canonical
  schema-versioned signal record, tracking field-level coverage
- Criteria extraction converts the reviewer's free-text notes into typed
  criteria, via the configured LLM with a deterministic keyword fallback

Example:
  clipsight extract rating.json
  clipsight extract rating.json --json report.json
  clipsight extract rating.json --no-llm`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractOut, "json", "", "output JSON path (default: stdout)")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 2*time.Minute, "overall extraction timeout")
	extractCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider override (openai, anthropic, ollama)")
	extractCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model override")
	extractCmd.Flags().BoolVar(&noLLM, "no-llm", false, "skip the LLM, keyword fallback only")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	doc, err := pipeline.LoadRatingDocument(args[0])
	if err != nil {
		return err
	}

	cfg := buildConfig()
	if noLLM {
		cfg.LLM.Provider = ""
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		applyAPIKeys(cfg)
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	report, err := p.ProcessRating(ctx, doc)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	if verbose {
		if report.Signals != nil {
			fmt.Fprintf(os.Stderr, "Signals: coverage %.0f%%, %d extraction errors\n",
				report.Coverage*100, len(report.Errors))
		}
		if report.Criteria != nil {
			fmt.Fprintf(os.Stderr, "Criteria: %d fields, confidence %.2f, via %s\n",
				len(report.Criteria.Criteria), report.Criteria.Confidence, report.Criteria.Model)
		}
	}

	return writeJSON(report, extractOut)
}
