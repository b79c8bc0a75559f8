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
	evalOut     string
	evalTimeout time.Duration
	evalAccept  bool
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the configured analysis strategy against the corpus",
	Long: `Eval re-analyzes every teaching example with the configured LLM,
scores each candidate output against the human correction by embedding
similarity (cosine x 100), and reports deltas versus recorded baselines.

With --accept, the new scores are recorded as baselines for the next run.

Example:
  clipsight eval
  clipsight eval --json report.json
  clipsight eval --accept`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&evalOut, "json", "", "output JSON path (default: summary to stdout)")
	evalCmd.Flags().DurationVar(&evalTimeout, "timeout", 15*time.Minute, "total evaluation timeout")
	evalCmd.Flags().BoolVar(&evalAccept, "accept", false, "record new scores as baselines")
}

func runEval(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	p, err := pipeline.NewPipeline(buildConfig())
	if err != nil {
		return err
	}
	if err := p.LoadCorpus(); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Evaluating %d examples\n", p.Store().Len())
	}

	report, err := p.Evaluate(ctx)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if evalAccept {
		for _, item := range report.Items {
			if err := p.Store().SetBaseline(item.ExampleID, item.NewScore); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: baseline not recorded for %s: %v\n", item.ExampleID, err)
			}
		}
		if err := p.SaveCorpus(); err != nil {
			return fmt.Errorf("persist baselines: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Recorded %d baselines\n", len(report.Items))
	}

	if evalOut != "" {
		return writeJSON(report, evalOut)
	}

	fmt.Printf("Strategy:       %s\n", report.Strategy)
	fmt.Printf("Evaluated:      %d\n", report.Evaluated)
	fmt.Printf("Compared:       %d (with baselines)\n", report.Compared)
	fmt.Printf("Improved:       %d (%.1f%%)\n", report.Improved, report.ImprovedPercent)
	fmt.Printf("Mean baseline:  %.1f\n", report.MeanBaseline)
	fmt.Printf("Mean new:       %.1f\n", report.MeanNew)
	fmt.Printf("Mean delta:     %+.1f\n", report.MeanDelta)
	if len(report.Failed) > 0 {
		fmt.Printf("Failed:         %d excluded from aggregate\n", len(report.Failed))
	}

	return nil
}
