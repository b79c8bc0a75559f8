package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipsight/clipsight/internal/pipeline"
)

var promoteTimeout time.Duration

// promoteCmd represents the promote command
var promoteCmd = &cobra.Command{
	Use:   "promote <corrected.json>",
	Short: "Promote a human correction into the teaching-example corpus",
	Long: `Promote validates a corrected analysis, computes its embedding from
the canonical concatenation of its descriptive fields, appends it to the
corpus and persists the corpus. Existing examples are never overwritten.

Example:
  clipsight promote corrected.json`,
	Args: cobra.ExactArgs(1),
	RunE: runPromote,
}

func init() {
	rootCmd.AddCommand(promoteCmd)

	promoteCmd.Flags().DurationVar(&promoteTimeout, "timeout", 30*time.Second, "promotion timeout")
}

func runPromote(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), promoteTimeout)
	defer cancel()

	corrected, err := pipeline.LoadCorrected(args[0])
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(buildConfig())
	if err != nil {
		return err
	}
	if err := p.LoadCorpus(); err != nil {
		return err
	}

	example, err := p.Promote(ctx, corrected)
	if err != nil {
		return fmt.Errorf("promote failed: %w", err)
	}

	fmt.Printf("Promoted example %s (corpus size %d)\n", example.ID, p.Store().Len())
	return nil
}
