package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipsight/clipsight/internal/pipeline"
)

var (
	similarThreshold float64
	similarCount     int
	similarOut       string
	similarTimeout   time.Duration
)

// similarCmd represents the similar command
var similarCmd = &cobra.Command{
	Use:   "similar <query text>",
	Short: "Find corpus examples most similar to a query",
	Long: `Similar embeds the query text and ranks it against every teaching
example in the corpus, returning the closest matches above the similarity
threshold. An empty result means nothing matched, not that retrieval failed.

Example:
  clipsight similar "deadpan office skit with a twist ending"
  clipsight similar "dance trend" --threshold 0.6 --count 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimilar,
}

func init() {
	rootCmd.AddCommand(similarCmd)

	similarCmd.Flags().Float64Var(&similarThreshold, "threshold", -1, "minimum similarity (default: from config)")
	similarCmd.Flags().IntVar(&similarCount, "count", 0, "maximum results (default: from config)")
	similarCmd.Flags().StringVar(&similarOut, "json", "", "output JSON path (default: human-readable stdout)")
	similarCmd.Flags().DurationVar(&similarTimeout, "timeout", 30*time.Second, "retrieval timeout")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), similarTimeout)
	defer cancel()

	query := strings.Join(args, " ")

	cfg := buildConfig()
	if similarThreshold >= 0 {
		cfg.Retrieval.Threshold = similarThreshold
	}
	if similarCount > 0 {
		cfg.Retrieval.Count = similarCount
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	if err := p.LoadCorpus(); err != nil {
		return err
	}

	matches, err := p.FindSimilar(ctx, query)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if similarOut != "" {
		return writeJSON(matches, similarOut)
	}

	if len(matches) == 0 {
		fmt.Printf("No examples above similarity %.2f (corpus size %d)\n",
			cfg.Retrieval.Threshold, p.Store().Len())
		return nil
	}

	for i, match := range matches {
		example := match.Example
		fmt.Printf("%d. [%.2f] %s\n", i+1, match.Similarity, example.VideoSummary)
		fmt.Printf("   Interpretation: %s\n", example.CorrectInterpretation)
		if len(example.HumorTypes) > 0 {
			fmt.Printf("   Humor: %s\n", strings.Join(example.HumorTypes, ", "))
		}
	}

	return nil
}
