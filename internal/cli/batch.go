package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipsight/clipsight/internal/pipeline"
)

var (
	batchOut     string
	batchTimeout time.Duration
	chunkSize    int
	chunkDelay   time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <ratings.json>",
	Short: "Run criteria extraction over many ratings",
	Long: `Batch processes a JSON array of ratings in fixed-size groups with an
inter-group delay, respecting upstream rate limits. Output order matches
input order; a failure on one item never aborts the run.

Example:
  clipsight batch ratings.json
  clipsight batch ratings.json --chunk-size 10 --chunk-delay 1s
  clipsight batch ratings.json --json results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchOut, "json", "", "output JSON path (default: stdout)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "items per processing group (default: from config)")
	batchCmd.Flags().DurationVar(&chunkDelay, "chunk-delay", -1, "delay between groups (default: from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	ratings, err := pipeline.LoadRatings(args[0])
	if err != nil {
		return err
	}

	cfg := buildConfig()
	if chunkSize > 0 {
		cfg.Batch.ChunkSize = chunkSize
	}
	if chunkDelay >= 0 {
		cfg.Batch.ChunkDelay = chunkDelay
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Processing %d ratings in groups of %d (delay %v)\n",
			len(ratings), cfg.Batch.ChunkSize, cfg.Batch.ChunkDelay)
	}

	result, err := p.BatchExtract(ctx, ratings)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("batch failed: %w", err)
	}
	interrupted := err != nil

	fmt.Fprintf(os.Stderr, "Processed %d/%d ratings in %d groups, %d failed\n",
		len(result.Results), len(ratings), result.Groups, len(result.Failed))
	if interrupted {
		fmt.Fprintf(os.Stderr, "Run interrupted; partial results preserved\n")
	}

	return writeJSON(result, batchOut)
}
