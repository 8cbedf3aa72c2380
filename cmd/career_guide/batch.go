package main

import (
	"context"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/jonathan/career-guide/internal/guidance"
	"github.com/jonathan/career-guide/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate guidance for a JSON array of profiles",
	Long: `Read a JSON array of profile requests, validate every entry, generate guidance
concurrently and write a JSON array of recommendations in input order.`,
	RunE: runBatch,
}

var (
	batchInputFile   string
	batchOutputFile  string
	batchConcurrency int
)

func init() {
	batchCmd.Flags().StringVarP(&batchInputFile, "in", "i", "", "Path to a JSON array of profiles (required)")
	batchCmd.Flags().StringVarP(&batchOutputFile, "out", "o", "", "Output path (defaults to stdout)")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 4, "Maximum concurrent generations")

	_ = batchCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(batchInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	profiles, err := parseProfiles(data)
	if err != nil {
		return err
	}

	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	gen, closeGen, err := buildGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeGen() }()

	recs, err := generateAll(ctx, gen, profiles, batchConcurrency)
	if err != nil {
		return err
	}
	logger.Info("batch complete", zap.Int("profiles", len(recs)))

	out := cmd.OutOrStdout()
	if batchOutputFile != "" {
		f, err := os.Create(batchOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	return writeRecommendations(out, recs)
}

// parseProfiles decodes and validates every entry; the first invalid entry fails the batch.
func parseProfiles(data []byte) ([]types.Profile, error) {
	var reqs []types.ProfileRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("failed to parse profiles JSON: %w", err)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("input contains no profiles")
	}

	profiles := make([]types.Profile, len(reqs))
	for i, req := range reqs {
		p, err := types.NewProfile(req)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
		profiles[i] = p
	}
	return profiles, nil
}

// generateAll runs gen over profiles with at most concurrency calls in flight.
// Results keep input order. The first failure cancels the rest.
func generateAll(ctx context.Context, gen guidance.Generator, profiles []types.Profile, concurrency int) ([]types.Recommendation, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	recs := make([]types.Recommendation, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, p := range profiles {
		i, p := i, p
		g.Go(func() error {
			rec, err := gen.Generate(gctx, p)
			if err != nil {
				return fmt.Errorf("profile %d: %w", i, err)
			}
			recs[i] = *rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return recs, nil
}

func writeRecommendations(out io.Writer, recs []types.Recommendation) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("failed to write recommendations: %w", err)
	}
	return nil
}
