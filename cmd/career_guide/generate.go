package main

import (
	"context"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/jonathan/career-guide/internal/config"
	"github.com/jonathan/career-guide/internal/guidance"
	"github.com/jonathan/career-guide/internal/observability"
	"github.com/jonathan/career-guide/internal/types"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate guidance for one profile",
	Long: `Generate job roles, resume tips and next steps for one profile, given either
as flags or as a JSON file with the same shape as the HTTP request body.`,
	Example: `  career_guide generate --skill Python --skill SQL --interest "Data Science" --education btech --goal job
  career_guide generate --in profile.json --json`,
	RunE: runGenerate,
}

var (
	genSkills    []string
	genInterests []string
	genEducation string
	genGoal      string
	genInputFile string
	genBackend   string
	genJSON      bool
	genVerbose   bool
)

func init() {
	generateCmd.Flags().StringArrayVarP(&genSkills, "skill", "s", nil, "Skill (repeatable)")
	generateCmd.Flags().StringArrayVarP(&genInterests, "interest", "I", nil, "Career interest from the catalog (repeatable)")
	generateCmd.Flags().StringVarP(&genEducation, "education", "e", "", "Education level (high-school, diploma, btech, mtech, phd, other)")
	generateCmd.Flags().StringVarP(&genGoal, "goal", "g", "", "Career goal (internship, job, higher-studies, not-sure)")
	generateCmd.Flags().StringVarP(&genInputFile, "in", "i", "", "Path to a profile JSON file (overrides profile flags)")
	generateCmd.Flags().StringVar(&genBackend, "backend", "", "Override the configured backend (local or remote)")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "Print the recommendation as JSON")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Also print the profile and, for the local backend, the rules that fired")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	req, err := profileRequest(genInputFile, genSkills, genInterests, genEducation, genGoal)
	if err != nil {
		return err
	}

	profile, err := types.NewProfile(req)
	if err != nil {
		return err
	}

	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if genBackend != "" {
		cfg.Backend = genBackend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout.Std())
	defer cancel()

	gen, closeGen, err := buildGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeGen() }()

	rec, err := gen.Generate(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to generate guidance: %w", err)
	}

	return printRecommendation(cmd.OutOrStdout(), profile, rec, localRules(cfg, profile), genJSON, genVerbose)
}

// localRules names the rules the local engine fired for profile. It returns
// nil when a remote or enhanced backend produced the recommendation.
func localRules(cfg *config.Config, profile types.Profile) []string {
	if cfg.Backend != config.BackendLocal || cfg.Enhance {
		return nil
	}
	return guidance.Explain(profile)
}

// profileRequest reads the request from path when set, otherwise from the flag values.
func profileRequest(path string, skills, interests []string, education, goal string) (types.ProfileRequest, error) {
	if path == "" {
		return types.ProfileRequest{
			Skills:    skills,
			Interests: interests,
			Education: types.Education(education),
			Goal:      types.Goal(goal),
		}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.ProfileRequest{}, fmt.Errorf("failed to read input file: %w", err)
	}

	var req types.ProfileRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return types.ProfileRequest{}, fmt.Errorf("failed to parse profile JSON: %w", err)
	}
	return req, nil
}

func printRecommendation(out io.Writer, profile types.Profile, rec *types.Recommendation, rules []string, asJSON, verbose bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	printer := observability.NewPrinter(out)
	if verbose {
		printer.PrintProfile(profile)
		printer.PrintRules(rules)
	}
	printer.PrintRecommendation(rec)
	return nil
}
