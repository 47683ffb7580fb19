package main

import (
	"context"
	"fmt"
	"os"

	"abstop/adapters/gibbs"
	"abstop/adapters/report"
	"abstop/adapters/simulate"
	"abstop/adapters/tabular"
	"abstop/app"
	"abstop/domain/experiment"
	"abstop/internal"
	"abstop/internal/config"
	"abstop/internal/testkit"
	"abstop/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "abstop",
		Short: "Bayesian early-stopping analysis for revenue A/B tests",
		Long: `abstop decides whether an online revenue experiment should be stopped
early. It fits a Bayesian hurdle log-normal model to per-customer revenue,
projects each posterior draw to a hypothetical sample, and stops when the
95% highest-density interval of the projected loss reaches the acceptable
loss threshold.`,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(cfg),
		newDemoCmd(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// analysisFlags binds the sampling and decision knobs shared by commands
type analysisFlags struct {
	seed       int64
	draws      int
	chains     int
	warmup     int
	projectedN int
	threshold  float64
	mass       float64
	htmlOut    string
}

func (f *analysisFlags) register(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().Int64Var(&f.seed, "seed", cfg.Sampler.Seed, "Random seed for deterministic sampling")
	cmd.Flags().IntVar(&f.draws, "draws", cfg.Sampler.Draws, "Posterior draws to keep across all chains")
	cmd.Flags().IntVar(&f.chains, "chains", cfg.Sampler.Chains, "Number of sampling chains")
	cmd.Flags().IntVar(&f.warmup, "warmup", cfg.Sampler.Warmup, "Warmup iterations per chain")
	cmd.Flags().IntVar(&f.projectedN, "projected-n", cfg.Decision.ProjectedN, "Hypothetical per-arm sample size for cost projection")
	cmd.Flags().Float64Var(&f.threshold, "threshold", cfg.Decision.Threshold, "Maximum acceptable revenue loss")
	cmd.Flags().Float64Var(&f.mass, "mass", cfg.Decision.Mass, "Probability mass of the decision interval")

	htmlDefault := cfg.Report.OutPath
	if htmlDefault == "" && cfg.Report.HTML {
		htmlDefault = "report.html"
	}
	cmd.Flags().StringVar(&f.htmlOut, "html", htmlDefault, "Write the report as HTML to this path")
}

func (f *analysisFlags) params() app.AnalysisParams {
	return app.AnalysisParams{
		ProjectedN: f.projectedN,
		Threshold:  f.threshold,
		Mass:       f.mass,
		Fit: ports.FitOptions{
			Draws:  f.draws,
			Chains: f.chains,
			Warmup: f.warmup,
			Seed:   f.seed,
		},
	}
}

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Run the early-stopping analysis on an experiment export",
		Long: `Analyze a (group, revenue) export in CSV or xlsx form.

Example: abstop analyze revenue.csv --threshold 5000 --projected-n 1000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := tabular.NewDataReader().Read(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			return runAnalysis(cmd.Context(), ds, flags)
		},
	}
	flags.register(cmd, cfg)
	return cmd
}

func newDemoCmd(cfg *config.Config) *cobra.Command {
	var flags analysisFlags
	var offset float64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the analysis on a synthetic experiment",
		Long: `Generate a synthetic experiment from a known hurdle log-normal process
and run the full analysis on it. With --offset 0 this is an A/A test and
the verdict should be "continue"; a negative offset simulates a treatment
that loses revenue.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := testkit.DefaultNullConfig()
			gen.Seed = flags.seed
			gen.TreatmentOffset = offset
			ds, err := testkit.NewExperimentGenerator(gen).Generate()
			if err != nil {
				return fmt.Errorf("generating synthetic experiment: %w", err)
			}
			return runAnalysis(cmd.Context(), ds, flags)
		},
	}
	flags.register(cmd, cfg)
	cmd.Flags().Float64Var(&offset, "offset", 0, "True treatment effect on the log mean (0 = A/A test)")
	return cmd
}

func runAnalysis(ctx context.Context, ds *experiment.Dataset, flags analysisFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := internal.NewDefaultLogger()
	rng := testkit.NewRNGAdapter()

	service := app.NewAnalysisService(
		gibbs.NewSampler(rng),
		simulate.NewOutcomeSimulator(rng),
		logger,
	)

	result, err := service.Run(ctx, ds, flags.params())
	if err != nil {
		return err
	}

	builder := report.NewBuilder()
	in := report.Input{
		AnalysisID: result.ID,
		CreatedAt:  result.CreatedAt,
		Control:    result.Control,
		Treatment:  result.Treatment,
		Posterior:  result.Summary,
		Costs:      result.Costs,
		Decision:   result.Decision,
		ProjectedN: flags.projectedN,
		Seed:       flags.seed,
		RuntimeMs:  result.RuntimeMs,
	}

	fmt.Println(builder.BuildMarkdown(in))
	if flags.htmlOut != "" {
		if err := os.WriteFile(flags.htmlOut, builder.BuildHTML(in), 0o644); err != nil {
			return fmt.Errorf("writing HTML report: %w", err)
		}
		fmt.Printf("HTML report written to %s\n", flags.htmlOut)
	}
	return nil
}
