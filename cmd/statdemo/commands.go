package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"statdemo/adapters/excel"
	"statdemo/app"
	"statdemo/domain/bayes"
	"statdemo/domain/scenario"
	"statdemo/domain/stats"
	"statdemo/internal/container"
)

type depsFunc func() *container.Container

func newBayesCmd(deps depsFunc) *cobra.Command {
	in := bayes.Defaults()
	var asJSON, clamp bool

	cmd := &cobra.Command{
		Use:   "bayes",
		Short: "Posterior probability of disease given a positive test",
		Long: `Apply Bayes' theorem to a positive screening result.

Example: statdemo bayes --prevalence 0.001 --sensitivity 0.95 --specificity 0.98`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clamp {
				in = bayes.SliderRanges().Clamp(in)
			}
			out, err := deps().Service.Posterior(in)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printPosterior(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().Float64Var(&in.Prevalence, "prevalence", bayes.DefaultPrevalence, "Pr(disease), strictly within (0,1)")
	cmd.Flags().Float64Var(&in.Sensitivity, "sensitivity", bayes.DefaultSensitivity, "Pr(positive | disease)")
	cmd.Flags().Float64Var(&in.Specificity, "specificity", bayes.DefaultSpecificity, "Pr(negative | no disease)")
	cmd.Flags().BoolVar(&clamp, "clamp", false, "Pull parameters into the demo slider ranges first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func printPosterior(w io.Writer, out *app.PosteriorOutcome) {
	r := out.Result
	fmt.Fprintf(w, "📊 BAYES POSTERIOR\n")
	fmt.Fprintf(w, "Prevalence:  %.4f\nSensitivity: %.4f\nSpecificity: %.4f\n\n", out.Input.Prevalence, out.Input.Sensitivity, out.Input.Specificity)
	fmt.Fprintf(w, "Pr(+ | no disease)   = 1 - %.4f = %.5f\n", out.Input.Specificity, r.FalsePositiveRate)
	fmt.Fprintf(w, "Pr(no disease)       = 1 - %.4f = %.5f\n", out.Input.Prevalence, r.TrueDiseaseFreeRate)
	fmt.Fprintf(w, "Pr(true positive)    = %.5f\n", r.ProbTruePositive)
	fmt.Fprintf(w, "Pr(false positive)   = %.5f\n", r.ProbFalsePositive)
	fmt.Fprintf(w, "Pr(+)                = %.5f\n", r.ProbPositiveTest)
	fmt.Fprintf(w, "Pr(disease | +)      = %.5f (%.2f%%)\n", r.PositivePredictiveValue, r.PositivePredictiveValue*100)
	fmt.Fprintf(w, "Pr(no disease | +)   = %.5f\n\n", r.ProbFalseGivenPositive)
	fmt.Fprintln(w, out.Explanation.Summary)
}

func newScenariosCmd(deps depsFunc) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the simulated scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := deps().Service.Scenarios()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), defs)
			}
			w := cmd.OutOrStdout()
			for _, d := range defs {
				fmt.Fprintf(w, "%s\t%s\n", d.ID, d.Label)
				fmt.Fprintf(w, "  control:   %s\n  treatment: %s\n  expected:  %s\n", d.Control, d.Treatment, d.Expected)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

// comparisonFlags are shared by compare and export
type comparisonFlags struct {
	scenario   string
	sampleSize int
	seed       int64
}

func (f *comparisonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scenario, "scenario", string(scenario.Symmetric), "Scenario id: symmetric|skewed")
	cmd.Flags().IntVar(&f.sampleSize, "n", 0, "Per-group sample size (default from STATDEMO_SIMULATION_SAMPLE_SIZE)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Random seed (default from STATDEMO_SIMULATION_SEED)")
}

func (f *comparisonFlags) request(cmd *cobra.Command, c *container.Container) app.ComparisonRequest {
	req := app.ComparisonRequest{
		Scenario:   scenario.ID(f.scenario),
		SampleSize: c.Config.Simulation.SampleSize,
		Seed:       c.Config.Simulation.Seed,
	}
	if cmd.Flags().Changed("n") {
		req.SampleSize = f.sampleSize
	}
	if cmd.Flags().Changed("seed") {
		req.Seed = f.seed
	}
	return req
}

func newCompareCmd(deps depsFunc) *cobra.Command {
	var flags comparisonFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the t-test and Mann-Whitney U test on a simulated scenario",
		Long: `Generate (or reuse) a scenario sample and compare the parametric and
non-parametric tests.

Example: statdemo compare --scenario skewed --n 200 --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := deps()
			res, err := c.Service.Compare(cmd.Context(), flags.request(cmd, c))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "🔬 %s (n=%d per group, seed=%d)\n\n", res.Scenario.Label, res.SampleSize, res.Seed)
			printReport(w, res.Report)
			fmt.Fprintf(w, "\nRuntime: %dms\n", res.RuntimeMs)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func newAnalyzeCmd(deps depsFunc) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compare Control and Treatment columns from an xlsx or csv file",
		Long: `Read two groups from a file with "Control" and "Treatment" header
columns and run the comparison.

Example: statdemo analyze --file groups.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := deps()
			groups, err := excel.NewReader(file, c.Logger).ReadGroups()
			if err != nil {
				return err
			}
			report, err := c.Service.Analyze(groups.Control, groups.Treatment)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to an .xlsx or .csv file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newExportCmd(deps depsFunc) *cobra.Command {
	var flags comparisonFlags
	var path string
	var withReport bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a scenario sample to an xlsx workbook",
		Long: `Write the generated Control and Treatment groups to an .xlsx file,
optionally with a sheet holding the comparison report.

Example: statdemo export --scenario skewed --xlsx skewed.xlsx --report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := deps()
			req := flags.request(cmd, c)

			sample, err := c.Service.Sample(cmd.Context(), req)
			if err != nil {
				return err
			}

			var report *stats.Report
			if withReport {
				r, err := c.Service.Analyze(sample.Control(), sample.Treatment())
				if err != nil {
					return err
				}
				report = &r
			}

			if err := excel.NewWriter(c.Logger).WriteSample(path, sample, report); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ wrote %s (%s)\n", path, sample.Key())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&path, "xlsx", "", "Output workbook path")
	cmd.Flags().BoolVar(&withReport, "report", false, "Add a sheet with the comparison report")
	_ = cmd.MarkFlagRequired("xlsx")
	return cmd
}

func printReport(w io.Writer, r stats.Report) {
	fmt.Fprintf(w, "%-20s %12s %12s\n", "", "control", "treatment")
	fmt.Fprintf(w, "%-20s %12.4f %12.4f\n", "mean", r.ControlMean, r.TreatmentMean)
	fmt.Fprintf(w, "%-20s %12.4f %12.4f\n", "median", r.ControlMedian, r.TreatmentMedian)
	fmt.Fprintf(w, "%-20s %12.4f %12.4f\n", "std dev", r.ControlStd, r.TreatmentStd)
	fmt.Fprintf(w, "%-20s %12.4f %12.4f\n", "Shapiro-Wilk W", r.ShapiroWControl, r.ShapiroWTreatment)
	fmt.Fprintf(w, "%-20s %12.4f %12.4f\n\n", "Shapiro-Wilk p", r.ShapiroPValueControl, r.ShapiroPValueTreatment)

	fmt.Fprintf(w, "t-test (%s): t=%.4f df=%.2f p=%.5f\n", r.TTestVariant, r.TStatistic, r.TTestDF, r.TTestPValue)
	fmt.Fprintf(w, "  %s\n", r.TTestConclusion())
	fmt.Fprintf(w, "Mann-Whitney U: U=%.1f p=%.5f\n", r.UStatistic, r.MannWhitneyPValue)
	fmt.Fprintf(w, "  %s\n\n", r.MannWhitneyConclusion())

	fmt.Fprintf(w, "🎯 Recommended: %s\n", r.RecommendedTest)
	fmt.Fprintln(w, r.Justification())
	if len(r.Warnings) > 0 {
		codes := make([]string, len(r.Warnings))
		for i, c := range r.Warnings {
			codes[i] = string(c)
		}
		fmt.Fprintf(w, "⚠️  warnings: %s\n", strings.Join(codes, ", "))
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
