package report

import (
	"fmt"
	"strings"

	"abstop/domain/core"
	"abstop/domain/decision"
	"abstop/domain/experiment"
	"abstop/domain/posterior"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Input carries everything the report needs from one analysis run
type Input struct {
	AnalysisID core.AnalysisID
	CreatedAt  core.Timestamp
	Control    experiment.GroupStats
	Treatment  experiment.GroupStats
	Posterior  *posterior.Summary
	Costs      decision.CostDistribution
	Decision   *decision.Decision
	ProjectedN int
	Seed       int64
	RuntimeMs  int64
}

// Builder renders analysis reports
type Builder struct{}

// NewBuilder creates a report builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildMarkdown renders the full analysis report as markdown
func (b *Builder) BuildMarkdown(in Input) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# Early-stopping analysis %s\n\n", in.AnalysisID)
	fmt.Fprintf(&md, "Generated %s, seed %d, runtime %dms.\n\n", in.CreatedAt, in.Seed, in.RuntimeMs)

	md.WriteString("## Observed data\n\n")
	md.WriteString("| Arm | Customers | Purchases | Purchase rate | Mean revenue |\n")
	md.WriteString("|---|---|---|---|---|\n")
	fmt.Fprintf(&md, "| control | %d | %d | %.3f | %.2f |\n",
		in.Control.Count, in.Control.Purchases, in.Control.PurchaseRate, in.Control.MeanRevenue)
	fmt.Fprintf(&md, "| treatment | %d | %d | %.3f | %.2f |\n\n",
		in.Treatment.Count, in.Treatment.Purchases, in.Treatment.PurchaseRate, in.Treatment.MeanRevenue)

	md.WriteString("## Posterior parameters\n\n")
	md.WriteString("| Parameter | Mean | SD | 5% | Median | 95% |\n")
	md.WriteString("|---|---|---|---|---|---|\n")
	writeParamRow(&md, "hurdle probability", in.Posterior.HurdleProb)
	writeParamRow(&md, "log mean", in.Posterior.LogMean)
	writeParamRow(&md, "treatment offset", in.Posterior.TreatmentOffset)
	writeParamRow(&md, "log SD", in.Posterior.LogSD)
	md.WriteString("\n")

	d := in.Decision
	fmt.Fprintf(&md, "## Projected cost of continuing (n = %d per arm)\n\n", in.ProjectedN)
	fmt.Fprintf(&md, "Cost = control total - treatment total, per posterior draw (%d draws).\n\n", d.Draws)
	fmt.Fprintf(&md, "- mean cost: %.1f\n", d.MeanCost)
	fmt.Fprintf(&md, "- median cost: %.1f\n", d.MedianCost)
	fmt.Fprintf(&md, "- %.0f%% HDI: [%.1f, %.1f]\n", d.Mass*100, d.Interval.Low, d.Interval.High)
	fmt.Fprintf(&md, "- loss threshold: %.1f\n\n", d.Threshold)

	md.WriteString("```\n")
	md.WriteString(renderHistogram(in.Costs, d.Threshold))
	md.WriteString("```\n\n")

	md.WriteString("## Verdict\n\n")
	fmt.Fprintf(&md, "**%s** (%s)\n", strings.ToUpper(string(d.Verdict)), d.Reason)

	return md.String()
}

// BuildHTML renders the markdown report into a standalone HTML document
func (b *Builder) BuildHTML(in Input) []byte {
	md := []byte(b.BuildMarkdown(in))
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})
	return markdown.ToHTML(md, p, renderer)
}

func writeParamRow(md *strings.Builder, name string, p posterior.ParamSummary) {
	fmt.Fprintf(md, "| %s | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
		name, p.Mean, p.StdDev, p.Q05, p.Median, p.Q95)
}
