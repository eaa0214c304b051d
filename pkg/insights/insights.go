// Package insights builds analysis prompts from a loaded dataset and sends
// them to the context platform's generate endpoint: whole-dataset summaries,
// per-column pattern detection, correlation explanations, natural-language
// Q&A, and recommendations.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hexlockco/alembic/pkg/dataset"
)

// Generator produces a completion for a prompt. Satisfied by
// platform.Client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Insights generates AI commentary over a dataset.
type Insights struct {
	gen Generator
}

func New(gen Generator) *Insights {
	return &Insights{gen: gen}
}

// Summary generates the whole-dataset executive summary.
func (i *Insights) Summary(ctx context.Context, f *dataset.Frame) (string, error) {
	s := f.Summarize()

	prompt := fmt.Sprintf(`You are an expert data analyst. Analyze this dataset and provide a comprehensive summary.

**DATASET OVERVIEW:**
- Total rows: %d
- Total columns: %d
- Columns: %s

**DATA TYPES:**
%s

**MISSING VALUES:**
%s

**STATISTICAL SUMMARY:**
%s

**SAMPLE DATA (first 5 rows):**
%s

**ANALYSIS REQUIREMENTS:**
1. **Executive Summary** - High-level overview of the data
2. **Key Insights** - 3-5 notable patterns or trends you observe
3. **Data Quality** - Assessment of completeness and potential issues
4. **Notable Patterns** - Any interesting correlations or anomalies
5. **Recommendations** - Suggested next steps for analysis

Provide actionable insights that would help a business analyst or data scientist.`,
		s.Shape.Rows,
		s.Shape.Columns,
		strings.Join(s.Columns, ", "),
		mustJSON(s.Kinds),
		mustJSON(s.MissingValues),
		mustJSON(s.NumericSummary),
		mustJSON(f.Head(5)),
	)

	return i.gen.Generate(ctx, prompt)
}

// DetectPatterns generates a pattern analysis for one column.
func (i *Insights) DetectPatterns(ctx context.Context, f *dataset.Frame, column string) (string, error) {
	summary, err := f.SummarizeColumn(column)
	if err != nil {
		return "", err
	}

	var statsInfo string
	if summary.Numeric != nil {
		statsInfo = mustJSON(summary.Numeric)
	} else {
		statsInfo = fmt.Sprintf("Unique values: %d", summary.UniqueValues)
	}

	prompt := fmt.Sprintf(`Analyze this column from a dataset and identify patterns, trends, and insights.

**COLUMN:** %s
**DATA TYPE:** %s
**STATISTICS:**
%s

**TOP VALUES/DISTRIBUTION:**
%s

Provide:
1. **Pattern Identification** - What patterns do you see in the data?
2. **Trend Analysis** - Are there any notable trends?
3. **Anomalies** - Any unusual values or outliers?
4. **Business Insights** - What does this data tell us from a business perspective?
5. **Recommendations** - What should be investigated further?`,
		column,
		summary.Kind,
		statsInfo,
		mustJSON(summary.TopValues),
	)

	return i.gen.Generate(ctx, prompt)
}

// ExplainCorrelation generates an explanation of the relationship between
// two columns, including the coefficient when both are numeric.
func (i *Insights) ExplainCorrelation(ctx context.Context, f *dataset.Frame, col1, col2 string) (string, error) {
	for _, c := range []string{col1, col2} {
		if !f.HasColumn(c) {
			return "", fmt.Errorf("%w: %q", dataset.ErrColumnNotFound, c)
		}
	}

	corrInfo := "Non-numeric data - analyzing categorical relationship"
	if r, err := f.CorrelatePair(col1, col2, dataset.CorrPearson); err == nil {
		corrInfo = fmt.Sprintf("Correlation coefficient: %.4f", r)
	}

	s1, err := f.SummarizeColumn(col1)
	if err != nil {
		return "", err
	}
	s2, err := f.SummarizeColumn(col2)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`Analyze the relationship between these two variables from a dataset.

**VARIABLE 1:** %s
**VARIABLE 2:** %s

**CORRELATION INFO:**
%s

**SAMPLE DATA:**
%s

**STATISTICS:**
%s: %s
%s: %s

Provide:
1. **Relationship Type** - Describe the relationship (positive, negative, none, non-linear)
2. **Strength Assessment** - How strong is the relationship?
3. **Business Interpretation** - What does this relationship mean?
4. **Causation vs Correlation** - Important notes about causality
5. **Actionable Insights** - How can this inform business decisions?`,
		col1, col2,
		corrInfo,
		mustJSON(f.Head(20)),
		col1, mustJSON(s1),
		col2, mustJSON(s2),
	)

	return i.gen.Generate(ctx, prompt)
}

// AnswerQuery answers a natural-language question about the dataset.
func (i *Insights) AnswerQuery(ctx context.Context, f *dataset.Frame, question string) (string, error) {
	s := f.Summarize()

	prompt := fmt.Sprintf(`You are a data analyst assistant. Answer the user's question about this dataset.

**DATASET CONTEXT:**
- Shape: %d rows x %d columns
- Columns: %s

**DATA TYPES:**
%s

**SAMPLE DATA (first 10 rows):**
%s

**STATISTICAL SUMMARY:**
%s

**USER QUESTION:**
%s

**INSTRUCTIONS:**
- Provide a clear, data-driven answer
- Include specific values and metrics from the data
- If the question cannot be answered with available data, explain why
- Suggest related insights if relevant
- Be concise but informative

Answer:`,
		s.Shape.Rows,
		s.Shape.Columns,
		strings.Join(s.Columns, ", "),
		mustJSON(s.Kinds),
		mustJSON(f.Head(10)),
		mustJSON(s.NumericSummary),
		question,
	)

	return i.gen.Generate(ctx, prompt)
}

// Recommendations generates action items from a completed analysis.
func (i *Insights) Recommendations(ctx context.Context, f *dataset.Frame, analysis *dataset.Analysis) (string, error) {
	prompt := fmt.Sprintf(`Based on the following data analysis, provide actionable business recommendations.

**DATASET INFO:**
- Rows: %d
- Columns: %d

**ANALYSIS RESULTS:**
%s

Provide:
1. **Top 3 Recommendations** - Specific, actionable next steps
2. **Quick Wins** - Easy improvements that can be made immediately
3. **Long-term Strategies** - Strategic initiatives based on the data
4. **Risk Mitigation** - Potential issues to address
5. **Next Steps** - Specific actions to take

Format as clear, numbered action items.`,
		f.Rows(),
		len(f.Columns()),
		mustJSON(analysis),
	)

	return i.gen.Generate(ctx, prompt)
}

func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
