package agent

import (
	"fmt"
	"strings"
)

// researchPrompt is the deep-research instruction sent to the streaming
// chat endpoint when no stored context matches the query.
func researchPrompt(topic string) string {
	return fmt.Sprintf(`You are an expert business intelligence analyst. Research %s and provide a comprehensive report.

**RESEARCH STRUCTURE:**
1. **EXECUTIVE SUMMARY** - Overview, key findings, market position
2. **COMPANY BACKGROUND** - History, mission, leadership, business model
3. **DEMOGRAPHIC ANALYSIS** - Target customers, geographic reach, user demographics
4. **FINANCIAL LANDSCAPE** - Funding, valuation, investors, revenue trends
5. **DIGITAL FOOTPRINT** - Web traffic, engagement, traffic sources, geographic distribution
6. **COMPETITIVE ANALYSIS** - Competitors, differentiators, market share, SWOT analysis
7. **TECHNOLOGY & OPERATIONS** - Tech stack, partnerships, operational capabilities
8. **MARKET OPPORTUNITIES & RISKS** - Growth potential, trends, regulatory risks, outlook

**METHODOLOGY:** Use multiple data sources, focus on recent data (1-3 years), include quantitative and qualitative insights.

**FORMATTING:** Use clear headings, bullet points, tables where appropriate, bold key metrics.

**DELIVERABLE:** Actionable intelligence for investors and decision-makers.

Begin research on: %s`, topic, topic)
}

// contextReportPrompt constrains report generation to stored context only.
// Sections with no supporting context must be marked "Not in context".
func contextReportPrompt(query, context string) string {
	return fmt.Sprintf(`Extract company name from: "%s"

Using ONLY this context:%s

Generate research report with these sections (use ONLY context, state "Not in context" if missing):

1. **EXECUTIVE SUMMARY**
2. **COMPANY BACKGROUND**
3. **DEMOGRAPHIC ANALYSIS**
4. **FINANCIAL LANDSCAPE**
5. **DIGITAL FOOTPRINT**
6. **COMPETITIVE ANALYSIS**
7. **TECHNOLOGY & OPERATIONS**
8. **MARKET OPPORTUNITIES & RISKS**

Constraints: Strictly use only provided context. No external knowledge.`, query, context)
}

// answerPrompt builds the context-grounded question prompt. Unlike the
// report prompt it permits falling back to general knowledge when the
// context is insufficient.
func answerPrompt(question string, contexts []string) string {
	numbered := make([]string, len(contexts))
	for i, c := range contexts {
		numbered[i] = fmt.Sprintf("Context %d: %s", i+1, c)
	}

	return fmt.Sprintf(`Based on the following context, please answer the question.
If the context is insufficient, state that you cannot answer based on the provided information and use your general knowledge.

Contexts:
%s

Question: %s`, strings.Join(numbered, "\n\n"), question)
}
