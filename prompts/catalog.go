// Package prompts holds the product's prompt templates: pitch deck feedback,
// financial assumption guidance, and investor strategy. Each template is
// registered with its placeholder variables so callers can validate inputs
// before a provider call.
package prompts

import (
	"sort"

	"github.com/venturekit/venturekit/prompt"
)

// Template is a named prompt template and the variables it requires.
type Template struct {
	Name      string
	Shape     prompt.Shape
	Variables []string
	Text      string
}

// Catalog template names.
const (
	PitchDeckOverallFeedback = "pitch-deck-overall-feedback"
	MessagingRefinement      = "messaging-refinement"
	SlideIdeas               = "slide-ideas"
	AssumptionGuidance       = "assumption-guidance"
	AssumptionReview         = "assumption-review"
	InvestorStrategy         = "investor-strategy"
)

var catalog = map[string]Template{
	PitchDeckOverallFeedback: {
		Name:      PitchDeckOverallFeedback,
		Shape:     prompt.Plain,
		Variables: []string{"full_deck_text"},
		Text: `**Role:** You are an expert pitch deck analyst and startup advisor. Provide constructive, actionable feedback to help entrepreneurs improve their pitch decks.

**Full Extracted Pitch Deck Text:**
---
{full_deck_text}
---

**Task:** Analyze the text above and structure your feedback as follows:
1. **Overall Impression & Key Strengths:** a brief encouraging overview with 2-3 strong points.
2. **Identified Deck Structure & Flow:** identify common sections (Problem, Solution, Market, Team, Financials, Ask, Competition, Traction) and comment on narrative order and gaps.
3. **Critical Areas for Improvement (Top 3-5):** for each, explain why it matters and suggest specific actions.
4. **Actionable Next Steps:** 2-3 high-priority actions.
If critical sections such as Competition, Team, or Financials are absent, strongly recommend their inclusion.

**Output Format:** well-structured Markdown with headings and bullet points. Concise yet thorough, supportive and advisory in tone.`,
	},
	MessagingRefinement: {
		Name:      MessagingRefinement,
		Shape:     prompt.Plain,
		Variables: []string{"section_name", "section_text", "startup_usp"},
		Text: `**Role:** You are a master storyteller and an expert in crafting compelling business narratives for pitch decks.

**Task:** Refine the following text from the "{section_name}" section so it is clearer, more concise, and more persuasive for investors.

**Original Text:**
{section_text}

**Stated Unique Selling Proposition (may be empty):**
"{startup_usp}"

Keep the core meaning intact, remove jargon, and align the language with the USP where one is given. Provide only the refined text, without preamble. If the original is already excellent, say so for the "{section_name}" section.`,
	},
	SlideIdeas: {
		Name:      SlideIdeas,
		Shape:     prompt.Plain,
		Variables: []string{"startup_concept"},
		Text: `**Role:** You are a pitch deck consultant.
**Task:** Based on the startup concept "{startup_concept}", suggest 5 key slides that must be in the pitch deck, each with a 1-2 sentence description of what it should cover.
**Output:** a numbered list of slide titles and descriptions.`,
	},
	AssumptionGuidance: {
		Name:      AssumptionGuidance,
		Shape:     prompt.Plain,
		Variables: []string{"business_assumptions_json", "model_structure_json", "assumption_field_key", "assumption_field_label", "current_value"},
		Text: `You are an expert financial modeling AI. The user is about to input a specific financial assumption. Provide brief, contextual guidance with typical benchmarks where known.

Business Context:
---
{business_assumptions_json}
---

Selected Model Structure:
---
{model_structure_json}
---

Assumption Field in Focus: "{assumption_field_key}"
Assumption Field Label: "{assumption_field_label}"
Current User Input (if any): "{current_value}"

Explain what this assumption represents, give a typical range for the business type when one exists (for example, SaaS gross margins of 70-85%, e-commerce conversion rates of 1-3%), and otherwise name the factors to consider. Keep the guidance to 2-3 sentences.

AI Guidance for "{assumption_field_label}":`,
	},
	AssumptionReview: {
		Name:      AssumptionReview,
		Shape:     prompt.Plain,
		Variables: []string{"business_assumptions_json", "model_structure_json", "financial_assumptions_json"},
		Text: `You are an expert financial modeling AI. Review the user's complete set of financial assumptions for general reasonableness in the context of their business and model structure.

Business Context:
---
{business_assumptions_json}
---

Selected Model Structure:
---
{model_structure_json}
---

Financial Assumptions:
---
{financial_assumptions_json}
---

Flag values that look aggressive or inconsistent with the business type, explain why, and suggest a more defensible range for each. Close with an overall assessment in 2-3 sentences.`,
	},
	InvestorStrategy: {
		Name:      InvestorStrategy,
		Shape:     prompt.Chat,
		Variables: []string{"company_summary", "funding_stage", "sector"},
		Text: `You are an experienced venture fundraising advisor. A founder in the {sector} sector is preparing a {funding_stage} round.

Company summary:
{company_summary}

Recommend a fundraising strategy: the investor profiles to target, how to sequence outreach, and the 3 metrics to lead with. Be specific and practical.`,
	},
}

// Get returns the template registered under name.
func Get(name string) (Template, bool) {
	t, ok := catalog[name]
	return t, ok
}

// Names returns all registered template names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fill renders the template with vars.
func (t Template) Fill(vars map[string]string) (prompt.Filled, error) {
	return prompt.Fill(t.Text, t.Shape, vars)
}
