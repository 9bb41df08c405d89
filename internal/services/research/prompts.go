package research

import (
	"fmt"
	"time"

	"github.com/ternarybob/prospecto/internal/common"
	"github.com/ternarybob/prospecto/internal/interfaces"
	"github.com/ternarybob/prospecto/internal/models"
)

const researchSystemPrompt = `You are an equity research assistant producing structured reports for an experienced retail trader.
Ground every figure in real market data where possible and say so when you are estimating.
Be direct about risk. Never give personalized financial advice or portfolio sizing.
Respond only with the requested JSON object.`

func promptDate() string {
	return time.Now().Format("Monday, 2 January 2006")
}

func buildAnalysisPrompt(params interfaces.AnalysisParams, ticker common.Ticker) string {
	return fmt.Sprintf(`Produce a trade-plan analysis for %s (%s) as of %s.

Trade horizon: %s. Consider price action over the last %d days.

Requirements:
- Build a concrete trade plan with bias, entry, stop, target and the resulting risk/reward ratio.
- Support the plan with evidence items. Tag each item with the trade plan element it backs: "entry", "stop", "target", or "general" for context that supports the thesis as a whole.
- Show your reasoning as numbered steps. Tag each step by the nature of the inference: "data" for cited facts, "logic" for deductions, "projection" for forward estimates, "risk" for what could invalidate the thesis.
- Give each reasoning step a confidence from 0 to 100. Mark any step below %d as speculative.
- Include bull, base and bear scenarios with probabilities and price targets.
- Surface recent news and the macro factors most relevant to this stock.`,
		ticker.String(), ticker.Code, promptDate(),
		params.Horizon, params.LookbackDays,
		models.SpeculativeConfidenceThreshold)
}

func buildMarketPrompt() string {
	return fmt.Sprintf(`Produce a whole-of-market overview for US equities as of %s.

Requirements:
- Summarize the session and call the overall tone: "risk-on", "risk-off", or "mixed".
- Report the major index levels with daily change.
- List the most notable gainers and losers with the reason each moved.
- Report sector performance for the session.
- Include market-moving news, fund flow observations, and notable corporate actions.`,
		promptDate())
}

func buildScreenerPrompt(query string) string {
	return fmt.Sprintf(`Screen US-listed equities against the following criteria, as of %s:

%q

Requirements:
- Restate the criteria as you interpreted them, one per entry.
- Return the best matches with a fit score from 0 to 100 and a one-sentence rationale each.
- Prefer liquid names with current data. Note coverage gaps or data quality caveats in the notes field.`,
		promptDate(), query)
}

func buildIPOListPrompt() string {
	return fmt.Sprintf(`Produce an IPO calendar for US exchanges as of %s.

Requirements:
- List upcoming offerings: filed and priced deals expected to list soon.
- List recent offerings from roughly the last month with their listing status.
- Include expected dates, price ranges, deal sizes and sectors where known.
- Close with one paragraph on the state of the IPO market.`,
		promptDate())
}

func buildIPODetailPrompt(name string) string {
	return fmt.Sprintf(`Produce a due-diligence brief on the IPO of %q as of %s.

Requirements:
- Describe the business, the offering terms, and the implied valuation.
- Extract prospectus financials as labelled metrics. Report values as given; ranges and approximations are acceptable.
- List competitive strengths, risk factors, use of proceeds, and lead underwriters.
- Close with an overall verdict on the offering.`,
		name, promptDate())
}
