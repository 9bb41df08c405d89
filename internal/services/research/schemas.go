package research

// JSON schema builders for structured report output. Schemas are plain maps
// so they can be handed to any provider: Gemini converts them to a response
// schema when search grounding is off, otherwise they are serialized into
// the prompt.

func schemaObject(props map[string]interface{}, required ...string) map[string]interface{} {
	m := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		m["required"] = required
	}
	return m
}

func schemaArray(items map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "array", "items": items}
}

func schemaString(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func schemaNumber(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": desc}
}

func schemaInteger(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": desc}
}

func schemaBool(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": desc}
}

func schemaEnum(desc string, values ...string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc, "enum": values}
}

func analysisSchema() map[string]interface{} {
	newsItem := schemaObject(map[string]interface{}{
		"headline":  schemaString("News headline"),
		"source":    schemaString("Publication name"),
		"url":       schemaString("Link to the article"),
		"published": schemaString("Publication date"),
		"sentiment": schemaEnum("Sentiment of the item for the stock", "positive", "negative", "neutral"),
	}, "headline")

	return schemaObject(map[string]interface{}{
		"ticker":       schemaString("Ticker code without exchange prefix"),
		"exchange":     schemaString("Exchange code"),
		"company_name": schemaString("Full company name"),
		"summary":      schemaString("Two to three sentence investment summary"),
		"snapshot": schemaObject(map[string]interface{}{
			"price":        schemaNumber("Last traded price"),
			"change_pct":   schemaNumber("Daily change percent"),
			"volume":       schemaInteger("Daily volume"),
			"market_cap":   schemaString("Market capitalization, e.g. '2.1B'"),
			"pe_ratio":     schemaNumber("Trailing P/E ratio"),
			"high_52_week": schemaNumber("52-week high"),
			"low_52_week":  schemaNumber("52-week low"),
			"sector":       schemaString("GICS sector"),
			"short_float":  schemaString("Short interest as percent of float"),
			"avg_volume":   schemaInteger("Average daily volume"),
		}),
		"trade_plan": schemaObject(map[string]interface{}{
			"bias":        schemaEnum("Directional bias", "long", "short", "neutral"),
			"entry":       schemaNumber("Suggested entry price"),
			"stop":        schemaNumber("Stop loss price"),
			"target":      schemaNumber("Price target"),
			"risk_reward": schemaNumber("Reward to risk ratio"),
			"rationale":   schemaString("One paragraph trade rationale"),
		}),
		"evidence": schemaArray(schemaObject(map[string]interface{}{
			"claim":    schemaString("A single factual supporting claim"),
			"source":   schemaString("Where the claim comes from"),
			"category": schemaEnum("Which trade plan element the claim supports", "entry", "stop", "target", "general"),
		}, "claim", "category")),
		"reasoning": schemaArray(schemaObject(map[string]interface{}{
			"step":        schemaInteger("Step number, starting at 1"),
			"category":    schemaEnum("Nature of the inference", "data", "logic", "projection", "risk"),
			"text":        schemaString("The reasoning step"),
			"confidence":  schemaNumber("Confidence 0-100"),
			"speculative": schemaBool("True when confidence is below 70"),
		}, "step", "category", "text")),
		"scenarios": schemaArray(schemaObject(map[string]interface{}{
			"name":         schemaEnum("Scenario name", "bull", "base", "bear"),
			"probability":  schemaNumber("Probability 0-100"),
			"price_target": schemaNumber("Scenario price target"),
			"narrative":    schemaString("What happens in this scenario"),
		}, "name")),
		"news":  schemaArray(newsItem),
		"macro": schemaArray(schemaString("A macro factor relevant to the stock")),
	}, "ticker", "summary", "trade_plan")
}

func marketSchema() map[string]interface{} {
	return schemaObject(map[string]interface{}{
		"summary":   schemaString("Two to three sentence market summary"),
		"sentiment": schemaEnum("Overall market tone", "risk-on", "risk-off", "mixed"),
		"indices": schemaArray(schemaObject(map[string]interface{}{
			"name":       schemaString("Index name"),
			"symbol":     schemaString("Index symbol"),
			"level":      schemaNumber("Current level"),
			"change_pct": schemaNumber("Daily change percent"),
		}, "name")),
		"gainers": schemaArray(moverSchema()),
		"losers":  schemaArray(moverSchema()),
		"sectors": schemaArray(schemaObject(map[string]interface{}{
			"name":       schemaString("Sector name"),
			"change_pct": schemaNumber("Daily change percent"),
		}, "name")),
		"news": schemaArray(schemaObject(map[string]interface{}{
			"headline":  schemaString("News headline"),
			"source":    schemaString("Publication name"),
			"sentiment": schemaEnum("Market impact", "positive", "negative", "neutral"),
		}, "headline")),
		"flows": schemaArray(schemaString("A fund flow or positioning observation")),
		"actions": schemaArray(schemaObject(map[string]interface{}{
			"ticker": schemaString("Affected ticker"),
			"type":   schemaEnum("Action type", "dividend", "split", "buyback", "delisting"),
			"date":   schemaString("Effective or announcement date"),
			"detail": schemaString("What the action is"),
		}, "ticker", "type")),
	}, "summary", "sentiment")
}

func moverSchema() map[string]interface{} {
	return schemaObject(map[string]interface{}{
		"ticker":     schemaString("Ticker code"),
		"name":       schemaString("Company name"),
		"price":      schemaNumber("Last traded price"),
		"change_pct": schemaNumber("Daily change percent"),
		"reason":     schemaString("Why it moved"),
	}, "ticker")
}

func screenerSchema() map[string]interface{} {
	return schemaObject(map[string]interface{}{
		"criteria": schemaArray(schemaString("A screening criterion as interpreted from the query")),
		"matches": schemaArray(schemaObject(map[string]interface{}{
			"ticker":     schemaString("Ticker code"),
			"name":       schemaString("Company name"),
			"exchange":   schemaString("Exchange code"),
			"price":      schemaNumber("Last traded price"),
			"market_cap": schemaString("Market capitalization, e.g. '850M'"),
			"sector":     schemaString("GICS sector"),
			"score":      schemaNumber("Fit against the criteria, 0-100"),
			"rationale":  schemaString("Why this stock matches"),
		}, "ticker", "rationale")),
		"notes": schemaString("Caveats about coverage or data quality"),
	}, "criteria", "matches")
}

func ipoListSchema() map[string]interface{} {
	listing := schemaObject(map[string]interface{}{
		"name":          schemaString("Company name"),
		"symbol":        schemaString("Proposed or assigned ticker"),
		"exchange":      schemaString("Listing exchange"),
		"expected_date": schemaString("Expected or actual listing date"),
		"price_range":   schemaString("Offer price or range"),
		"deal_size":     schemaString("Deal size, e.g. '500M'"),
		"status":        schemaEnum("Listing status", "filed", "priced", "listed", "withdrawn"),
		"sector":        schemaString("Sector"),
	}, "name")

	return schemaObject(map[string]interface{}{
		"upcoming": schemaArray(listing),
		"recent":   schemaArray(listing),
		"summary":  schemaString("One paragraph on the state of the IPO market"),
	}, "upcoming", "recent")
}

func ipoDetailSchema() map[string]interface{} {
	return schemaObject(map[string]interface{}{
		"name":          schemaString("Company name"),
		"symbol":        schemaString("Proposed or assigned ticker"),
		"exchange":      schemaString("Listing exchange"),
		"expected_date": schemaString("Expected or actual listing date"),
		"price_range":   schemaString("Offer price or range"),
		"valuation":     schemaString("Implied valuation at the offer price"),
		"business":      schemaString("What the company does"),
		"financials": schemaArray(schemaObject(map[string]interface{}{
			"label":  schemaString("Metric name, e.g. 'Revenue'"),
			"value":  schemaString("Metric value; ranges and approximations allowed"),
			"period": schemaString("Reporting period"),
		}, "label", "value")),
		"strengths":       schemaArray(schemaString("A competitive strength")),
		"risks":           schemaArray(schemaString("A risk factor")),
		"use_of_proceeds": schemaString("Stated use of offering proceeds"),
		"underwriters":    schemaArray(schemaString("A lead underwriter")),
		"verdict":         schemaString("Overall assessment of the offering"),
	}, "name", "business", "verdict")
}
