package provider

import "fmt"

// systemInstruction describes the four-stage simulated analysis pipeline the
// remote model is asked to perform.
const systemInstruction = `You are an expert news analyst and fact-checker.
Analyze the provided news text for authenticity.
Simulate a multi-layered NLP pipeline:
1. Linguistic Pattern Analysis (TF-IDF simulation: identify key terms associated with misinformation).
2. Sentiment & Bias detection.
3. Factual verification using Google Search.
4. Logical fallacy detection.

Return your analysis in a strict JSON format.`

// buildPrompt frames the user text for analysis.
func buildPrompt(content string) string {
	return fmt.Sprintf(`Please analyze the following news content:
---
%s
---

Assess the content based on linguistic patterns, sensationalism, and factual consistency.`, content)
}

// resultSchema is the output-shape constraint submitted with remote calls:
// enumerated verdict values, numeric confidence, array-typed
// metrics/fallacies/patterns. Encoded in the generation API's OpenAPI-subset
// schema format.
func resultSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"verdict": map[string]interface{}{
				"type":        "STRING",
				"enum":        []string{"REAL", "LIKELY REAL", "MIXED", "LIKELY FAKE", "FAKE"},
				"description": "The overall credibility verdict.",
			},
			"confidence": map[string]interface{}{
				"type":        "NUMBER",
				"description": "Confidence score from 0-100",
			},
			"summary": map[string]interface{}{
				"type":        "STRING",
				"description": "A concise 2-sentence summary of why this verdict was reached.",
			},
			"metrics": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"name":        map[string]interface{}{"type": "STRING"},
						"score":       map[string]interface{}{"type": "NUMBER"},
						"description": map[string]interface{}{"type": "STRING"},
					},
					"required": []string{"name", "score", "description"},
				},
			},
			"logicalFallacies": map[string]interface{}{
				"type":        "ARRAY",
				"items":       map[string]interface{}{"type": "STRING"},
				"description": "List of logical fallacies identified (e.g., Straw Man, Appeal to Fear).",
			},
			"linguisticPatterns": map[string]interface{}{
				"type":        "ARRAY",
				"items":       map[string]interface{}{"type": "STRING"},
				"description": "Keywords or stylistic features (TF-IDF style) that triggered suspicion.",
			},
		},
		"required": []string{"verdict", "confidence", "summary", "metrics", "logicalFallacies", "linguisticPatterns"},
	}
}
