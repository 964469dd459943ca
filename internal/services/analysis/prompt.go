// Package analysis produces qualitative Rule #1 business assessments (meaning, moat,
// management) from a language model and caches them per ticker.
package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"github.com/ternarybob/sticker/internal/models"
)

// ErrNoJSON is returned when a model reply carries no JSON object.
var ErrNoJSON = errors.New("no JSON object in model response")

const promptTemplate = `Analyze the company %s based on Phil Town's "Rule No. 1" investment principles.

Provide your analysis as a JSON object with the following keys:
- ticker: the stock ticker.
- meaning: whether the business is easy to understand, in one or two sentences.
- moat: the company's competitive advantage (Brand, Secret, Toll Bridge, Switching or Price).
- management: the integrity and talent of the leadership.
- isWonderful: boolean, true if it qualifies as a "Wonderful Business".
- riskScore: a number from 1 to 10, 1 being the lowest risk.
- summary: a final summary of the business quality.

Return ONLY the JSON object.`

func buildPrompt(ticker, companyName string) string {
	subject := ticker
	if companyName != "" && !strings.EqualFold(companyName, ticker) {
		subject = fmt.Sprintf("%s (ticker %s)", companyName, ticker)
	}
	return fmt.Sprintf(promptTemplate, subject)
}

// modelReply is the JSON shape requested in the prompt.
type modelReply struct {
	Ticker      string  `json:"ticker"`
	Meaning     string  `json:"meaning"`
	Moat        string  `json:"moat"`
	Management  string  `json:"management"`
	IsWonderful bool    `json:"isWonderful"`
	RiskScore   float64 `json:"riskScore"`
	Summary     string  `json:"summary"`
}

// ParseAnalysis extracts the span from the first '{' to the last '}' of a model reply
// and decodes it, repairing near-JSON when strict decoding fails. The ticker argument wins over any ticker the model echoed back.
func ParseAnalysis(ticker, text string) (*models.BusinessAnalysis, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, ErrNoJSON
	}

	span := text[start : end+1]
	var reply modelReply
	if err := json.Unmarshal([]byte(span), &reply); err != nil {
		// Models drift into single quotes, trailing commas and comments
		repaired, repairErr := jsonrepair.RepairJSON(span)
		if repairErr != nil {
			return nil, fmt.Errorf("failed to decode model response: %w", err)
		}
		reply = modelReply{}
		if err := json.Unmarshal([]byte(repaired), &reply); err != nil {
			return nil, fmt.Errorf("failed to decode repaired model response: %w", err)
		}
	}

	return &models.BusinessAnalysis{
		Ticker:      ticker,
		Meaning:     strings.TrimSpace(reply.Meaning),
		Moat:        strings.TrimSpace(reply.Moat),
		Management:  strings.TrimSpace(reply.Management),
		IsWonderful: reply.IsWonderful,
		RiskScore:   int(math.Round(reply.RiskScore)),
		Summary:     strings.TrimSpace(reply.Summary),
	}, nil
}
