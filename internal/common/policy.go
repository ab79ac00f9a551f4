package common

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/docparse/convertd/constants"
)

// Policy is an operator-supplied JSON file overriding built-in defaults.
// It is validated against policySchema before anything is applied, so a
// malformed file fails startup instead of silently degrading validation.
type Policy struct {
	DisposableDomains []string `json:"disposable_domains,omitempty"`
	StrategyOrder     []string `json:"strategy_order,omitempty"`
}

// policySchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
func policySchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"disposable_domains": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":    "string",
					"pattern": `^[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`,
				},
			},
			"strategy_order": map[string]any{
				"type":        "array",
				"minItems":    1,
				"uniqueItems": true,
				"items": map[string]any{
					"type": "string",
					"enum": []string{
						constants.StrategyStructured,
						constants.StrategyHeuristic,
						constants.StrategyTextLayer,
					},
				},
			},
		},
	}
}

// LoadPolicy reads and validates a policy file.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	if err := ValidateJSONAgainstSchema(policySchema(), data); err != nil {
		return nil, fmt.Errorf("policy file %s: %w", path, err)
	}
	var p Policy
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode policy file: %w", err)
	}
	return &p, nil
}

// Apply merges the policy into cfg. Unset policy fields leave cfg untouched.
func (p *Policy) Apply(cfg *Config) {
	if len(p.DisposableDomains) > 0 {
		cfg.Email.DisposableDomains = p.DisposableDomains
	}
	if len(p.StrategyOrder) > 0 {
		cfg.Convert.StrategyOrder = p.StrategyOrder
	}
}
