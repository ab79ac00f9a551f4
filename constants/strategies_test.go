package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalStrategy(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"canonical structured", StrategyStructured, StrategyStructured, true},
		{"canonical heuristic", StrategyHeuristic, StrategyHeuristic, true},
		{"canonical textlayer", StrategyTextLayer, StrategyTextLayer, true},
		{"legacy pdfplumber", "pdfplumber", StrategyStructured, true},
		{"legacy tabula", "tabula", StrategyHeuristic, true},
		{"legacy pypdf2", "pypdf2", StrategyTextLayer, true},
		{"legacy text", "text", StrategyTextLayer, true},
		{"auto is not a strategy", MethodAuto, "", false},
		{"unknown", "ocr", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CanonicalStrategy(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
