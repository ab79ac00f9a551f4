package constants

// MethodAuto asks the converter to walk the full strategy fallback chain.
const MethodAuto = "auto"

// Canonical strategy names (store these exact strings in results and logs).
const (
	StrategyStructured = "structured" // per-page table detection with text fallback
	StrategyHeuristic  = "heuristic"  // whole-document column heuristics
	StrategyTextLayer  = "textlayer"  // plain text lines, last resort
)

// DefaultStrategyOrder is the fallback priority used for "auto".
var DefaultStrategyOrder = []string{StrategyStructured, StrategyHeuristic, StrategyTextLayer}

// strategyAliases maps legacy method names still sent by older clients
// onto canonical strategies.
var strategyAliases = map[string]string{
	"pdfplumber": StrategyStructured,
	"tabula":     StrategyHeuristic,
	"pypdf2":     StrategyTextLayer,
	"text":       StrategyTextLayer,
}

// CanonicalStrategy resolves a requested method name (canonical or legacy
// alias) to its canonical strategy name. The second return is false for
// unrecognized names and for "auto", which is not a strategy.
func CanonicalStrategy(name string) (string, bool) {
	switch name {
	case StrategyStructured, StrategyHeuristic, StrategyTextLayer:
		return name, true
	}
	if canonical, ok := strategyAliases[name]; ok {
		return canonical, true
	}
	return "", false
}
