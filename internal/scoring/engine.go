package scoring

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/astro-cL99/pediatria-sub001/internal/normalize"
)

// DefaultRuleSet canonical rule set version
const DefaultRuleSet = "sochipe"

// RuleSet one versioned set of scale tables
type RuleSet struct {
	Version    string
	WoodDownes WoodDownesTable
	Tal        TalTable
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*RuleSet{}
)

func init() {
	Register(sochipeRuleSet())
	Register(legacyRuleSet())
}

// Register adds or replaces a rule set
func Register(rs *RuleSet) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[rs.Version] = rs
}

// Versions registered rule set versions, sorted
func Versions() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for v := range registry {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Engine stateless evaluator bound to one rule set; safe for concurrent use
type Engine struct {
	rules *RuleSet
}

// NewEngine returns an engine for the given rule set version ("" = DefaultRuleSet)
func NewEngine(version string) (*Engine, error) {
	if version == "" {
		version = DefaultRuleSet
	}
	registryMu.RLock()
	rs, ok := registry[version]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuleSet, version)
	}
	return &Engine{rules: rs}, nil
}

// RuleSet version the engine evaluates with
func (e *Engine) RuleSet() string {
	return e.rules.Version
}

func (e *Engine) result(scale string, score int, tiers []Tier) *ScoreResult {
	tier := tierFor(tiers, score)
	return &ScoreResult{
		Scale:           scale,
		RuleSet:         e.rules.Version,
		Score:           score,
		Interpretation:  tier.Interpretation,
		Severity:        tier.Severity,
		Recommendations: append([]string(nil), tier.Recommendations...),
	}
}

// EnumKey folds an enum value: "Tórax silente" -> "torax_silente"
func EnumKey(v string) string {
	f := normalize.FoldText(v)
	return strings.NewReplacer(" ", "_", "-", "_").Replace(f)
}

func enumPoints(scale, field, value string, table map[string]int) (int, error) {
	key := EnumKey(value)
	pts, ok := table[key]
	if !ok {
		return 0, invalid(scale, field, "unknown value %q", value)
	}
	return pts, nil
}

func itoa(n int) string { return strconv.Itoa(n) }
