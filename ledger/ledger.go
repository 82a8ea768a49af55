// Package ledger implements the cost-accrual side of a diagnostic encounter:
// a static CPT code→price table, a normalized total lookup function and the
// construction of cost entries for ordered tests and the physician visit.
//
// Lookup never fails: an unresolvable description falls back to the configured
// default test cost with a nil CPT code so the encounter is never blocked by a
// missed price. The ledger itself holds no per-encounter state; accrual is
// recorded on the encounter by the engine.
package ledger

import (
	"strings"

	"github.com/clinmesh/clinmesh/core"
)

// DefaultTestCost is the fallback amount for tests missing from the table.
const DefaultTestCost = 100.0

// VisitItemDescription labels the physician-visit cost entry.
const VisitItemDescription = "physician visit"

type priceEntry struct {
	code   string
	amount float64
}

// Options configures a Ledger.
type Options struct {
	// DefaultTestCost is charged when a test description cannot be
	// resolved against the price table.
	DefaultTestCost float64

	// ExtraPrices adds or overrides table rows: normalized description ->
	// (CPT code, amount). Keys are normalized before insertion.
	ExtraPrices map[string]struct {
		Code   string
		Amount float64
	}
}

// Ledger resolves test descriptions to CPT codes and prices.
//
// Ledger implements core.PriceLookup.
type Ledger struct {
	table       map[string]priceEntry
	aliases     map[string]string
	defaultCost float64
}

// New constructs a ledger with the built-in price table and optional overrides.
func New(optFns ...func(o *Options)) *Ledger {
	opts := Options{DefaultTestCost: DefaultTestCost}
	for _, fn := range optFns {
		fn(&opts)
	}

	l := &Ledger{
		table: map[string]priceEntry{
			"cbc":                             {"85025", 29.00},
			"basic metabolic panel":           {"80048", 36.00},
			"comprehensive metabolic panel":   {"80053", 48.00},
			"lipid panel":                     {"80061", 42.00},
			"urinalysis":                      {"81003", 12.00},
			"tsh":                             {"84443", 55.00},
			"troponin":                        {"84484", 62.00},
			"lipase":                          {"83690", 33.00},
			"c-reactive protein":              {"86140", 28.00},
			"blood culture":                   {"87040", 47.00},
			"ecg":                             {"93000", 75.00},
			"chest x-ray":                     {"71046", 110.00},
			"abdominal ultrasound":            {"76700", 240.00},
			"ct abdomen pelvis with contrast": {"74178", 860.00},
			"ct head without contrast":        {"70450", 540.00},
			"mri brain":                       {"70551", 1250.00},
		},
		aliases: map[string]string{
			"complete blood count":            "cbc",
			"full blood count":                "cbc",
			"bmp":                             "basic metabolic panel",
			"cmp":                             "comprehensive metabolic panel",
			"thyroid stimulating hormone":     "tsh",
			"ekg":                             "ecg",
			"electrocardiogram":               "ecg",
			"chest radiograph":                "chest x-ray",
			"cxr":                             "chest x-ray",
			"ultrasound abdomen":              "abdominal ultrasound",
			"ct of the abdomen with contrast": "ct abdomen pelvis with contrast",
			"crp":                             "c-reactive protein",
		},
		defaultCost: opts.DefaultTestCost,
	}
	for desc, p := range opts.ExtraPrices {
		l.table[Normalize(desc)] = priceEntry{code: p.Code, amount: p.Amount}
	}
	return l
}

var _ core.PriceLookup = (*Ledger)(nil)

// Normalize lowercases, trims and collapses interior whitespace so that
// table keys, aliases and responder cost hints compare consistently.
func Normalize(description string) string {
	return strings.Join(strings.Fields(strings.ToLower(description)), " ")
}

// Price resolves a test description to a CPT code and amount. It is a total
// function: a miss returns a nil code and the default test cost.
func (l *Ledger) Price(description string) (cptCode *string, amount float64) {
	key := Normalize(description)
	if canonical, ok := l.aliases[key]; ok {
		key = canonical
	}
	if entry, ok := l.table[key]; ok {
		code := entry.code
		return &code, entry.amount
	}
	return nil, l.defaultCost
}

// TestEntry prices an ordered test and builds its cost entry. The hint, when
// non-empty, is the normalized description supplied by the examination
// responder; otherwise the raw order content is priced directly.
func (l *Ledger) TestEntry(turnIndex int, orderContent, hint string) core.CostEntry {
	description := orderContent
	if strings.TrimSpace(hint) != "" {
		description = hint
	}
	code, amount := l.Price(description)
	return core.CostEntry{
		TurnIndex:       turnIndex,
		ItemDescription: description,
		CPTCode:         code,
		Amount:          amount,
		Category:        core.CostTest,
	}
}

// VisitEntry builds the fixed physician-visit cost entry. The engine accrues
// it exactly once per encounter, on the first accepted action.
func VisitEntry(turnIndex int, amount float64) core.CostEntry {
	return core.CostEntry{
		TurnIndex:       turnIndex,
		ItemDescription: VisitItemDescription,
		Amount:          amount,
		Category:        core.CostVisit,
	}
}
