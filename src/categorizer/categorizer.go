// Package categorizer assigns ledger categories to bank transactions using
// ordered keyword rules. Matching is case-insensitive substring, first match
// wins, and the whole thing is deterministic so re-running an import or a
// recategorization is idempotent.
package categorizer

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"centimo-server/src/models"
)

// FallbackCategoryName is the generic bucket for expenses no rule matches.
// Income rows never receive a category.
const FallbackCategoryName = "Otros"

type Rule struct {
	CategoryID int64
	Keywords   []string
}

type Categorizer struct {
	rules    []Rule
	fallback *int64
}

func New(rules []Rule, fallback *int64) *Categorizer {
	return &Categorizer{rules: rules, fallback: fallback}
}

// Categorize maps a transaction to a category id. Income is never
// categorized. Expenses fall back to the generic category when no rule
// matches; if none is configured the second return is false and the caller
// must skip the row.
func (c *Categorizer) Categorize(merchantName, description string, amount decimal.Decimal, income bool) (int64, bool) {
	_ = amount // amounts do not influence the stock rules, but are part of the contract

	if income {
		return 0, false
	}

	merchant := strings.ToLower(merchantName)
	text := strings.ToLower(description)

	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			kw := strings.ToLower(keyword)
			if kw == "" {
				continue
			}
			if strings.Contains(merchant, kw) || strings.Contains(text, kw) {
				return rule.CategoryID, true
			}
		}
	}

	if c.fallback != nil {
		return *c.fallback, true
	}
	return 0, false
}

// defaultKeywords is the stock rule table, keyed by the stock category names.
// Order matters: earlier groups win ties.
var defaultKeywords = []struct {
	Category string
	Keywords []string
}{
	{"Supermercado", []string{"mercadona", "carrefour", "lidl", "aldi", "eroski", "alcampo", "consum", "supermercado"}},
	{"Restaurantes", []string{"restaurante", "cafeteria", "mcdonald", "burger", "telepizza", "glovo", "just eat", "uber eats"}},
	{"Transporte", []string{"gasolinera", "repsol", "cepsa", "renfe", "metro", "cabify", "bolt", "uber", "parking"}},
	{"Facturas", []string{"iberdrola", "endesa", "naturgy", "movistar", "vodafone", "orange", "factura"}},
	{"Suscripciones", []string{"netflix", "spotify", "hbo", "disney", "prime video", "apple.com"}},
	{"Salud", []string{"farmacia", "clinica", "dentista", "sanitas", "adeslas"}},
	{"Compras", []string{"amazon", "zara", "el corte ingles", "decathlon", "ikea", "aliexpress"}},
	{"Vivienda", []string{"alquiler", "hipoteca", "comunidad"}},
}

// BuildRules assembles the evaluation order: the user's stored rules by
// ascending priority, then the stock table resolved against the user's
// category names. Returns the rules and the fallback category id, nil when
// the user has no generic category.
func BuildRules(stored []models.CategoryRule, categories []models.Category) ([]Rule, *int64) {
	categories = models.DedupeCategories(categories)

	byName := make(map[string]int64, len(categories))
	for _, c := range categories {
		if !c.IsActive {
			continue
		}
		byName[strings.ToLower(c.Name)] = c.ID
	}

	sorted := make([]models.CategoryRule, len(stored))
	copy(sorted, stored)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].ID < sorted[j].ID
	})

	var rules []Rule
	for _, r := range sorted {
		keywords, err := r.KeywordList()
		if err != nil || len(keywords) == 0 {
			continue
		}
		rules = append(rules, Rule{CategoryID: r.CategoryID, Keywords: keywords})
	}

	for _, group := range defaultKeywords {
		id, ok := byName[strings.ToLower(group.Category)]
		if !ok {
			continue
		}
		rules = append(rules, Rule{CategoryID: id, Keywords: group.Keywords})
	}

	var fallback *int64
	if id, ok := byName[strings.ToLower(FallbackCategoryName)]; ok {
		fallback = &id
	}
	return rules, fallback
}
