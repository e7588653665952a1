package entities

import "fmt"

// InsuranceTierName names a coverage level.
type InsuranceTierName string

const (
	InsuranceNone     InsuranceTierName = "none"
	InsuranceBasic    InsuranceTierName = "basic"
	InsuranceStandard InsuranceTierName = "standard"
	InsurancePremium  InsuranceTierName = "premium"
)

// InsuranceTier is a fixed fee buying coverage up to a cap. Amounts are in kobo.
type InsuranceTier struct {
	Tier        InsuranceTierName `json:"tier"`
	Name        string            `json:"name"`
	Fee         int64             `json:"fee"`
	Coverage    int64             `json:"coverage"`
	Description string            `json:"description"`
}

var insuranceTiers = map[InsuranceTierName]InsuranceTier{
	InsuranceNone:     {Tier: InsuranceNone, Name: "No Insurance", Description: "No insurance coverage"},
	InsuranceBasic:    {Tier: InsuranceBasic, Name: "Basic Coverage", Fee: 10000, Coverage: 5000000, Description: "Covers items up to ₦50,000"},
	InsuranceStandard: {Tier: InsuranceStandard, Name: "Standard Coverage", Fee: 20000, Coverage: 20000000, Description: "Covers items up to ₦200,000"},
	InsurancePremium:  {Tier: InsurancePremium, Name: "Premium Coverage", Fee: 50000, Coverage: 100000000, Description: "Covers items up to ₦1,000,000"},
}

// Insurance returns the tier details and whether the tier exists.
func Insurance(name InsuranceTierName) (InsuranceTier, bool) {
	t, ok := insuranceTiers[name]
	return t, ok
}

// InsuranceTiers lists tiers in ascending coverage.
func InsuranceTiers() []InsuranceTier {
	return []InsuranceTier{
		insuranceTiers[InsuranceNone],
		insuranceTiers[InsuranceBasic],
		insuranceTiers[InsuranceStandard],
		insuranceTiers[InsurancePremium],
	}
}

// InsuranceQuote is a tier recommendation for a declared value.
type InsuranceQuote struct {
	DeclaredValue   int64             `json:"declaredValue"`
	RecommendedTier InsuranceTierName `json:"recommendedTier"`
	Tiers           []InsuranceTier   `json:"tiers"`
}

// RecommendInsurance picks the cheapest tier covering declared.
func RecommendInsurance(declared int64) InsuranceQuote {
	rec := InsuranceNone
	switch {
	case declared <= 0:
	case declared <= insuranceTiers[InsuranceBasic].Coverage:
		rec = InsuranceBasic
	case declared <= insuranceTiers[InsuranceStandard].Coverage:
		rec = InsuranceStandard
	default:
		rec = InsurancePremium
	}
	return InsuranceQuote{DeclaredValue: declared, RecommendedTier: rec, Tiers: InsuranceTiers()}
}

// ValidateInsurance checks that tier covers declared.
func ValidateInsurance(declared int64, tier InsuranceTierName) error {
	if tier == InsuranceNone {
		return nil
	}
	t, ok := insuranceTiers[tier]
	if !ok {
		return fmt.Errorf("%w: unknown insurance tier %q", ErrInvalidArgument, tier)
	}
	if declared > t.Coverage {
		return fmt.Errorf("%w: %s only covers items up to ₦%d, choose a higher tier or reduce declared value",
			ErrInsuranceCoverage, t.Name, t.Coverage/100)
	}
	return nil
}
