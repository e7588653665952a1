package domain

import (
	"fmt"

	"parcelpeer/internal/entities"
)

// InsuranceTiers lists coverage tiers.
func (u *Usecase) InsuranceTiers() []entities.InsuranceTier {
	return entities.InsuranceTiers()
}

// QuoteInsurance recommends a tier for a declared value in kobo.
func (u *Usecase) QuoteInsurance(declared int64) (entities.InsuranceQuote, error) {
	if declared < 0 {
		return entities.InsuranceQuote{}, fmt.Errorf("%w: declared value cannot be negative", entities.ErrInvalidArgument)
	}
	return entities.RecommendInsurance(declared), nil
}

// ValidateInsurance checks that tier covers declared.
func (u *Usecase) ValidateInsurance(declared int64, tier entities.InsuranceTierName) error {
	if declared < 0 {
		return fmt.Errorf("%w: declared value cannot be negative", entities.ErrInvalidArgument)
	}
	return entities.ValidateInsurance(declared, tier)
}
