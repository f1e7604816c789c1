package inquiry

import (
	"fmt"
	"time"

	catalogRepo "tradewinds/database/repository/catalog"
	"tradewinds/models"
)

func testCatalog() *catalogRepo.MemoryCatalogRepo {
	resorts := []models.Resort{
		{ID: "coral-lagoon", Name: "Coral Lagoon", Tags: []string{"diving", "snorkeling", "overwater-villa"}},
		{ID: "palm-haven", Name: "Palm Haven", Tags: []string{"spa", "beach-villa", "private-pool"}},
		{ID: "reef-break", Name: "Reef Break", Tags: []string{"surfing", "snorkeling", "beach-villa"}},
		{ID: "blue-horizon", Name: "Blue Horizon", Tags: []string{"spa", "overwater-villa"}},
	}
	opts := []models.Option{
		{ID: "honeymoon", Kind: models.OptionPurpose},
		{ID: "family", Kind: models.OptionPurpose},
		{ID: "diving", Kind: models.OptionExperience},
		{ID: "snorkeling", Kind: models.OptionExperience},
		{ID: "spa", Kind: models.OptionExperience},
		{ID: "surfing", Kind: models.OptionExperience},
		{ID: "overwater-villa", Kind: models.OptionPreference},
		{ID: "beach-villa", Kind: models.OptionPreference},
		{ID: "private-pool", Kind: models.OptionPreference},
	}
	return catalogRepo.NewMemoryCatalogRepo(resorts, opts)
}

func testWizard() *Wizard {
	w := NewWizard(testCatalog(), DefaultPickBonus)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	w.Now = func() time.Time { return now }
	n := 0
	w.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return w
}

func validContact() models.ContactDetails {
	return models.ContactDetails{
		Name:      "Aisha Rahman",
		Phone:     "+960 777 1234",
		Email:     "aisha@example.com",
		Arrival:   "2026-11-02",
		Departure: "2026-11-09",
		Adults:    2,
		MealPlan:  models.MealPlanHalfBoard,
	}
}
