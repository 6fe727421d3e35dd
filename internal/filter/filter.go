package filter

import (
	"strings"

	"github.com/asutoshsabat91/adventureos/internal/models"
)

// MatchFlight reports whether f satisfies the caller's flight preferences.
// A nil preference set matches everything.
func MatchFlight(f models.Flight, p *models.FlightPreferences) bool {
	if p == nil {
		return true
	}
	if p.CabinClass != "" && !strings.EqualFold(f.CabinClass, p.CabinClass) {
		return false
	}
	if p.DirectOnly && f.Stops > 0 {
		return false
	}
	if p.MaxPrice != nil && f.Price.Amount > *p.MaxPrice {
		return false
	}
	return true
}

// MatchAccommodation reports whether a satisfies the caller's
// accommodation preferences. Nightly price is judged on the cheapest room.
func MatchAccommodation(a models.Accommodation, p *models.AccommodationPreferences) bool {
	if p == nil {
		return true
	}
	if len(p.PropertyTypes) > 0 {
		found := false
		for _, pt := range p.PropertyTypes {
			if strings.EqualFold(a.PropertyType, pt) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if p.MinRating != nil && a.Rating.Overall < *p.MinRating {
		return false
	}
	if p.MaxNightly != nil && a.CheapestNightly().Amount > *p.MaxNightly {
		return false
	}
	return true
}

// MatchTour reports whether t satisfies the caller's activity preferences.
func MatchTour(t models.Tour, p *models.ActivityPreferences) bool {
	if p == nil {
		return true
	}
	if p.Difficulty != "" && !strings.EqualFold(string(t.Difficulty), p.Difficulty) {
		return false
	}
	if p.MinPhysicalRating != nil && t.PhysicalRating < *p.MinPhysicalRating {
		return false
	}
	if len(p.AdventureTypes) > 0 {
		found := false
		for _, want := range p.AdventureTypes {
			for _, have := range t.AdventureTypes {
				if strings.EqualFold(want, have) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
