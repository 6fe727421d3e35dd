package aggregator

import (
	"github.com/asutoshsabat91/adventureos/internal/models"
	"github.com/asutoshsabat91/adventureos/internal/providers"
)

// BestValueSavingsPct estimates the saving of the best-value pairing over
// booking separately. A fixed illustrative figure until real comparison
// pricing exists; swappable without touching call sites.
var BestValueSavingsPct = func(flight *models.Flight, stay *models.Accommodation) float64 {
	return 15
}

// OtherExpensesRate is the flat buffer added to the cost estimate for
// meals, local transport and the rest.
const OtherExpensesRate = 0.20

// costUncertaintyFactor widens Min into Max; real quotes scatter roughly
// this much around provider list prices.
const costUncertaintyFactor = 1.5

// buildPackages synthesizes the three cross-domain packages purely from
// whichever sub-results succeeded.
func (a *Aggregator) buildPackages(data models.ComprehensiveSearchResponse, req models.ComprehensiveSearchRequest) models.RecommendationPackages {
	var packages models.RecommendationPackages
	nights := req.Nights()

	var flightRecs *models.FlightRecommendations
	if data.Flights != nil {
		flightRecs = &data.Flights.Recommendations
	}
	var stayRecs *models.AccommodationRecommendations
	if data.Accommodations != nil {
		stayRecs = &data.Accommodations.Recommendations
	}

	if flightRecs != nil && flightRecs.BestValue != nil && stayRecs != nil && stayRecs.BestValue != nil {
		flight := flightRecs.BestValue
		stay := stayRecs.BestValue
		total := flight.Price.Amount + stay.CheapestNightly().Amount*float64(nights)
		packages.BestValue = &models.BestValuePackage{
			Flight:        flight,
			Accommodation: stay,
			TotalCost:     total,
			Currency:      flight.Price.Currency,
			SavingsPct:    BestValueSavingsPct(flight, stay),
		}
	}

	if data.Activities != nil && data.Activities.Recommendations.MostAdventurous != nil {
		tour := data.Activities.Recommendations.MostAdventurous
		packages.Adventure = &models.AdventurePackage{
			Tour:           tour,
			AdventureScore: providers.AdventureScore(*tour),
		}
	}

	if flightRecs != nil && flightRecs.Cheapest != nil && data.Accommodations != nil && len(data.Accommodations.Accommodations) > 0 {
		flight := flightRecs.Cheapest
		stay := &data.Accommodations.Accommodations[0]
		total := flight.Price.Amount + stay.CheapestNightly().Amount*float64(nights)
		packages.BudgetFriendly = &models.BudgetPackage{
			Flight:        flight,
			Accommodation: stay,
			TotalCost:     total,
			Currency:      flight.Price.Currency,
			UnderBudget:   req.Budget == nil || total <= *req.Budget,
		}
	}

	return packages
}

// estimateCost sums the per-domain representative costs, adds the flat
// other-expenses buffer, and reports an intentionally wide band.
func (a *Aggregator) estimateCost(data models.ComprehensiveSearchResponse, req models.ComprehensiveSearchRequest) models.CostEstimate {
	nights := float64(req.Nights())

	estimate := models.CostEstimate{Currency: "USD"}

	if data.Flights != nil && len(data.Flights.Flights) > 0 {
		var sum float64
		for _, f := range data.Flights.Flights {
			sum += f.Price.Amount
		}
		estimate.Breakdown.Flights = sum / float64(len(data.Flights.Flights))
		estimate.Currency = data.Flights.Flights[0].Price.Currency
	}

	if data.Accommodations != nil && len(data.Accommodations.Accommodations) > 0 {
		var sum float64
		for _, acc := range data.Accommodations.Accommodations {
			sum += acc.CheapestNightly().Amount
		}
		estimate.Breakdown.Accommodation = sum / float64(len(data.Accommodations.Accommodations)) * nights
	}

	if data.Activities != nil && len(data.Activities.Tours) > 0 {
		var sum float64
		for _, t := range data.Activities.Tours {
			sum += t.Pricing.Price.Amount
		}
		estimate.Breakdown.Activities = sum / float64(len(data.Activities.Tours))
	}

	subtotal := estimate.Breakdown.Flights + estimate.Breakdown.Accommodation + estimate.Breakdown.Activities
	estimate.Breakdown.Other = subtotal * OtherExpensesRate
	estimate.Min = subtotal + estimate.Breakdown.Other
	estimate.Max = estimate.Min * costUncertaintyFactor

	return estimate
}
