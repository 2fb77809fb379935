package economy

import "math"

// Fare formula constants.
const (
	// BaseFare is the flat component of every ride price.
	BaseFare = 50.0
	// FarePerKm is the per-kilometer component of the ride price.
	FarePerKm = 25.0
	// BonusFareFactor is applied on top of the base fare for hot orders.
	BonusFareFactor = 1.5
	// MinDistanceKm and MaxDistanceKm bound the random ride distance.
	MinDistanceKm = 2.0
	MaxDistanceKm = 17.0
)

// Rating economy constants.
const (
	// RatingRewardNormal is granted on completing a regular ride.
	RatingRewardNormal = 0.05
	// RatingRewardBonus is granted on completing a hot order.
	RatingRewardBonus = 0.10
	// DeclinePenalty is deducted when a regular offer is declined.
	DeclinePenalty = 0.2

	ratingPivot     = 4.7
	ratingSlope     = 0.5
	ratingFloorMult = 0.5
)

// Energy and daily-life constants.
const (
	// AdEnergyReward is granted per rewarded ad view.
	AdEnergyReward = 40
	// MealCost and MealEnergy price a quick meal between shifts.
	MealCost   = 150
	MealEnergy = 60
)

// RatingMultiplier converts a driver rating into a fare multiplier. Ratings
// below the pivot depress the price, ratings above amplify it, floored at
// half price.
//
// Postcondition: Returns a value >= 0.5.
func RatingMultiplier(rating float64) float64 {
	return math.Max(ratingFloorMult, 1+(rating-ratingPivot)*ratingSlope)
}

// BasePrice computes the pre-tier fare for a ride.
//
// Precondition: distanceKm > 0; shiftMultiplier > 0.
// Postcondition: Returns a positive fare; bonus rides pay BonusFareFactor more.
func BasePrice(distanceKm, shiftMultiplier float64, bonus bool) float64 {
	price := (BaseFare + distanceKm*FarePerKm) * shiftMultiplier
	if bonus {
		price *= BonusFareFactor
	}
	return price
}

// FinalPrice applies the priority tier and rating multipliers to a base fare
// and truncates to whole currency units.
//
// Postcondition: Returns floor(basePrice * tierMultiplier * RatingMultiplier(rating)).
func FinalPrice(basePrice, tierMultiplier, rating float64) int {
	return int(math.Floor(basePrice * tierMultiplier * RatingMultiplier(rating)))
}

// FuelCost computes the fuel expense of a ride in currency units, before
// flooring.
//
// Precondition: distanceKm > 0; consumptionRate > 0.
func FuelCost(distanceKm, consumptionRate float64) float64 {
	return distanceKm * (consumptionRate / 10)
}

// Settlement is the full accounting of one completed ride.
type Settlement struct {
	// Gross is the fare paid by the passenger.
	Gross int `json:"gross"`
	// PlatformFee is the commission withheld by the platform.
	PlatformFee int `json:"platformFee"`
	// FuelCost is the floored fuel expense.
	FuelCost int `json:"fuelCost"`
	// Net is Gross - PlatformFee - FuelCost. It is not clamped and can be
	// negative for thirsty vehicles on long cheap rides.
	Net int `json:"net"`
	// EnergyCost is the driver energy consumed by the ride.
	EnergyCost int `json:"energyCost"`
	// RatingDelta is the rating reward for completing the ride.
	RatingDelta float64 `json:"ratingDelta"`
}

// SettleRide computes the settlement of a completed ride.
//
// Precondition: gross >= 0; commission in [0,1]; distanceKm > 0; consumptionRate > 0.
// Postcondition: Net == Gross - PlatformFee - FuelCost; EnergyCost == floor(fuel*2).
func SettleRide(gross int, commission, distanceKm, consumptionRate, ratingReward float64) Settlement {
	fuel := FuelCost(distanceKm, consumptionRate)
	fee := int(math.Floor(float64(gross) * commission))
	flooredFuel := int(math.Floor(fuel))
	return Settlement{
		Gross:       gross,
		PlatformFee: fee,
		FuelCost:    flooredFuel,
		Net:         gross - fee - flooredFuel,
		EnergyCost:  int(math.Floor(fuel * 2)),
		RatingDelta: ratingReward,
	}
}
