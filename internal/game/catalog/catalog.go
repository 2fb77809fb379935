// Package catalog provides the static vehicle catalog: the built-in fleet,
// YAML loading, and ID resolution with a documented fallback.
package catalog

import (
	"fmt"
	"strings"
)

// Category classifies a vehicle's service class.
type Category string

const (
	CategoryEconomy  Category = "ECONOMY"
	CategoryComfort  Category = "COMFORT"
	CategoryBusiness Category = "BUSINESS"
	CategoryLuxury   Category = "LUXURY"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryEconomy, CategoryComfort, CategoryBusiness, CategoryLuxury:
		return true
	}
	return false
}

// Vehicle is one immutable catalog entry.
type Vehicle struct {
	ID       string
	Name     string
	Category Category
	// Price is the outright purchase price. The starter vehicle is free.
	Price int
	// RentPrice is the daily rental fee. Zero means the vehicle is not
	// available for rent.
	RentPrice int
	// FuelConsumption is the fuel cost factor per distance unit.
	FuelConsumption float64
	// SpeedFactor is cosmetic for now; ride duration is a fixed constant.
	// Reserved for a variable-duration redesign.
	SpeedFactor float64
}

// Rentable reports whether the vehicle can be taken on a daily rental.
func (v Vehicle) Rentable() bool {
	return v.RentPrice > 0
}

// Validate checks a single vehicle entry.
func (v Vehicle) Validate() error {
	var errs []string
	if v.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if v.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if !v.Category.Valid() {
		errs = append(errs, fmt.Sprintf("unknown category %q", v.Category))
	}
	if v.Price < 0 {
		errs = append(errs, fmt.Sprintf("price must be >= 0, got %d", v.Price))
	}
	if v.RentPrice < 0 {
		errs = append(errs, fmt.Sprintf("rent_price must be >= 0, got %d", v.RentPrice))
	}
	if v.FuelConsumption <= 0 {
		errs = append(errs, fmt.Sprintf("fuel_consumption must be > 0, got %g", v.FuelConsumption))
	}
	if v.SpeedFactor <= 0 {
		errs = append(errs, fmt.Sprintf("speed_factor must be > 0, got %g", v.SpeedFactor))
	}
	if len(errs) > 0 {
		return fmt.Errorf("vehicle %q: %s", v.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Catalog is an immutable, ordered set of vehicles. The first entry is the
// starter vehicle, implicitly owned by every player.
type Catalog struct {
	vehicles []Vehicle
	byID     map[string]Vehicle
}

// New builds a validated catalog from the given vehicles, preserving order.
//
// Precondition: vehicles must be non-empty with unique IDs.
// Postcondition: Returns a ready Catalog or a non-nil error.
func New(vehicles []Vehicle) (*Catalog, error) {
	if len(vehicles) == 0 {
		return nil, fmt.Errorf("catalog must contain at least one vehicle")
	}
	byID := make(map[string]Vehicle, len(vehicles))
	for _, v := range vehicles {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byID[v.ID]; dup {
			return nil, fmt.Errorf("duplicate vehicle id %q", v.ID)
		}
		byID[v.ID] = v
	}
	out := make([]Vehicle, len(vehicles))
	copy(out, vehicles)
	return &Catalog{vehicles: out, byID: byID}, nil
}

// Vehicles returns the catalog entries in order.
func (c *Catalog) Vehicles() []Vehicle {
	out := make([]Vehicle, len(c.vehicles))
	copy(out, c.vehicles)
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.vehicles)
}

// Starter returns the first catalog entry.
func (c *Catalog) Starter() Vehicle {
	return c.vehicles[0]
}

// Get returns the vehicle with the given ID.
func (c *Catalog) Get(id string) (Vehicle, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// Resolve returns the vehicle with the given ID, falling back to the starter
// vehicle when the ID does not match any entry. The fallback is intentional
// robustness: a save written against an older catalog must still resolve to a
// drivable vehicle.
//
// Postcondition: Always returns a catalog entry.
func (c *Catalog) Resolve(id string) Vehicle {
	if v, ok := c.byID[id]; ok {
		return v
	}
	return c.vehicles[0]
}
