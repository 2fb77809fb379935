package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlCatalogFile is the top-level YAML structure for catalog files.
type yamlCatalogFile struct {
	Vehicles []yamlVehicle `yaml:"vehicles"`
}

// yamlVehicle is the YAML representation of a vehicle.
type yamlVehicle struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	Category        string  `yaml:"category"`
	Price           int     `yaml:"price"`
	RentPrice       int     `yaml:"rent_price"`
	FuelConsumption float64 `yaml:"fuel_consumption"`
	SpeedFactor     float64 `yaml:"speed_factor"`
}

// LoadFromFile reads and validates a catalog YAML file.
//
// Precondition: path must point to a valid YAML catalog file.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates a catalog from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the catalog schema.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadFromBytes(data []byte) (*Catalog, error) {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}

	vehicles := make([]Vehicle, 0, len(file.Vehicles))
	for _, yv := range file.Vehicles {
		vehicles = append(vehicles, Vehicle{
			ID:              yv.ID,
			Name:            yv.Name,
			Category:        Category(yv.Category),
			Price:           yv.Price,
			RentPrice:       yv.RentPrice,
			FuelConsumption: yv.FuelConsumption,
			SpeedFactor:     yv.SpeedFactor,
		})
	}

	cat, err := New(vehicles)
	if err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
	return cat, nil
}

// Default returns the built-in seven-vehicle fleet.
//
// Postcondition: Returns a valid catalog whose first entry is the rental
// starter car.
func Default() *Catalog {
	cat, err := New([]Vehicle{
		{ID: "car_1", Name: "Старая Лада", Category: CategoryEconomy, Price: 0, RentPrice: 50, FuelConsumption: 15, SpeedFactor: 1},
		{ID: "car_2", Name: "Народный Солярис", Category: CategoryEconomy, Price: 5000, RentPrice: 150, FuelConsumption: 10, SpeedFactor: 1.2},
		{ID: "car_3", Name: "Комфорт Камри", Category: CategoryComfort, Price: 15000, RentPrice: 350, FuelConsumption: 8, SpeedFactor: 1.5},
		{ID: "car_tesla", Name: "Электро Тесла", Category: CategoryComfort, Price: 25000, RentPrice: 450, FuelConsumption: 5, SpeedFactor: 1.8},
		{ID: "car_van", Name: "Минивэн V-Class", Category: CategoryBusiness, Price: 35000, RentPrice: 600, FuelConsumption: 14, SpeedFactor: 1.4},
		{ID: "car_4", Name: "Люкс Майбах", Category: CategoryBusiness, Price: 65000, RentPrice: 0, FuelConsumption: 12, SpeedFactor: 2},
		{ID: "car_rolls", Name: "Роллс Фантом", Category: CategoryLuxury, Price: 150000, RentPrice: 0, FuelConsumption: 20, SpeedFactor: 1.8},
	})
	if err != nil {
		panic("catalog: default fleet invalid: " + err.Error())
	}
	return cat
}
