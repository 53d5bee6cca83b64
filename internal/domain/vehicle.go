package domain

// VehicleClass is static reference data: a named vehicle category with fixed
// passenger and luggage capacity.
type VehicleClass struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Passengers int    `json:"passengers"`
	Luggage    int    `json:"luggage"`
}

// Catalog holds the fleet's vehicle classes. Built once at process start and
// read-only afterwards.
type Catalog struct {
	classes []VehicleClass
	byID    map[string]VehicleClass
}

func NewCatalog() *Catalog {
	classes := []VehicleClass{
		{ID: "sedan", Name: "Executive Sedan", Passengers: 3, Luggage: 2},
		{ID: "suv", Name: "Luxury SUV", Passengers: 6, Luggage: 4},
		{ID: "van", Name: "Passenger Van", Passengers: 14, Luggage: 14},
		{ID: "stretch", Name: "Stretch Limousine", Passengers: 8, Luggage: 6},
		{ID: "sprinter", Name: "Luxury Sprinter", Passengers: 12, Luggage: 12},
	}

	byID := make(map[string]VehicleClass, len(classes))
	for _, c := range classes {
		byID[c.ID] = c
	}
	return &Catalog{classes: classes, byID: byID}
}

// CapacityOf resolves a vehicle class id to its capacity limits.
func (c *Catalog) CapacityOf(id string) (VehicleClass, error) {
	class, ok := c.byID[id]
	if !ok {
		return VehicleClass{}, ErrUnknownVehicleClass
	}
	return class, nil
}

// Classes returns every vehicle class in catalog order.
func (c *Catalog) Classes() []VehicleClass {
	out := make([]VehicleClass, len(c.classes))
	copy(out, c.classes)
	return out
}
