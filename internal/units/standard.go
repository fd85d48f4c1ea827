package units

// Offset between degrees Celsius and kelvin.
const celsiusOffset = 273.15

// Standard returns a new registry holding the built-in length, mass, time,
// velocity, flux, diffusivity, area, volume and temperature units.
func Standard() *Registry {
	r := NewRegistry()
	RegisterStandard(r)
	return r
}

// RegisterStandard installs the built-in units into r. Bare symbols that name
// other quantities, such as "C" (coulomb) or "d", are not registered.
func RegisterStandard(r *Registry) {
	// Length
	r.RegisterScale(1, "m")
	r.RegisterScale(1.0/100, "cm")
	r.RegisterScale(1.0/1000, "mm")
	r.RegisterScale(1000, "km")

	// Mass
	r.RegisterScale(1, "kg")
	r.RegisterScale(1.0/1000, "g")
	r.RegisterScale(1000, "t", "tonne")

	// Time
	r.RegisterScale(1, "s")
	r.RegisterScale(60, "min")
	r.RegisterScale(3600, "h")
	r.RegisterScale(86400, "day")

	// Velocity
	r.RegisterScale(1, "m/s")
	r.RegisterScale(10.0/36, "km/h")

	// Volumetric flux: litres per square metre per hour
	r.RegisterScale(1.0/3600000, "L/m²/h", "L/m2/h", "LMH")

	// Diffusivity
	r.RegisterScale(1, "m²/s", "m2/s")
	r.RegisterScale(1e-4, "cm²/s", "cm2/s")

	// Area
	r.RegisterScale(1, "m²", "m2")
	r.RegisterScale(1e-4, "cm²", "cm2")

	// Volume
	r.RegisterScale(1, "m³", "m3")
	r.RegisterScale(1e-3, "L", "l")
	r.RegisterScale(1e-6, "mL", "ml", "cm³", "cm3")

	// Temperature
	r.RegisterScale(1, "K")
	r.Register([]string{"°C", "degC"},
		func(v float64) float64 { return v + celsiusOffset },
		func(v float64) float64 { return v - celsiusOffset },
	)
}
