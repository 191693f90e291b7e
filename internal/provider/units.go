package provider

// Unit conversions used by the provider mappers. Upstream schemas report
// package measurements in whatever unit their catalog happens to carry.
const (
	mmPerInch  = 25.4
	cmPerInch  = 2.54
	gramsPerLb = 453.592
	lbPerKg    = 2.20462
	ozPerLb    = 16.0
)

func MMToInches(v float64) float64 { return v / mmPerInch }
func CMToInches(v float64) float64 { return v / cmPerInch }
func GramsToLb(v float64) float64  { return v / gramsPerLb }
func KgToLb(v float64) float64     { return v * lbPerKg }
func OzToLb(v float64) float64     { return v / ozPerLb }

// LengthToInches converts a length in the named unit ("mm", "cm", "in") to
// inches. Unknown units are passed through as inches.
func LengthToInches(v float64, unit string) float64 {
	switch unit {
	case "mm", "millimeters":
		return MMToInches(v)
	case "cm", "centimeters":
		return CMToInches(v)
	default:
		return v
	}
}

// WeightToLb converts a weight in the named unit ("g", "kg", "oz", "lb") to
// pounds. Unknown units are passed through as pounds.
func WeightToLb(v float64, unit string) float64 {
	switch unit {
	case "g", "grams":
		return GramsToLb(v)
	case "kg", "kilograms":
		return KgToLb(v)
	case "oz", "ounces":
		return OzToLb(v)
	default:
		return v
	}
}
