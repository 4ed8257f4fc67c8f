package entity

import "fmt"

// VitalRange is an inclusive physiological range for one reading field.
type VitalRange struct {
	Field string
	Label string
	Min   float64
	Max   float64
}

var (
	SystolicRange  = VitalRange{Field: "blood_pressure_systolic", Label: "systolic pressure", Min: 70, Max: 200}
	DiastolicRange = VitalRange{Field: "blood_pressure_diastolic", Label: "diastolic pressure", Min: 40, Max: 130}
	SugarRange     = VitalRange{Field: "blood_sugar", Label: "blood sugar level", Min: 30, Max: 600}
	HeartRateRange = VitalRange{Field: "heart_rate", Label: "heart rate", Min: 40, Max: 200}
)

func (r VitalRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r VitalRange) Message() string {
	return fmt.Sprintf("Invalid %s (%g-%g)", r.Label, r.Min, r.Max)
}

// OutOfRangeFields checks every present field of the record and returns
// field -> message for each one outside its range.
func (v *VitalRecord) OutOfRangeFields() map[string]string {
	errs := make(map[string]string)

	checkInt := func(val *int, r VitalRange) {
		if val != nil && !r.Contains(float64(*val)) {
			errs[r.Field] = r.Message()
		}
	}

	checkInt(v.BloodPressureSystolic, SystolicRange)
	checkInt(v.BloodPressureDiastolic, DiastolicRange)
	if v.BloodSugar != nil && !SugarRange.Contains(*v.BloodSugar) {
		errs[SugarRange.Field] = SugarRange.Message()
	}
	checkInt(v.HeartRate, HeartRateRange)

	return errs
}

// IsEmpty reports whether no reading field is present.
func (v *VitalRecord) IsEmpty() bool {
	return v.BloodPressureSystolic == nil && v.BloodPressureDiastolic == nil &&
		v.BloodSugar == nil && v.HeartRate == nil
}
