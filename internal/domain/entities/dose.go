package entities

import "time"

// DoseReference is an immutable population-level dosing record for a
// medication, looked up by medication name or active ingredient.
type DoseReference struct {
	ID               string `json:"id,omitempty" db:"id"`
	MedicationName   string `json:"medication_name" db:"medication_name"`
	ActiveIngredient string `json:"active_ingredient,omitempty" db:"active_ingredient"`
	StandardDosage   string `json:"standard_dosage,omitempty" db:"standard_dosage"`
	Frequency        string `json:"frequency,omitempty" db:"recommended_frequency"`
	Duration         string `json:"duration,omitempty" db:"recommended_duration"`
	Route            string `json:"route,omitempty" db:"route_of_administration"`
	MaxDailyDose     string `json:"max_daily_dose,omitempty" db:"max_daily_dose"`
	Instructions     string `json:"instructions,omitempty" db:"special_instructions"`
	DosageForm       string `json:"dosage_form,omitempty" db:"dosage_form"`
	Strength         string `json:"strength,omitempty" db:"strength"`
}

// DoctorDoseOverride is a doctor's personalized defaults for a term.
// Every default field is independently optional; an empty string means
// "no preference, fall through to the reference catalog".
type DoctorDoseOverride struct {
	DoctorID     string    `json:"doctor_id" db:"doctor_id"`
	TermName     string    `json:"term_name" db:"medicine_name"`
	Dosage       string    `json:"dosage,omitempty" db:"dosage"`
	Frequency    string    `json:"frequency,omitempty" db:"frequency"`
	Duration     string    `json:"duration,omitempty" db:"duration"`
	Timing       string    `json:"timing,omitempty" db:"timing"`
	Instructions string    `json:"instructions,omitempty" db:"instructions"`
	Quantity     int       `json:"quantity,omitempty" db:"quantity"`
	UsageCount   int       `json:"usage_count" db:"usage_count"`
	UpdatedAt    time.Time `json:"-" db:"updated_at"`
}

// DoseDefaults is the resolved dosing record handed back to the
// prescription pad. A zero value means "no defaults available, prompt
// for manual entry".
type DoseDefaults struct {
	Dosage       string `json:"dosage,omitempty"`
	Frequency    string `json:"frequency,omitempty"`
	Duration     string `json:"duration,omitempty"`
	Route        string `json:"route,omitempty"`
	Timing       string `json:"timing,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Quantity     int    `json:"quantity,omitempty"`
}

// IsEmpty reports whether no field resolved at all
func (d DoseDefaults) IsEmpty() bool {
	return d == DoseDefaults{}
}

// TaperingStep is one step of a tapering schedule, owned by a single
// prescription line item. The sequence is ordered by StepNumber.
type TaperingStep struct {
	StepNumber   int    `json:"step_number" db:"step_number"`
	Dose         string `json:"dose" db:"dose"`
	Frequency    string `json:"frequency" db:"frequency"`
	DurationDays int    `json:"duration_days" db:"duration_days"`
}
