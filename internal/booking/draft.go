package booking

import (
	"time"
)

// Date layouts used by the booking form. DOB is typed in the Indian display
// format; stay dates come from date inputs as ISO days.
const (
	DOBLayout  = "02/01/2006"
	DateLayout = "2006-01-02"
)

// Field identifies a draft field for derivation-rule dependency tracking.
type Field string

const (
	FieldPatientDOB           Field = "patient_dob"
	FieldPatientAge           Field = "patient_age"
	FieldAdmissionDate        Field = "admission_date"
	FieldDischargeDate        Field = "discharge_date"
	FieldRoomRentPerDay       Field = "room_rent_per_day"
	FieldTotalRoomRent        Field = "total_room_rent"
	FieldConsultationCharge   Field = "consultation_charge"
	FieldPharmacyCharges      Field = "pharmacy_charges"
	FieldInvestigationCharges Field = "investigation_charges"
	FieldOtherCharges         Field = "other_charges"
	FieldDiscount             Field = "discount"
	FieldCostEstimation       Field = "cost_estimation"
)

// Draft is the in-progress booking form state. It is treated as a value:
// every update produces a new Draft with derived fields recomputed, never a
// partial in-place merge.
type Draft struct {
	Payload

	// AgeLocked is true while a DOB is entered; the age field is derived
	// and not directly editable until the DOB is cleared.
	AgeLocked bool
}

// Rule is one derivation rule: a pure transform with an explicit list of
// input fields and the single field it overwrites. A rule never reads or
// writes outside those fields, so recomputation is deterministic and cannot
// recurse.
type Rule struct {
	Name   string
	Inputs []Field
	Output Field
	Apply  func(Draft) Draft
}

// Engine recomputes derived draft fields whenever one of their inputs
// changes. The clock is injectable for age tests.
type Engine struct {
	now   func() time.Time
	rules []Rule
}

func NewEngine() *Engine {
	e := &Engine{now: time.Now}
	e.rules = []Rule{e.ageRule(), e.roomRentRule(), e.costRule()}
	return e
}

// WithClock overrides the engine's clock. Used in tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Apply runs every rule whose inputs include the changed field, cascading
// into rules whose inputs include a field rewritten earlier in the same
// pass (cost estimation depends on the derived total room rent). Rules are
// ordered so a single pass settles the draft.
func (e *Engine) Apply(d Draft, changed Field) Draft {
	dirty := map[Field]bool{changed: true}
	for _, rule := range e.rules {
		triggered := false
		for _, in := range rule.Inputs {
			if dirty[in] {
				triggered = true
				break
			}
		}
		if !triggered {
			continue
		}
		d = rule.Apply(d)
		dirty[rule.Output] = true
	}
	return d
}

// Recompute runs every rule once, in order. Used when a draft is
// pre-populated from an existing booking or a patient-detail capture.
func (e *Engine) Recompute(d Draft) Draft {
	for _, rule := range e.rules {
		d = rule.Apply(d)
	}
	return d
}

// ageRule derives the patient age from the DOB and locks the age field
// while a DOB is present. An unparseable DOB leaves the previous age
// untouched; the user is still typing.
func (e *Engine) ageRule() Rule {
	return Rule{
		Name:   "age",
		Inputs: []Field{FieldPatientDOB},
		Output: FieldPatientAge,
		Apply: func(d Draft) Draft {
			d.AgeLocked = d.PatientDOB != ""
			dob, err := time.Parse(DOBLayout, d.PatientDOB)
			if err != nil {
				return d
			}
			age := fullYearsBetween(dob, e.now())
			d.PatientAge = &age
			return d
		},
	}
}

// roomRentRule derives total room rent from the stay dates and the per-day
// rate. Any absent or unparseable input clears the total rather than leaving
// it stale; admission after discharge is a transient state while dates are
// being picked and also leaves the total unset.
func (e *Engine) roomRentRule() Rule {
	return Rule{
		Name:   "room-rent",
		Inputs: []Field{FieldAdmissionDate, FieldDischargeDate, FieldRoomRentPerDay},
		Output: FieldTotalRoomRent,
		Apply: func(d Draft) Draft {
			d.TotalRoomRent = nil
			if d.RoomRentPerDay == nil {
				return d
			}
			admission, err := time.Parse(DateLayout, d.AdmissionDate)
			if err != nil {
				return d
			}
			discharge, err := time.Parse(DateLayout, d.DischargeDate)
			if err != nil {
				return d
			}
			if admission.After(discharge) {
				return d
			}
			days := int(discharge.Sub(admission).Hours() / 24)
			total := float64(days) * *d.RoomRentPerDay
			d.TotalRoomRent = &total
			return d
		},
	}
}

// costRule sums the itemized charges minus the discount, treating absent
// addends as zero. The result is a recomputed default, not a lock: the user
// may overwrite it afterwards, and doing so triggers nothing.
func (e *Engine) costRule() Rule {
	return Rule{
		Name: "cost-estimation",
		Inputs: []Field{
			FieldTotalRoomRent,
			FieldConsultationCharge,
			FieldPharmacyCharges,
			FieldInvestigationCharges,
			FieldOtherCharges,
			FieldDiscount,
		},
		Output: FieldCostEstimation,
		Apply: func(d Draft) Draft {
			total := value(d.TotalRoomRent) +
				value(d.ConsultationCharge) +
				value(d.PharmacyCharges) +
				value(d.InvestigationCharges) +
				value(d.OtherCharges) -
				value(d.Discount)
			d.CostEstimation = &total
			return d
		},
	}
}

func value(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// fullYearsBetween returns the number of whole calendar years from dob to
// now (birthday-not-yet-reached subtracts one).
func fullYearsBetween(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	anniversary := dob.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// ---------------------------------------------------------------------------
// Field setters
// ---------------------------------------------------------------------------

// SetPatientDOB updates the DOB and re-derives the age.
func (e *Engine) SetPatientDOB(d Draft, dob string) Draft {
	d.PatientDOB = dob
	return e.Apply(d, FieldPatientDOB)
}

// SetPatientAge sets the age directly. Ignored while the age is derived
// from a DOB.
func (e *Engine) SetPatientAge(d Draft, age int) Draft {
	if d.AgeLocked {
		return d
	}
	d.PatientAge = &age
	return d
}

// SetAdmissionDate updates the admission date and re-derives the dependent
// totals.
func (e *Engine) SetAdmissionDate(d Draft, date string) Draft {
	d.AdmissionDate = date
	return e.Apply(d, FieldAdmissionDate)
}

// SetDischargeDate updates the discharge date and re-derives the dependent
// totals.
func (e *Engine) SetDischargeDate(d Draft, date string) Draft {
	d.DischargeDate = date
	return e.Apply(d, FieldDischargeDate)
}

// SetRoomRentPerDay updates the per-day rate. Pass nil to clear it.
func (e *Engine) SetRoomRentPerDay(d Draft, rate *float64) Draft {
	d.RoomRentPerDay = rate
	return e.Apply(d, FieldRoomRentPerDay)
}

func (e *Engine) SetConsultationCharge(d Draft, v *float64) Draft {
	d.ConsultationCharge = v
	return e.Apply(d, FieldConsultationCharge)
}

func (e *Engine) SetPharmacyCharges(d Draft, v *float64) Draft {
	d.PharmacyCharges = v
	return e.Apply(d, FieldPharmacyCharges)
}

func (e *Engine) SetInvestigationCharges(d Draft, v *float64) Draft {
	d.InvestigationCharges = v
	return e.Apply(d, FieldInvestigationCharges)
}

func (e *Engine) SetOtherCharges(d Draft, v *float64) Draft {
	d.OtherCharges = v
	return e.Apply(d, FieldOtherCharges)
}

func (e *Engine) SetDiscount(d Draft, v *float64) Draft {
	d.Discount = v
	return e.Apply(d, FieldDiscount)
}

// SetCostEstimation overrides the computed estimate. The computed value is a
// default, not a lock, so this is permitted and triggers no rule.
func (e *Engine) SetCostEstimation(d Draft, v *float64) Draft {
	d.CostEstimation = v
	return d
}
