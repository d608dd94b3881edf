package booking

import (
	"fmt"
	"regexp"
	"time"
)

var (
	mobileRe = regexp.MustCompile(`^[0-9]{10}$`)
	emailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// RoomCategoryOthers is the category value that requires a free-text
// specifier.
const RoomCategoryOthers = "OTHERS"

// Gate validates an assembled submission payload. Checks run in a fixed
// order and only the first violation is reported; the user fixes one thing
// at a time.
type Gate struct{}

type check struct {
	field string
	fn    func(p *Payload) string // returns "" when the check passes
}

func required(field string, get func(p *Payload) string) check {
	return check{field: field, fn: func(p *Payload) string {
		if get(p) == "" {
			return "is required"
		}
		return ""
	}}
}

func nonNegative(field string, get func(p *Payload) *float64) check {
	return check{field: field, fn: func(p *Payload) string {
		if v := get(p); v != nil && *v < 0 {
			return "must not be negative"
		}
		return ""
	}}
}

var checks = []check{
	required("patient_name", func(p *Payload) string { return p.PatientName }),
	required("patient_sex", func(p *Payload) string { return p.PatientSex }),
	required("patient_dob", func(p *Payload) string { return p.PatientDOB }),
	{field: "patient_dob", fn: func(p *Payload) string {
		if _, err := time.Parse(DOBLayout, p.PatientDOB); err != nil {
			return "must be a valid date in DD/MM/YYYY format"
		}
		return ""
	}},
	required("patient_mobile", func(p *Payload) string { return p.PatientMobile }),
	{field: "patient_mobile", fn: func(p *Payload) string {
		if !mobileRe.MatchString(p.PatientMobile) {
			return "must be a 10-digit mobile number"
		}
		return ""
	}},
	{field: "patient_email", fn: func(p *Payload) string {
		if p.PatientEmail != "" && !emailRe.MatchString(p.PatientEmail) {
			return "must be a valid email address"
		}
		return ""
	}},
	required("patient_address", func(p *Payload) string { return p.PatientAddress }),
	required("contact_name", func(p *Payload) string { return p.ContactName }),
	required("contact_mobile", func(p *Payload) string { return p.ContactMobile }),
	{field: "contact_mobile", fn: func(p *Payload) string {
		if !mobileRe.MatchString(p.ContactMobile) {
			return "must be a 10-digit mobile number"
		}
		return ""
	}},
	{field: "contact_email", fn: func(p *Payload) string {
		if p.ContactEmail != "" && !emailRe.MatchString(p.ContactEmail) {
			return "must be a valid email address"
		}
		return ""
	}},
	required("treatment_type", func(p *Payload) string { return p.TreatmentType }),
	required("treatment_name", func(p *Payload) string { return p.TreatmentName }),
	nonNegative("treatment_cost", func(p *Payload) *float64 { return p.TreatmentCost }),
	required("insurance_company", func(p *Payload) string { return p.InsuranceCompany }),
	required("policy_number", func(p *Payload) string { return p.PolicyNumber }),
	required("admission_date", func(p *Payload) string { return p.AdmissionDate }),
	{field: "admission_date", fn: func(p *Payload) string {
		if _, err := time.Parse(DateLayout, p.AdmissionDate); err != nil {
			return "must be a valid date in YYYY-MM-DD format"
		}
		return ""
	}},
	required("discharge_date", func(p *Payload) string { return p.DischargeDate }),
	{field: "discharge_date", fn: func(p *Payload) string {
		discharge, err := time.Parse(DateLayout, p.DischargeDate)
		if err != nil {
			return "must be a valid date in YYYY-MM-DD format"
		}
		if admission, err := time.Parse(DateLayout, p.AdmissionDate); err == nil && admission.After(discharge) {
			return "must not be before the admission date"
		}
		return ""
	}},
	required("room_category", func(p *Payload) string { return p.RoomCategory }),
	{field: "room_category_other", fn: func(p *Payload) string {
		if p.RoomCategory == RoomCategoryOthers && p.RoomCategoryOther == "" {
			return fmt.Sprintf("is required when room category is %s", RoomCategoryOthers)
		}
		return ""
	}},
	{field: "room_rent_per_day", fn: func(p *Payload) string {
		if p.RoomRentPerDay == nil {
			return "is required"
		}
		if *p.RoomRentPerDay < 0 {
			return "must not be negative"
		}
		return ""
	}},
	{field: "total_room_rent", fn: func(p *Payload) string {
		// The total is derived, not user-set. Reject a payload whose
		// total disagrees with what the stay dates and rate produce.
		admission, errA := time.Parse(DateLayout, p.AdmissionDate)
		discharge, errD := time.Parse(DateLayout, p.DischargeDate)
		if errA != nil || errD != nil || p.RoomRentPerDay == nil || admission.After(discharge) {
			return ""
		}
		days := int(discharge.Sub(admission).Hours() / 24)
		expected := float64(days) * *p.RoomRentPerDay
		if p.TotalRoomRent == nil || *p.TotalRoomRent != expected {
			return "does not match the stay duration and room rent per day"
		}
		return ""
	}},
	nonNegative("consultation_charge", func(p *Payload) *float64 { return p.ConsultationCharge }),
	nonNegative("pharmacy_charges", func(p *Payload) *float64 { return p.PharmacyCharges }),
	nonNegative("investigation_charges", func(p *Payload) *float64 { return p.InvestigationCharges }),
	nonNegative("other_charges", func(p *Payload) *float64 { return p.OtherCharges }),
	nonNegative("discount", func(p *Payload) *float64 { return p.Discount }),
}

// Validate runs the payload through the schema and returns the first
// violation as a ValidationError, or nil when the payload is acceptable.
func (Gate) Validate(p *Payload) error {
	for _, c := range checks {
		if msg := c.fn(p); msg != "" {
			return &ValidationError{Field: c.field, Message: msg}
		}
	}
	return nil
}

// CheckReadiness enforces the pre-submission completeness gate, which is
// independent of the schema: no half-entered document input may be left in
// the staging area, and exactly one pre-auth document must be staged.
func (Gate) CheckReadiness(s *Staging) error {
	if s.HasPendingInput() {
		return &ValidationError{
			Field:   "document",
			Message: "please add or remove the document before submitting",
		}
	}
	if s.PreAuth() == nil {
		return &ValidationError{
			Field:   "pre_auth_document",
			Message: "please upload the pre-auth document",
		}
	}
	return nil
}
