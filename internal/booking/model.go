package booking

import (
	"time"

	"github.com/google/uuid"
)

// Booking statuses as they move through the admin portal.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusApproved: true, StatusRejected: true, StatusCancelled: true,
}

// PreAuthDocName is the fixed display name of the mandatory insurance
// pre-authorization document.
const PreAuthDocName = "Pre-Auth Document"

// StagedDocument is a file already uploaded to blob storage, identified by
// its remote path. Until the owning booking is persisted the staged list is
// the only pointer to the remote object.
type StagedDocument struct {
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
}

// Payload is the assembled booking submission: every form field plus the
// merged document list. Optional numerics are pointers so an explicit zero
// (rent/day of 0 is a valid rate) stays distinct from absent.
type Payload struct {
	// Patient identity
	PatientName    string `json:"patient_name"`
	PatientAge     *int   `json:"patient_age,omitempty"`
	PatientSex     string `json:"patient_sex"`
	PatientDOB     string `json:"patient_dob"` // DD/MM/YYYY
	PatientMobile  string `json:"patient_mobile"`
	PatientEmail   string `json:"patient_email,omitempty"`
	PatientAddress string `json:"patient_address"`

	// Contact person
	ContactName    string `json:"contact_name"`
	ContactMobile  string `json:"contact_mobile"`
	ContactEmail   string `json:"contact_email,omitempty"`
	ContactAddress string `json:"contact_address,omitempty"`

	// Treatment
	TreatmentType    string   `json:"treatment_type"`
	TreatmentName    string   `json:"treatment_name"`
	TreatmentDetails string   `json:"treatment_details,omitempty"`
	TreatmentCost    *float64 `json:"treatment_cost,omitempty"`

	// Policy
	InsuranceID      string `json:"insurance_id,omitempty"`
	InsuranceCompany string `json:"insurance_company"`
	PolicyType       string `json:"policy_type,omitempty"`
	PolicyName       string `json:"policy_name,omitempty"`
	PolicyNumber     string `json:"policy_number"`
	UHID             string `json:"uhid,omitempty"`

	// Stay (YYYY-MM-DD)
	AdmissionDate string `json:"admission_date"`
	DischargeDate string `json:"discharge_date"`

	// Room
	RoomCategory      string   `json:"room_category"`
	RoomCategoryOther string   `json:"room_category_other,omitempty"`
	RoomRentPerDay    *float64 `json:"room_rent_per_day"`
	TotalRoomRent     *float64 `json:"total_room_rent,omitempty"`

	// Itemized payment
	ConsultationCharge   *float64 `json:"consultation_charge,omitempty"`
	PharmacyCharges      *float64 `json:"pharmacy_charges,omitempty"`
	InvestigationCharges *float64 `json:"investigation_charges,omitempty"`
	OtherCharges         *float64 `json:"other_charges,omitempty"`
	Discount             *float64 `json:"discount,omitempty"`
	CostEstimation       *float64 `json:"cost_estimation,omitempty"`

	Documents []StagedDocument `json:"documents,omitempty"`
}

// Booking is the persisted intimation record.
type Booking struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"created_by,omitempty"`
	Payload
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PreAuthDocument returns the payload's pre-auth document, or nil.
func (p *Payload) PreAuthDocument() *StagedDocument {
	for i := range p.Documents {
		if p.Documents[i].FileName == PreAuthDocName {
			return &p.Documents[i]
		}
	}
	return nil
}
