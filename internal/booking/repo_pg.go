package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const bookingCols = `id, status, created_by,
	patient_name, patient_age, patient_sex, patient_dob, patient_mobile, patient_email, patient_address,
	contact_name, contact_mobile, contact_email, contact_address,
	treatment_type, treatment_name, treatment_details, treatment_cost,
	insurance_id, insurance_company, policy_type, policy_name, policy_number, uhid,
	admission_date, discharge_date,
	room_category, room_category_other, room_rent_per_day, total_room_rent,
	consultation_charge, pharmacy_charges, investigation_charges, other_charges, discount, cost_estimation,
	documents, created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var docs []byte
	err := row.Scan(&b.ID, &b.Status, &b.CreatedBy,
		&b.PatientName, &b.PatientAge, &b.PatientSex, &b.PatientDOB, &b.PatientMobile, &b.PatientEmail, &b.PatientAddress,
		&b.ContactName, &b.ContactMobile, &b.ContactEmail, &b.ContactAddress,
		&b.TreatmentType, &b.TreatmentName, &b.TreatmentDetails, &b.TreatmentCost,
		&b.InsuranceID, &b.InsuranceCompany, &b.PolicyType, &b.PolicyName, &b.PolicyNumber, &b.UHID,
		&b.AdmissionDate, &b.DischargeDate,
		&b.RoomCategory, &b.RoomCategoryOther, &b.RoomRentPerDay, &b.TotalRoomRent,
		&b.ConsultationCharge, &b.PharmacyCharges, &b.InvestigationCharges, &b.OtherCharges, &b.Discount, &b.CostEstimation,
		&docs, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &b.Documents); err != nil {
			return nil, fmt.Errorf("unmarshal documents: %w", err)
		}
	}
	return &b, nil
}

func (r *repoPG) Create(ctx context.Context, b *Booking) error {
	b.ID = uuid.New()
	docs, err := json.Marshal(b.Documents)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO bookings (id, status, created_by,
			patient_name, patient_age, patient_sex, patient_dob, patient_mobile, patient_email, patient_address,
			contact_name, contact_mobile, contact_email, contact_address,
			treatment_type, treatment_name, treatment_details, treatment_cost,
			insurance_id, insurance_company, policy_type, policy_name, policy_number, uhid,
			admission_date, discharge_date,
			room_category, room_category_other, room_rent_per_day, total_room_rent,
			consultation_charge, pharmacy_charges, investigation_charges, other_charges, discount, cost_estimation,
			documents)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
			$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,$36,$37)`,
		b.ID, b.Status, b.CreatedBy,
		b.PatientName, b.PatientAge, b.PatientSex, b.PatientDOB, b.PatientMobile, b.PatientEmail, b.PatientAddress,
		b.ContactName, b.ContactMobile, b.ContactEmail, b.ContactAddress,
		b.TreatmentType, b.TreatmentName, b.TreatmentDetails, b.TreatmentCost,
		b.InsuranceID, b.InsuranceCompany, b.PolicyType, b.PolicyName, b.PolicyNumber, b.UHID,
		b.AdmissionDate, b.DischargeDate,
		b.RoomCategory, b.RoomCategoryOther, b.RoomRentPerDay, b.TotalRoomRent,
		b.ConsultationCharge, b.PharmacyCharges, b.InvestigationCharges, b.OtherCharges, b.Discount, b.CostEstimation,
		docs)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingCols), id)
	return scanBooking(row)
}

func (r *repoPG) Update(ctx context.Context, b *Booking) error {
	docs, err := json.Marshal(b.Documents)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings SET status=$2,
			patient_name=$3, patient_age=$4, patient_sex=$5, patient_dob=$6, patient_mobile=$7, patient_email=$8, patient_address=$9,
			contact_name=$10, contact_mobile=$11, contact_email=$12, contact_address=$13,
			treatment_type=$14, treatment_name=$15, treatment_details=$16, treatment_cost=$17,
			insurance_id=$18, insurance_company=$19, policy_type=$20, policy_name=$21, policy_number=$22, uhid=$23,
			admission_date=$24, discharge_date=$25,
			room_category=$26, room_category_other=$27, room_rent_per_day=$28, total_room_rent=$29,
			consultation_charge=$30, pharmacy_charges=$31, investigation_charges=$32, other_charges=$33, discount=$34, cost_estimation=$35,
			documents=$36, updated_at=NOW()
		WHERE id=$1`,
		b.ID, b.Status,
		b.PatientName, b.PatientAge, b.PatientSex, b.PatientDOB, b.PatientMobile, b.PatientEmail, b.PatientAddress,
		b.ContactName, b.ContactMobile, b.ContactEmail, b.ContactAddress,
		b.TreatmentType, b.TreatmentName, b.TreatmentDetails, b.TreatmentCost,
		b.InsuranceID, b.InsuranceCompany, b.PolicyType, b.PolicyName, b.PolicyNumber, b.UHID,
		b.AdmissionDate, b.DischargeDate,
		b.RoomCategory, b.RoomCategoryOther, b.RoomRentPerDay, b.TotalRoomRent,
		b.ConsultationCharge, b.PharmacyCharges, b.InvestigationCharges, b.OtherCharges, b.Discount, b.CostEstimation,
		docs)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Booking, int, error) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.CreatedAfter != nil {
		conds = append(conds, "created_at >= "+arg(*f.CreatedAfter))
	}
	if f.CreatedBefore != nil {
		conds = append(conds, "created_at <= "+arg(*f.CreatedBefore))
	}
	if f.PatientName != "" {
		conds = append(conds, "patient_name ILIKE "+arg("%"+f.PatientName+"%"))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM bookings"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM bookings%s ORDER BY created_at DESC LIMIT %s OFFSET %s",
		bookingCols, where, arg(limit), arg(offset))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}
