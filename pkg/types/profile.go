package types

import (
	"strings"
	"time"
)

type ProfileIdentity struct {
	FirstName    *string `db:"first_name" json:"firstName,omitempty" form:"firstName"`
	MiddleName   *string `db:"middle_name" json:"middleName,omitempty" form:"middleName"`
	LastName     *string `db:"last_name" json:"lastName,omitempty" form:"lastName"`
	Suffix       *string `db:"suffix" json:"suffix,omitempty" form:"suffix"`
	Sex          *string `db:"sex" json:"sex,omitempty" form:"sex"`
	CivilStatus  *string `db:"civil_status" json:"civilStatus,omitempty" form:"civilStatus"`
	DOB          *string `db:"dob" json:"dob,omitempty" form:"dob"` // YYYY-MM-DD
	Age          *int    `db:"age" json:"age,omitempty" form:"age"`
	PlaceOfBirth *string `db:"place_of_birth" json:"placeOfBirth,omitempty" form:"placeOfBirth"`
	Nationality  *string `db:"nationality" json:"nationality,omitempty" form:"nationality"`
	Religion     *string `db:"religion" json:"religion,omitempty" form:"religion"`
}

type ProfileContact struct {
	PhoneNumber *string `db:"phone_number" json:"phoneNumber,omitempty" form:"phoneNumber"`
	AltPhone    *string `db:"alt_phone" json:"altPhone,omitempty" form:"altPhone"`
}

type ProfileAddress struct {
	HouseNo          *string `db:"house_no" json:"houseNo,omitempty" form:"houseNo"`
	Street           *string `db:"street" json:"street,omitempty" form:"street"`
	Zone             *string `db:"zone" json:"zone,omitempty" form:"zone"`
	CompleteAddress  *string `db:"complete_address" json:"completeAddress,omitempty" form:"completeAddress"`
	YearStarted      *int    `db:"year_started" json:"yearStarted,omitempty" form:"yearStarted"`
	YearsOfResidency *int    `db:"years_of_residency" json:"yearsOfResidency,omitempty" form:"yearsOfResidency"`
}

type ProfileEmployment struct {
	EmploymentStatus *string `db:"employment_status" json:"employmentStatus,omitempty" form:"employmentStatus"`
	Occupation       *string `db:"occupation" json:"occupation,omitempty" form:"occupation"`
	Employer         *string `db:"employer" json:"employer,omitempty" form:"employer"`
	IncomeRange      *string `db:"income_range" json:"incomeRange,omitempty" form:"incomeRange"`
	StudentType      *string `db:"student_type" json:"studentType,omitempty" form:"studentType"`
}

type ProfileHealth struct {
	MedicalConditions   *string `db:"medical_conditions" json:"medicalConditions,omitempty" form:"medicalConditions"`
	Allergies           *string `db:"allergies" json:"allergies,omitempty" form:"allergies"`
	MaintenanceMedicine *string `db:"maintenance_medicine" json:"maintenanceMedicine,omitempty" form:"maintenanceMedicine"`
	VaccinationStatus   *string `db:"vaccination_status" json:"vaccinationStatus,omitempty" form:"vaccinationStatus"`
}

type ProfileHousehold struct {
	HouseholdHead     *bool   `db:"household_head" json:"householdHead,omitempty" form:"householdHead"`
	HouseholdHeadName *string `db:"household_head_name" json:"householdHeadName,omitempty" form:"householdHeadName"`
	HouseholdRelation *string `db:"household_relation" json:"householdRelation,omitempty" form:"householdRelation"`
	HouseholdMembers  *int    `db:"household_members" json:"householdMembers,omitempty" form:"householdMembers"`
	HouseholdIncome   *string `db:"household_income" json:"householdIncome,omitempty" form:"householdIncome"`
	HouseOwnership    *string `db:"house_ownership" json:"houseOwnership,omitempty" form:"houseOwnership"`
	HousingType       *string `db:"housing_type" json:"housingType,omitempty" form:"housingType"`
}

type ProfileSocialServices struct {
	FourPs        *bool   `db:"four_ps" json:"fourPs,omitempty" form:"fourPs"`
	FourPsID      *string `db:"four_ps_id" json:"fourPsId,omitempty" form:"fourPsId"`
	Indigent      *bool   `db:"indigent" json:"indigent,omitempty" form:"indigent"`
	PWD           *bool   `db:"pwd" json:"pwd,omitempty" form:"pwd"`
	PWDID         *string `db:"pwd_id" json:"pwdId,omitempty" form:"pwdId"`
	SeniorCitizen *bool   `db:"senior_citizen" json:"seniorCitizen,omitempty" form:"seniorCitizen"`
	SeniorID      *string `db:"senior_id" json:"seniorId,omitempty" form:"seniorId"`
	SoloParent    *bool   `db:"solo_parent" json:"soloParent,omitempty" form:"soloParent"`
	SoloParentID  *string `db:"solo_parent_id" json:"soloParentId,omitempty" form:"soloParentId"`
	OFWFamily     *string `db:"ofw_family" json:"ofwFamily,omitempty" form:"ofwFamily"`
}

type ProfileDocuments struct {
	NationalID     *string `db:"national_id" json:"nationalId,omitempty" form:"nationalId"`
	VotersID       *string `db:"voters_id" json:"votersId,omitempty" form:"votersId"`
	PrecinctNumber *string `db:"precinct_number" json:"precinctNumber,omitempty" form:"precinctNumber"`
	SSS            *string `db:"sss" json:"sss,omitempty" form:"sss"`
	PhilHealth     *string `db:"philhealth" json:"philhealth,omitempty" form:"philhealth"`
	PagIBIG        *string `db:"pagibig" json:"pagibig,omitempty" form:"pagibig"`
	TIN            *string `db:"tin" json:"tin,omitempty" form:"tin"`
	Passport       *string `db:"passport" json:"passport,omitempty" form:"passport"`
	DriversLicense *string `db:"drivers_license" json:"driversLicense,omitempty" form:"driversLicense"`
}

type ProfileEmergencyContact struct {
	EmergencyName     *string `db:"emergency_name" json:"emergencyName,omitempty" form:"emergencyName"`
	EmergencyNumber   *string `db:"emergency_number" json:"emergencyNumber,omitempty" form:"emergencyNumber"`
	EmergencyRelation *string `db:"emergency_relation" json:"emergencyRelation,omitempty" form:"emergencyRelation"`
}

// Profile is a resident's demographic record. Every field except the keys
// is optional so partial updates only touch the fields that were sent.
type Profile struct {
	UserID string  `db:"user_id" json:"uid" form:"-"`
	Email  *string `db:"email" json:"email,omitempty" form:"-"`

	ProfileIdentity
	ProfileContact
	ProfileAddress
	ProfileEmployment
	ProfileHealth
	ProfileHousehold
	ProfileSocialServices
	ProfileDocuments
	ProfileEmergencyContact

	Notes     *string   `db:"notes" json:"notes,omitempty" form:"notes"`
	CreatedAt time.Time `db:"created_at" json:"createdAt" form:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt" form:"-"`
}

func (p *Profile) IsComplete() bool {
	if p == nil {
		return false
	}
	return !blank(p.FirstName) && !blank(p.LastName)
}

type ArchivedProfile struct {
	Profile
	ArchivedAt time.Time `db:"archived_at" json:"archivedAt"`
	ArchivedBy string    `db:"archived_by" json:"archivedBy"`
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
