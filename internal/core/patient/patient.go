// Package patient contains the pure business logic for patient identity,
// list membership, and merge planning.
// This is part of the Functional Core - no I/O, only pure functions.
package patient

import "strings"

// IdentityType discriminates how a patient's id was derived.
type IdentityType string

const (
	// IdentityMRN means the id is the hospital medical record number.
	IdentityMRN IdentityType = "mrn"
	// IdentityUUID means the id was generated because no MRN was known.
	IdentityUUID IdentityType = "uuid"
)

// Patient is one entry of a patient list snapshot.
// The JSON tags define the persisted projection; anything not listed here
// never reaches disk.
type Patient struct {
	ID   string       `json:"id"`
	Type IdentityType `json:"type"`
	MRN  string       `json:"mrn,omitempty"`

	RawName    string `json:"name,omitempty"`
	Salutation string `json:"salutation,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Suffix     string `json:"suffix,omitempty"`
	FullName   string `json:"fullName,omitempty"`

	Location       string `json:"location,omitempty"`
	Ward           string `json:"ward,omitempty"`
	Age            Scalar `json:"age,omitzero"`
	LengthOfStay   Scalar `json:"los,omitzero"`
	AdmissionDate  string `json:"admission_date,omitempty"`
	ConsultantName string `json:"cons_name,omitempty"`
	DischargeDate  string `json:"dsc_date,omitempty"`
	Diagnosis      string `json:"diagnosis,omitempty"`
}

// DisplayName returns the best available name for output.
func (p Patient) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.RawName != "" {
		return p.RawName
	}
	return p.ID
}

// NotesIdentity returns the (type, id) pair whose notes directory holds this
// patient's notes.
func (p Patient) NotesIdentity() (string, string) {
	if p.Type == IdentityMRN {
		if p.MRN != "" {
			return string(IdentityMRN), p.MRN
		}
		return string(IdentityMRN), p.ID
	}
	return string(IdentityUUID), p.ID
}

// DeriveType sets Type from the presence of an MRN, the rule applied to every
// entry read from disk.
func DeriveType(p Patient) Patient {
	if p.MRN != "" {
		p.Type = IdentityMRN
	} else {
		p.Type = IdentityUUID
	}
	return p
}

// Sanitize returns the persisted projection of a patient: descriptive fields
// trimmed and parsed name fields re-derived from the raw name.
func Sanitize(p Patient) Patient {
	out := Patient{
		ID:             strings.TrimSpace(p.ID),
		Type:           p.Type,
		MRN:            strings.TrimSpace(p.MRN),
		RawName:        strings.TrimSpace(p.RawName),
		Location:       strings.TrimSpace(p.Location),
		Ward:           strings.TrimSpace(p.Ward),
		Age:            p.Age.Trimmed(),
		LengthOfStay:   p.LengthOfStay.Trimmed(),
		AdmissionDate:  strings.TrimSpace(p.AdmissionDate),
		ConsultantName: strings.TrimSpace(p.ConsultantName),
		DischargeDate:  strings.TrimSpace(p.DischargeDate),
		Diagnosis:      strings.TrimSpace(p.Diagnosis),
	}
	return WithParsedName(out)
}

// SanitizeList applies Sanitize to every entry, preserving order.
func SanitizeList(list []Patient) []Patient {
	out := make([]Patient, len(list))
	for i, p := range list {
		out[i] = Sanitize(p)
	}
	return out
}

// IndexOf returns the position of the patient with the given id, or -1.
func IndexOf(list []Patient, id string) int {
	for i, p := range list {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// FindByRawName returns the first patient whose raw name equals name.
func FindByRawName(list []Patient, name string) (Patient, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Patient{}, false
	}
	for _, p := range list {
		if p.RawName == name {
			return p, true
		}
	}
	return Patient{}, false
}

// FindByMRN returns the first MRN-identified patient with the given MRN.
func FindByMRN(list []Patient, mrn string) (Patient, bool) {
	for _, p := range list {
		if p.Type == IdentityMRN && (p.MRN == mrn || p.ID == mrn) {
			return p, true
		}
	}
	return Patient{}, false
}
