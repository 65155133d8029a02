package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/wardnotes/internal/core/patient"
)

// fieldSetters maps the editable patient fields, by their persisted names,
// to assignment functions. Identity fields are not editable.
var fieldSetters = map[string]func(p *patient.Patient, v string){
	"name":           func(p *patient.Patient, v string) { p.RawName = v },
	"location":       func(p *patient.Patient, v string) { p.Location = v },
	"ward":           func(p *patient.Patient, v string) { p.Ward = v },
	"age":            func(p *patient.Patient, v string) { p.Age = scalarFor(v) },
	"los":            func(p *patient.Patient, v string) { p.LengthOfStay = scalarFor(v) },
	"admission_date": func(p *patient.Patient, v string) { p.AdmissionDate = v },
	"cons_name":      func(p *patient.Patient, v string) { p.ConsultantName = v },
	"dsc_date":       func(p *patient.Patient, v string) { p.DischargeDate = v },
	"diagnosis":      func(p *patient.Patient, v string) { p.Diagnosis = v },
}

// FieldNames lists the editable patient fields.
func FieldNames() []string {
	names := make([]string, 0, len(fieldSetters))
	for k := range fieldSetters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ApplyFields returns p with each key=value change applied.
func ApplyFields(p patient.Patient, changes map[string]string) (patient.Patient, error) {
	for key, value := range changes {
		set, ok := fieldSetters[strings.ToLower(key)]
		if !ok {
			return p, fmt.Errorf("unknown patient field %q (editable: %s)", key, strings.Join(FieldNames(), ", "))
		}
		set(&p, value)
	}
	return p, nil
}

// ParseAssignments splits "key=value" arguments.
func ParseAssignments(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}

func scalarFor(v string) patient.Scalar {
	if n, err := patient.Number(strings.TrimSpace(v)); err == nil {
		return n
	}
	return patient.Text(v)
}
