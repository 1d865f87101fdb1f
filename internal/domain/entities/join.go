package entities

// MissingClinicReason explains why a veterinarian could not be joined to a usable clinic
type MissingClinicReason string

const (
	MissingClinicNotFound      MissingClinicReason = "clinic_not_found"
	MissingClinicNoCoordinates MissingClinicReason = "clinic_without_coordinates"
	MissingClinicLookupFailed  MissingClinicReason = "clinic_lookup_failed"
)

// JoinedVeterinarian pairs a veterinarian with its clinic
type JoinedVeterinarian struct {
	Veterinarian *Veterinarian
	Clinic       *Clinic
}

// MissingClinic describes a veterinarian whose clinic join produced a gap
type MissingClinic struct {
	Veterinarian *Veterinarian
	ClinicID     string
	Reason       MissingClinicReason
	Err          error
}

// JoinResult holds exactly one of a joined pair or a gap. Callers decide
// whether a gap is surfaced or suppressed.
type JoinResult struct {
	joined  *JoinedVeterinarian
	missing *MissingClinic
}

// Joined builds a successful join result
func Joined(vet *Veterinarian, clinic *Clinic) JoinResult {
	return JoinResult{joined: &JoinedVeterinarian{Veterinarian: vet, Clinic: clinic}}
}

// Missing builds a gap join result
func Missing(vet *Veterinarian, reason MissingClinicReason, err error) JoinResult {
	return JoinResult{missing: &MissingClinic{Veterinarian: vet, ClinicID: vet.ClinicID, Reason: reason, Err: err}}
}

// Joined returns the pair and true when the join succeeded
func (r JoinResult) Joined() (JoinedVeterinarian, bool) {
	if r.joined == nil {
		return JoinedVeterinarian{}, false
	}
	return *r.joined, true
}

// Missing returns the gap and true when the join failed
func (r JoinResult) Missing() (MissingClinic, bool) {
	if r.missing == nil {
		return MissingClinic{}, false
	}
	return *r.missing, true
}

// PartitionJoins splits join results into joined pairs and gaps, preserving order
func PartitionJoins(results []JoinResult) ([]JoinedVeterinarian, []MissingClinic) {
	joined := make([]JoinedVeterinarian, 0, len(results))
	var gaps []MissingClinic
	for _, r := range results {
		if j, ok := r.Joined(); ok {
			joined = append(joined, j)
			continue
		}
		if m, ok := r.Missing(); ok {
			gaps = append(gaps, m)
		}
	}
	return joined, gaps
}
