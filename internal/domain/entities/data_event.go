package entities

import "time"

// DataChangeKind names what a DataChangeEvent touched
type DataChangeKind string

const (
	DataChangeClinics       DataChangeKind = "clinics"
	DataChangeVeterinarians DataChangeKind = "veterinarians"
	DataChangeReindex       DataChangeKind = "reindex"
)

// DataChangeEvent announces that stored clinics or veterinarians changed.
// An empty EntityIDs means the whole kind was rewritten.
type DataChangeEvent struct {
	ID        string         `json:"id"`
	Kind      DataChangeKind `json:"kind"`
	EntityIDs []string       `json:"entity_ids,omitempty"`
	Source    string         `json:"source"`
	Timestamp time.Time      `json:"timestamp"`
}
