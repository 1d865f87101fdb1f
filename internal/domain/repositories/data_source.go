package repositories

// DataSource is the capability the services read veterinarians and clinics
// through. Implementations are selected by configuration.
type DataSource interface {
	// Name identifies the source in logs and health output
	Name() string

	Veterinarians() VeterinarianRepository
	Clinics() ClinicRepository
}
