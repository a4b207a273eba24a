package profile

// Profile is the backend-held user record keyed by the auth uid. JSON names
// follow the Realtime Database document shape.
type Profile struct {
	Email           string `json:"email"`
	CreatedAt       string `json:"createdAt"`
	ProfileComplete bool   `json:"profileComplete"`
	FullName        string `json:"fullName,omitempty"`
	Phone           string `json:"phone,omitempty"`
	BirthDate       string `json:"birthDate,omitempty"`
	CpfCnpj         string `json:"cpfCnpj,omitempty"`
	Address         string `json:"address,omitempty"`
	AddressNumber   string `json:"addressNumber,omitempty"`
	Complement      string `json:"complement,omitempty"`
	Province        string `json:"province,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
}

// Snapshot is one full-replace observation of the remote record. Profile is
// nil when there is no record or the stream failed; Err carries the cause for
// logging only, consumers treat both the same way.
type Snapshot struct {
	Profile *Profile
	Err     error
}
