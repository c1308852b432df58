package models

// PartnerRecord is a service provider from the partner catalog.
type PartnerRecord struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Description  string   `json:"description,omitempty"`
	Specialties  []string `json:"specialties,omitempty"`
	Location     string   `json:"location,omitempty"`
	Verified     bool     `json:"verified"`
	Website      string   `json:"website,omitempty"`
	ContactEmail string   `json:"contactEmail,omitempty"`
}
