package model

// Supplier is one recommended supplier for a material.
type Supplier struct {
	Name        string  `json:"name"`
	Country     string  `json:"country,omitempty"`
	City        string  `json:"city,omitempty"`
	Rating      float64 `json:"rating"`
	Reliability float64 `json:"reliability"`
	UnitPrice   float64 `json:"unitPrice"`
	MOQ         string  `json:"moq,omitempty"`
	LeadTime    string  `json:"leadTime,omitempty"`
	Website     string  `json:"website,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// SupplierResult is the supplier recommendations stage output.
type SupplierResult struct {
	Suppliers []Supplier `json:"suppliers"`
}

// ContactInfo is a supplier's contact details. Found is false when the
// details were synthesized rather than located.
type ContactInfo struct {
	ContactEmail string `json:"contactEmail"`
	Website      string `json:"website"`
	Found        bool   `json:"found"`
}
