package domain

// Company owns users, approval rules and expenses.
type Company struct {
	CompanyID       string  `json:"companyID"`
	Name            string  `json:"name"`
	Country         string  `json:"country"`
	DefaultCurrency string  `json:"defaultCurrency"` // ISO 4217, e.g. "USD"
	AdminID         *string `json:"adminID,omitempty"`
	IsActive        bool    `json:"isActive"`
	AuditFields
}
