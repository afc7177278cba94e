package models

// Company is the companies table row.
type Company struct {
	CompanyID       string  `json:"companyID" db:"company_id"`
	Name            string  `json:"name" db:"name"`
	Country         string  `json:"country" db:"country"`
	DefaultCurrency string  `json:"defaultCurrency" db:"default_currency"`
	AdminID         *string `json:"adminID" db:"admin_id"`
	IsActive        bool    `json:"isActive" db:"is_active"`
	AuditFields
}
