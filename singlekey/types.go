package singlekey

import "fmt"

// Environment is the base URL of a SingleKey deployment
type Environment string

const (
	// Production is the live SingleKey platform
	Production Environment = "https://platform.singlekey.com"
	// Sandbox is the SingleKey test platform
	Sandbox Environment = "https://sandbox.singlekey.com"
)

// ParseEnvironment resolves an environment name as used in configuration files
func ParseEnvironment(name string) (Environment, error) {
	switch name {
	case "", "production":
		return Production, nil
	case "sandbox":
		return Sandbox, nil
	default:
		return "", fmt.Errorf("%w: unknown environment %q", ErrInvalidConfig, name)
	}
}

// Landlord identifies the party ordering the screening
type Landlord struct {
	FirstName  string `yaml:"first_name" json:"first_name"`
	LastName   string `yaml:"last_name" json:"last_name"`
	Email      string `yaml:"email" json:"email"`
	Phone      string `yaml:"phone,omitempty" json:"phone,omitempty"`
	ExternalID string `yaml:"external_id,omitempty" json:"external_id,omitempty"`
}

// DateOfBirth of a tenant
type DateOfBirth struct {
	Year  int `yaml:"year" json:"year"`
	Month int `yaml:"month" json:"month"`
	Day   int `yaml:"day" json:"day"`
}

// Tenant is the applicant being screened.
// SIN holds the SIN for Canadian applicants and the SSN for US applicants.
type Tenant struct {
	FirstName    string      `yaml:"first_name" json:"first_name"`
	LastName     string      `yaml:"last_name" json:"last_name"`
	Email        string      `yaml:"email" json:"email"`
	Phone        string      `yaml:"phone" json:"phone"`
	DOB          DateOfBirth `yaml:"dob" json:"dob"`
	Address      string      `yaml:"address" json:"address"`
	SIN          string      `yaml:"sin" json:"sin"`
	ExternalID   string      `yaml:"external_id,omitempty" json:"external_id,omitempty"`
	MiddleName   string      `yaml:"middle_name,omitempty" json:"middle_name,omitempty"`
	Employer     string      `yaml:"employer,omitempty" json:"employer,omitempty"`
	JobTitle     string      `yaml:"job_title,omitempty" json:"job_title,omitempty"`
	AnnualIncome int         `yaml:"annual_income,omitempty" json:"annual_income,omitempty"`
}

// Property being rented
type Property struct {
	Address string `yaml:"address" json:"address"`
	Rent    int    `yaml:"rent,omitempty" json:"rent,omitempty"`
	Unit    string `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// ScreeningRequest is the input to CreateScreening
type ScreeningRequest struct {
	Landlord       Landlord  `yaml:"landlord" json:"landlord"`
	Tenant         Tenant    `yaml:"tenant" json:"tenant"`
	Property       *Property `yaml:"property,omitempty" json:"property,omitempty"`
	RunNow         bool      `yaml:"run_now" json:"run_now"`
	TenantPays     bool      `yaml:"tenant_pays" json:"tenant_pays"`
	CallbackURL    string    `yaml:"callback_url,omitempty" json:"callback_url,omitempty"`
	ExternalDealID string    `yaml:"external_deal_id,omitempty" json:"external_deal_id,omitempty"`
}

// NewScreeningRequest returns a request that is processed immediately and
// paid for by the landlord
func NewScreeningRequest(landlord Landlord, tenant Tenant) ScreeningRequest {
	return ScreeningRequest{
		Landlord: landlord,
		Tenant:   tenant,
		RunNow:   true,
	}
}

// FormRequest is the input to CreateFormRequest. The tenant fills in their
// own details through the returned form URL.
type FormRequest struct {
	Landlord        Landlord `yaml:"landlord" json:"landlord"`
	TenantEmail     string   `yaml:"tenant_email" json:"tenant_email"`
	TenantFirstName string   `yaml:"tenant_first_name,omitempty" json:"tenant_first_name,omitempty"`
	TenantLastName  string   `yaml:"tenant_last_name,omitempty" json:"tenant_last_name,omitempty"`
	PropertyAddress string   `yaml:"property_address,omitempty" json:"property_address,omitempty"`
	TenantForm      bool     `yaml:"tenant_form" json:"tenant_form"`
	CallbackURL     string   `yaml:"callback_url,omitempty" json:"callback_url,omitempty"`
}

// Result is a decoded JSON response. The service's response shapes are not
// typed beyond the conventional keys exposed by the accessors below.
type Result map[string]any

// Success reports whether the response carries a truthy success indicator
func (r Result) Success() bool {
	return truthy(r["success"])
}

// PurchaseToken returns the token identifying a created screening
func (r Result) PurchaseToken() string {
	return r.stringValue("purchase_token")
}

// Score returns the completion score. A missing or falsy score (null, false,
// 0 or "") means the report is still processing.
func (r Result) Score() (any, bool) {
	v := r["singlekey_score"]
	if !truthy(v) {
		return nil, false
	}
	return v, true
}

// Detail returns the human-readable status message
func (r Result) Detail() string {
	return r.stringValue("detail")
}

// FormURL returns the tenant form URL of a form request
func (r Result) FormURL() string {
	return r.stringValue("form_url")
}

// ReportURL returns the URL of a completed report
func (r Result) ReportURL() string {
	return r.stringValue("report_url")
}

// IsComplete reports whether a report has finished processing
func (r Result) IsComplete() bool {
	_, hasScore := r.Score()
	return r.Success() && hasScore
}

func (r Result) stringValue(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}
