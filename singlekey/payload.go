package singlekey

// payload is the wire body of a request. Optional fields are only ever added
// as keys when set, so an omitted field never reaches the service as null.
type payload map[string]any

func (p payload) setString(key, value string) {
	if value != "" {
		p[key] = value
	}
}

func (p payload) setInt(key string, value int) {
	if value != 0 {
		p[key] = value
	}
}

// landlordExternalID falls back to an id derived from the landlord's email
func landlordExternalID(l Landlord) string {
	if l.ExternalID != "" {
		return l.ExternalID
	}
	return "ll-" + l.Email
}

func tenantExternalID(externalID, email string) string {
	if externalID != "" {
		return externalID
	}
	return "tn-" + email
}

func addLandlord(p payload, l Landlord) {
	p["ll_first_name"] = l.FirstName
	p["ll_last_name"] = l.LastName
	p["ll_email"] = l.Email
	p.setString("ll_tel", l.Phone)
}

// screeningPayload shapes a ScreeningRequest into the /api/request body
func screeningPayload(req ScreeningRequest) payload {
	t := req.Tenant
	p := payload{
		"external_customer_id": landlordExternalID(req.Landlord),
		"external_tenant_id":   tenantExternalID(t.ExternalID, t.Email),
		"run_now":              req.RunNow,
		"tenant_pays":          req.TenantPays,

		"ten_first_name": t.FirstName,
		"ten_last_name":  t.LastName,
		"ten_email":      t.Email,
		"ten_tel":        t.Phone,
		"ten_dob_year":   t.DOB.Year,
		"ten_dob_month":  t.DOB.Month,
		"ten_dob_day":    t.DOB.Day,
		"ten_address":    t.Address,
		"ten_sin":        t.SIN,
	}
	addLandlord(p, req.Landlord)

	p.setString("ten_middle_name", t.MiddleName)
	p.setString("ten_employer", t.Employer)
	p.setString("ten_job_title", t.JobTitle)
	p.setInt("ten_annual_income", t.AnnualIncome)

	if prop := req.Property; prop != nil {
		p["purchase_address"] = prop.Address
		p.setInt("purchase_rent", prop.Rent)
		p.setString("purchase_unit", prop.Unit)
	}

	p.setString("callback_url", req.CallbackURL)
	p.setString("external_deal_id", req.ExternalDealID)

	return p
}

// formRequestPayload shapes a FormRequest into the /api/request body.
// The property address is only attached for direct tenant forms.
func formRequestPayload(req FormRequest) payload {
	p := payload{
		"external_customer_id": landlordExternalID(req.Landlord),
		"external_tenant_id":   tenantExternalID("", req.TenantEmail),
		"ten_email":            req.TenantEmail,
	}
	addLandlord(p, req.Landlord)

	p.setString("ten_first_name", req.TenantFirstName)
	p.setString("ten_last_name", req.TenantLastName)

	if req.TenantForm {
		p["tenant_form"] = true
		p.setString("purchase_address", req.PropertyAddress)
	}

	p.setString("callback_url", req.CallbackURL)

	return p
}
