package singlekey

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Service endpoints
const (
	pathRequest        = "/api/request"
	pathReport         = "/api/report/"
	pathApplicant      = "/api/applicant/"
	pathPurchaseErrors = "/api/purchase_errors/"
	pathReportPDF      = "/api/report_pdf/"
)

// CreateScreening submits a screening with full tenant details.
// The result carries the purchase token of the new screening.
func (c *Client) CreateScreening(ctx context.Context, req ScreeningRequest) (Result, error) {
	return c.doJSON(ctx, "create_screening", http.MethodPost, pathRequest, screeningPayload(req), nil)
}

// CreateFormRequest submits a screening the tenant completes through a form.
// The result carries the purchase token and the form URL.
func (c *Client) CreateFormRequest(ctx context.Context, req FormRequest) (Result, error) {
	return c.doJSON(ctx, "create_form_request", http.MethodPost, pathRequest, formRequestPayload(req), nil)
}

// GetReport fetches the report, or its processing status when not yet complete
func (c *Client) GetReport(ctx context.Context, purchaseToken string) (Result, error) {
	return c.doJSON(ctx, "get_report", http.MethodGet, pathReport+url.PathEscape(purchaseToken), nil, nil)
}

// ApplicantOptions selects the optional sections of GetApplicant
type ApplicantOptions struct {
	Detailed        bool
	ShowCreditScore bool
}

func (o ApplicantOptions) query() url.Values {
	params := url.Values{}
	if o.Detailed {
		params.Set("detailed", "true")
	}
	if o.ShowCreditScore {
		params.Set("show_credit_score", "true")
	}
	return params
}

// GetApplicant fetches the applicant behind a screening
func (c *Client) GetApplicant(ctx context.Context, purchaseToken string, opts ApplicantOptions) (Result, error) {
	return c.doJSON(ctx, "get_applicant", http.MethodGet, pathApplicant+url.PathEscape(purchaseToken), nil, opts.query())
}

// ValidateScreening asks the service to check a screening's data for errors
func (c *Client) ValidateScreening(ctx context.Context, screeningID string) (Result, error) {
	return c.doJSON(ctx, "validate_screening", http.MethodPost, pathPurchaseErrors+url.PathEscape(screeningID), nil, nil)
}

// DownloadReport returns the rendered PDF report exactly as served
func (c *Client) DownloadReport(ctx context.Context, purchaseToken string) ([]byte, error) {
	return c.doRaw(ctx, "download_report", http.MethodGet, pathReportPDF+url.PathEscape(purchaseToken))
}

// DownloadReportTo streams the rendered PDF report to w and returns the number
// of bytes written. Transports that cannot stream hand back the buffered body,
// which is then written in one call.
func (c *Client) DownloadReportTo(ctx context.Context, purchaseToken string, w io.Writer) (int64, error) {
	req := &Request{
		Method: http.MethodGet,
		Path:   pathReportPDF + url.PathEscape(purchaseToken),
		Stream: w,
	}

	resp, err := c.dispatch(ctx, "download_report", req, true)
	if err != nil {
		return 0, err
	}
	if resp.Streamed {
		return resp.Written, nil
	}

	n, err := w.Write(resp.Body)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write report: %w", err)
	}
	return int64(n), nil
}
