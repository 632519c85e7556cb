package singlekey

import (
	"context"
	"io"
)

// API defines the interface for SingleKey operations
type API interface {
	// CreateScreening submits a screening with full tenant details
	CreateScreening(ctx context.Context, req ScreeningRequest) (Result, error)

	// CreateFormRequest submits a screening completed by the tenant through a form
	CreateFormRequest(ctx context.Context, req FormRequest) (Result, error)

	// GetReport fetches a report or its processing status
	GetReport(ctx context.Context, purchaseToken string) (Result, error)

	// GetApplicant fetches applicant details
	GetApplicant(ctx context.Context, purchaseToken string, opts ApplicantOptions) (Result, error)

	// ValidateScreening checks a screening's data for errors
	ValidateScreening(ctx context.Context, screeningID string) (Result, error)

	// DownloadReport returns the PDF report bytes
	DownloadReport(ctx context.Context, purchaseToken string) ([]byte, error)

	// DownloadReportTo streams the PDF report to a writer
	DownloadReportTo(ctx context.Context, purchaseToken string, w io.Writer) (int64, error)

	// WaitForReport polls until a report is complete
	WaitForReport(ctx context.Context, purchaseToken string, opts WaitOptions) (Result, error)
}
