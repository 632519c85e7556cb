package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/singlekey/config"
	"github.com/s0up4200/singlekey/singlekey"
)

// fakeAPI records calls and answers with canned results
type fakeAPI struct {
	screening   singlekey.ScreeningRequest
	form        singlekey.FormRequest
	applicant   singlekey.ApplicantOptions
	waitOptions singlekey.WaitOptions
	tokens      []string

	result singlekey.Result
	pdf    []byte
	err    error
}

var _ singlekey.API = (*fakeAPI)(nil)

func (f *fakeAPI) CreateScreening(ctx context.Context, req singlekey.ScreeningRequest) (singlekey.Result, error) {
	f.screening = req
	return f.result, f.err
}

func (f *fakeAPI) CreateFormRequest(ctx context.Context, req singlekey.FormRequest) (singlekey.Result, error) {
	f.form = req
	return f.result, f.err
}

func (f *fakeAPI) GetReport(ctx context.Context, purchaseToken string) (singlekey.Result, error) {
	f.tokens = append(f.tokens, purchaseToken)
	return f.result, f.err
}

func (f *fakeAPI) GetApplicant(ctx context.Context, purchaseToken string, opts singlekey.ApplicantOptions) (singlekey.Result, error) {
	f.tokens = append(f.tokens, purchaseToken)
	f.applicant = opts
	return f.result, f.err
}

func (f *fakeAPI) ValidateScreening(ctx context.Context, screeningID string) (singlekey.Result, error) {
	f.tokens = append(f.tokens, screeningID)
	return f.result, f.err
}

func (f *fakeAPI) DownloadReport(ctx context.Context, purchaseToken string) ([]byte, error) {
	f.tokens = append(f.tokens, purchaseToken)
	return f.pdf, f.err
}

func (f *fakeAPI) DownloadReportTo(ctx context.Context, purchaseToken string, w io.Writer) (int64, error) {
	data, err := f.DownloadReport(ctx, purchaseToken)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

func (f *fakeAPI) WaitForReport(ctx context.Context, purchaseToken string, opts singlekey.WaitOptions) (singlekey.Result, error) {
	f.tokens = append(f.tokens, purchaseToken)
	f.waitOptions = opts
	if opts.OnStatus != nil {
		opts.OnStatus(singlekey.StatusUpdate{PurchaseToken: purchaseToken, Detail: "Waiting for tenant", Attempt: 1, Elapsed: 2 * time.Second})
	}
	return f.result, f.err
}

// runCLI executes the command tree against fake with an isolated environment
func runCLI(t *testing.T, fake *fakeAPI, args ...string) (string, string, error) {
	t.Helper()

	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	t.Setenv("SINGLEKEY_API_TOKEN", "test-token")
	t.Setenv("SINGLEKEY_LOGGING_LEVEL", "error")

	a := &app{
		newClient: func(cfg *config.Config, logger zerolog.Logger) (singlekey.API, error) {
			return fake, nil
		},
	}

	var stdout, stderr bytes.Buffer
	root := newRootCmd(a)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestScreenCommand(t *testing.T) {
	input := writeInput(t, "screening.yaml", `
landlord:
  first_name: John
  last_name: Smith
  email: john@example.com
tenant:
  first_name: Jane
  last_name: Doe
  email: jane@example.com
  phone: "5551234567"
  dob: {year: 1990, month: 6, day: 15}
  address: 123 Main St
property:
  address: 456 Oak Ave
  rent: 2000
tenant_pays: true
`)
	fake := &fakeAPI{result: singlekey.Result{"success": true, "purchase_token": "pt-1"}}

	stdout, _, err := runCLI(t, fake, "screen", "--input", input)
	require.NoError(t, err)

	assert.True(t, fake.screening.RunNow)
	assert.True(t, fake.screening.TenantPays)
	assert.Equal(t, "john@example.com", fake.screening.Landlord.Email)
	assert.Equal(t, 1990, fake.screening.Tenant.DOB.Year)
	require.NotNil(t, fake.screening.Property)
	assert.Equal(t, 2000, fake.screening.Property.Rent)
	assert.JSONEq(t, `{"success": true, "purchase_token": "pt-1"}`, stdout)
}

func TestScreenCommandRequiresInput(t *testing.T) {
	_, _, err := runCLI(t, &fakeAPI{}, "screen")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestFormCommandAcceptsJSON(t *testing.T) {
	input := writeInput(t, "form.json", `{
  "landlord": {"first_name": "John", "last_name": "Smith", "email": "john@example.com"},
  "tenant_email": "jane@example.com",
  "tenant_form": true,
  "property_address": "1 King St"
}`)
	fake := &fakeAPI{result: singlekey.Result{"form_url": "https://x/f"}}

	stdout, _, err := runCLI(t, fake, "form", "-i", input)
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", fake.form.TenantEmail)
	assert.True(t, fake.form.TenantForm)
	assert.Equal(t, "1 King St", fake.form.PropertyAddress)
	assert.Contains(t, stdout, "https://x/f")
}

func TestReportCommand(t *testing.T) {
	fake := &fakeAPI{result: singlekey.Result{"success": true, "singlekey_score": 712.0}}

	stdout, _, err := runCLI(t, fake, "report", "pt-1", "--expr", "singlekey_score >= 700")
	require.NoError(t, err)
	assert.Equal(t, "true\n", stdout)
	assert.Equal(t, []string{"pt-1"}, fake.tokens)

	stdout, _, err = runCLI(t, fake, "report", "pt-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "singlekey_score": 712}`, stdout)
}

func TestApplicantCommandFlags(t *testing.T) {
	fake := &fakeAPI{result: singlekey.Result{"first_name": "Jane"}}

	stdout, _, err := runCLI(t, fake, "applicant", "pt-1", "--detailed", "--show-credit-score", "-e", "first_name")
	require.NoError(t, err)
	assert.True(t, fake.applicant.Detailed)
	assert.True(t, fake.applicant.ShowCreditScore)
	assert.Equal(t, "\"Jane\"\n", stdout)
}

func TestValidateCommandArgs(t *testing.T) {
	_, _, err := runCLI(t, &fakeAPI{}, "validate")
	require.Error(t, err)

	fake := &fakeAPI{result: singlekey.Result{"success": true}}
	_, _, err = runCLI(t, fake, "validate", "scr-9")
	require.NoError(t, err)
	assert.Equal(t, []string{"scr-9"}, fake.tokens)
}

func TestWaitCommand(t *testing.T) {
	fake := &fakeAPI{result: singlekey.Result{"success": true, "singlekey_score": 650.0, "report_url": "https://x/r"}}

	stdout, stderr, err := runCLI(t, fake, "wait", "pt-1", "--interval", "2s", "--expr", "report_url")
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, fake.waitOptions.Interval)
	assert.Equal(t, singlekey.DefaultWaitTimeout, fake.waitOptions.Timeout)
	assert.Contains(t, stderr, "[2s] Waiting for tenant")
	assert.Equal(t, "\"https://x/r\"\n", stdout)
}

func TestWaitCommandUsesConfig(t *testing.T) {
	t.Setenv("SINGLEKEY_POLL_INTERVAL", "15s")
	t.Setenv("SINGLEKEY_POLL_TIMEOUT", "90s")
	fake := &fakeAPI{result: singlekey.Result{"success": true, "singlekey_score": 650.0}}

	_, _, err := runCLI(t, fake, "wait", "pt-1")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, fake.waitOptions.Interval)
	assert.Equal(t, 90*time.Second, fake.waitOptions.Timeout)
}

func TestDownloadCommand(t *testing.T) {
	pdf := []byte("%PDF-1.7\x00\xff\xfe binary")
	fake := &fakeAPI{pdf: pdf}
	output := filepath.Join(t.TempDir(), "report.pdf")

	stdout, _, err := runCLI(t, fake, "download", "pt-1", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved report to")

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, pdf, written)
}

func TestDownloadCommandRemovesFileOnError(t *testing.T) {
	fake := &fakeAPI{err: &singlekey.Error{Kind: singlekey.KindNotFound, Message: "Resource not found", StatusCode: 404}}
	output := filepath.Join(t.TempDir(), "report.pdf")

	_, _, err := runCLI(t, fake, "download", "pt-1", "-o", output)
	require.Error(t, err)
	assert.ErrorIs(t, err, singlekey.ErrNotFound)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestVersionCommandSkipsConfig(t *testing.T) {
	SetVersion("v1.2.3", "2026-01-01")
	t.Cleanup(func() { SetVersion("dev", "unknown") })

	chdir(t, t.TempDir())
	t.Setenv("SINGLEKEY_API_TOKEN", "")

	var stdout bytes.Buffer
	root := newRootCmd(&app{})
	root.SetOut(&stdout)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "singlekey v1.2.3 (built 2026-01-01")
}

func TestMissingTokenFailsInitialization(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SINGLEKEY_API_TOKEN", "")

	root := newRootCmd(&app{newClient: newSingleKeyClient})
	root.SetOut(io.Discard)
	root.SetArgs([]string{"report", "pt-1"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "validation lists each problem",
			err: &singlekey.Error{
				Kind:    singlekey.KindValidation,
				Message: "Invalid request",
				Errors:  []string{"ten_email: required", "ten_sin: invalid"},
			},
			expected: "Error (validation): Invalid request\n  - ten_email: required\n  - ten_sin: invalid\n",
		},
		{
			name:     "authentication",
			err:      &singlekey.Error{Kind: singlekey.KindAuthentication, Message: "Invalid API token"},
			expected: "Error (authentication): Invalid API token\n",
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: "Error: " + assert.AnError.Error() + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := setupLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)

	buf.Reset()
	logger = setupLogger(config.LoggingConfig{Level: "debug", Format: "console", Color: true}, &buf)
	logger.Debug().Msg("plain")
	assert.Contains(t, buf.String(), "plain")
	assert.NotContains(t, buf.String(), "\x1b[", "color is disabled when not writing to a terminal")
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
