package cmd

import (
	"github.com/spf13/cobra"

	"github.com/s0up4200/singlekey/singlekey"
)

func newScreenCmd(a *app) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Create a tenant screening",
		Long: `Create a screening from a YAML or JSON file holding the landlord, tenant
and optional property. run_now defaults to true when the file omits it.

Example input:

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
    address: 123 Main St, Toronto, ON, Canada, M5V 1A1
  property:
    address: 456 Oak Ave
    rent: 2000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := singlekey.NewScreeningRequest(singlekey.Landlord{}, singlekey.Tenant{})
			if err := loadInput(input, &req); err != nil {
				return err
			}

			a.logger.Info().
				Str("landlord", req.Landlord.Email).
				Str("tenant", req.Tenant.Email).
				Msg("Creating screening")

			result, err := a.client.CreateScreening(cmd.Context(), req)
			if err != nil {
				return err
			}

			a.logger.Info().Str("purchase_token", result.PurchaseToken()).Msg("Screening created")
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "screening request file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newFormCmd(a *app) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "form",
		Short: "Send a screening form to a tenant",
		Long: `Create a form request from a YAML or JSON file. The tenant completes the
screening through the returned form URL.

Example input:

  landlord:
    first_name: John
    last_name: Smith
    email: john@example.com
  tenant_email: jane@example.com
  tenant_form: true
  property_address: 456 Oak Ave`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req singlekey.FormRequest
			if err := loadInput(input, &req); err != nil {
				return err
			}

			a.logger.Info().Str("tenant", req.TenantEmail).Msg("Creating form request")

			result, err := a.client.CreateFormRequest(cmd.Context(), req)
			if err != nil {
				return err
			}

			if url := result.FormURL(); url != "" {
				a.logger.Info().Str("form_url", url).Msg("Form request created")
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "form request file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <screening-id>",
		Short: "Ask SingleKey to validate a screening",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.ValidateScreening(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}
