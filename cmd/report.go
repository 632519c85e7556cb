package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/singlekey/singlekey"
)

func newReportCmd(a *app) *cobra.Command {
	var expression string

	cmd := &cobra.Command{
		Use:   "report <purchase-token>",
		Short: "Fetch a screening report or its processing status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.GetReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result, expression)
		},
	}

	cmd.Flags().StringVarP(&expression, "expr", "e", "", "print the value of an expression instead of the report (e.g. 'singlekey_score >= 700')")

	return cmd
}

func newApplicantCmd(a *app) *cobra.Command {
	var (
		expression string
		opts       singlekey.ApplicantOptions
	)

	cmd := &cobra.Command{
		Use:   "applicant <purchase-token>",
		Short: "Fetch applicant details for a screening",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.GetApplicant(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result, expression)
		},
	}

	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include the detailed applicant record")
	cmd.Flags().BoolVar(&opts.ShowCreditScore, "show-credit-score", false, "include the credit score")
	cmd.Flags().StringVarP(&expression, "expr", "e", "", "print the value of an expression instead of the applicant")

	return cmd
}

func newWaitCmd(a *app) *cobra.Command {
	var (
		expression string
		timeout    time.Duration
		interval   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wait <purchase-token>",
		Short: "Wait for a screening report to complete",
		Long: `Poll a report until it carries a score, printing the service's status
message between polls. Interrupting the command abandons the wait.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			opts := a.cfg.WaitOptions()
			if cmd.Flags().Changed("timeout") {
				opts.Timeout = timeout
			}
			if cmd.Flags().Changed("interval") {
				opts.Interval = interval
			}

			status := cmd.ErrOrStderr()
			opts.OnStatus = func(u singlekey.StatusUpdate) {
				fmt.Fprintf(status, "[%s] %s\n", u.Elapsed.Round(time.Second), u.Detail)
			}

			a.logger.Info().
				Str("purchase_token", args[0]).
				Dur("timeout", opts.Timeout).
				Dur("interval", opts.Interval).
				Msg("Waiting for report")

			report, err := a.client.WaitForReport(ctx, args[0], opts)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), report, expression)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", singlekey.DefaultWaitTimeout, "maximum time to wait (overrides poll.timeout)")
	cmd.Flags().DurationVar(&interval, "interval", singlekey.DefaultPollInterval, "time between polls (overrides poll.interval)")
	cmd.Flags().StringVarP(&expression, "expr", "e", "", "print the value of an expression instead of the report")

	return cmd
}

func newDownloadCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <purchase-token>",
		Short: "Download a completed report as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = args[0] + ".pdf"
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}

			n, err := a.client.DownloadReportTo(cmd.Context(), args[0], f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(output)
				return err
			}

			a.logger.Info().Str("file", output).Int64("bytes", n).Msg("Report downloaded")
			fmt.Fprintf(cmd.OutOrStdout(), "Saved report to %s (%d bytes)\n", output, n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <purchase-token>.pdf)")

	return cmd
}
