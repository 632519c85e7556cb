package cmd

import (
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repositorySlug = "s0up4200/singlekey"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipInit: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "singlekey %s (built %s, %s/%s)\n", version, buildTime, runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "update",
		Short:       "Update singlekey to the latest release",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipInit: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := semver.ParseTolerant(version)
			if err != nil {
				return fmt.Errorf("cannot update a %s build: %w", version, err)
			}

			latest, found, err := selfupdate.DetectLatest(cmd.Context(), selfupdate.ParseSlug(repositorySlug))
			if err != nil {
				return fmt.Errorf("failed to detect latest release: %w", err)
			}
			if !found {
				return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
			}

			out := cmd.OutOrStdout()
			latestVersion, err := semver.ParseTolerant(latest.Version())
			if err != nil {
				return fmt.Errorf("invalid release version %q: %w", latest.Version(), err)
			}
			if latestVersion.LTE(current) {
				fmt.Fprintf(out, "singlekey %s is up to date\n", current)
				return nil
			}

			exe, err := selfupdate.ExecutablePath()
			if err != nil {
				return fmt.Errorf("failed to locate executable: %w", err)
			}
			if err := selfupdate.UpdateTo(cmd.Context(), latest.AssetURL, latest.AssetName, exe); err != nil {
				return fmt.Errorf("failed to update binary: %w", err)
			}

			fmt.Fprintf(out, "Updated singlekey %s -> %s\n", current, latestVersion)
			return nil
		},
	}
}
