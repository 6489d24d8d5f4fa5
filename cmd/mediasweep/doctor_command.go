package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mediasweep/internal/deps"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and state directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := deps.CheckBinaries(deps.Requirements(cfg.FFprobeBinary()))
			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, line := range dependencyLines(statuses, colorize) {
				fmt.Fprintln(out, line)
			}

			for _, line := range renderSectionHeader("State", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, directoryLine("State directory", cfg.Paths.StateDir, colorize))
			fmt.Fprintln(out, directoryLine("Locks", cfg.LockDir(), colorize))
			fmt.Fprintln(out, directoryLine("Logs", cfg.LogDir(), colorize))
			if cfg.Inventory.Enabled {
				fmt.Fprintln(out, renderStatusLine("History", statusInfo, cfg.HistoryPath(), colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("History", statusWarn, "disabled ([inventory] enabled = false)", colorize))
			}

			if missing := deps.Missing(statuses); len(missing) > 0 {
				names := make([]string, 0, len(missing))
				for _, status := range missing {
					names = append(names, status.Name)
				}
				return fmt.Errorf("missing required dependencies: %s", strings.Join(names, ", "))
			}
			return nil
		},
	}
}

func directoryLine(label, path string, colorize bool) string {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return renderStatusLine(label, statusError, fmt.Sprintf("%s (%v)", path, err), colorize)
	case !info.IsDir():
		return renderStatusLine(label, statusError, path+" is not a directory", colorize)
	default:
		return renderStatusLine(label, statusOK, path, colorize)
	}
}
