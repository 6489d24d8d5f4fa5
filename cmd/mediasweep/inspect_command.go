package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"

	"mediasweep/internal/fileutil"
	"mediasweep/internal/language"
	"mediasweep/internal/logging"
	"mediasweep/internal/media/ffprobe"
	"mediasweep/internal/mediafile"
	"mediasweep/internal/policy"
	"mediasweep/internal/services"
)

var kindCaser = cases.Title(xlanguage.English)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the streams of a media file and how the codec policy judges them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := args[0]
			if err := fileutil.ValidateInputFile(path); err != nil {
				return err
			}
			if !mediafile.IsMedia(path) {
				return services.Wrap(services.ErrValidation, "inspect", "", fmt.Sprintf("%s is not a media file (expected .avi, .mp4 or .mkv)", path), nil)
			}

			logger := logging.NewComponentLogger(ctx.baseLogger(), "inspect")
			runner := ffprobe.NewRunner(cfg.FFprobeBinary(), logger)
			session, err := runner.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			streams, err := ffprobe.Collect(session)
			if err != nil {
				return err
			}

			pol := policy.FromConfig(cfg)
			rows, offending, err := inspectRows(pol, streams)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader(path, colorize) {
				fmt.Fprintln(out, line)
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Kind", "Codec", "Language", "Verdict"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				))
			} else {
				fmt.Fprintln(out, "No video, audio or subtitle streams reported")
			}

			switch {
			case mediafile.IsLegacyContainer(path):
				fmt.Fprintln(out, renderStatusLine("Verdict", statusWarn, "needs transcoding (legacy container)", colorize))
			case offending != nil:
				fmt.Fprintln(out, renderStatusLine("Verdict", statusWarn, "needs transcoding ("+pol.Reason(*offending)+")", colorize))
			default:
				fmt.Fprintln(out, renderStatusLine("Verdict", statusOK, "no transcoding needed", colorize))
			}
			return nil
		},
	}
}

// inspectRows judges every stream, unlike search which stops at the first
// unacceptable one, and returns the first offender.
func inspectRows(pol policy.Policy, streams []ffprobe.Stream) ([][]string, *ffprobe.Stream, error) {
	rows := make([][]string, 0, len(streams))
	var offending *ffprobe.Stream
	for i, stream := range streams {
		ok, err := pol.Acceptable(stream)
		if err != nil {
			return nil, nil, err
		}
		verdict := "ok"
		if !ok {
			verdict = "transcode"
			if offending == nil {
				s := stream
				offending = &s
			}
		}
		codec := "-"
		if stream.HasCodecName() && stream.CodecName != "" {
			codec = stream.CodecName
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			kindCaser.String(stream.Codec.String()),
			codec,
			languageLabel(stream),
			verdict,
		})
	}
	return rows, offending, nil
}

func languageLabel(stream ffprobe.Stream) string {
	if !stream.HasLanguage() {
		return "-"
	}
	return language.Label(stream.Language)
}
