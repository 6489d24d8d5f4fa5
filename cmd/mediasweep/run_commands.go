package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mediasweep/internal/export"
	"mediasweep/internal/importer"
	"mediasweep/internal/inventory"
	"mediasweep/internal/media/ffprobe"
	"mediasweep/internal/policy"
	"mediasweep/internal/search"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var mediaDir string
	var outputFile string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "List the media files that need transcoding",
		Long: "Walk the media directory and write every file that needs transcoding to the output file, one path per line.\n" +
			"AVI files are always listed; MP4 and MKV files are listed when ffprobe reports a stream outside the codec policy.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			defer ctx.close()

			runCtx, logger, tracker := ctx.beginRun(cmd, "search", mediaDir, outputFile)
			progress := newRunProgress(cmd.ErrOrStderr(), tracker, "scanning")
			scanner := &search.Scanner{
				Prober:   ffprobe.NewRunner(cfg.FFprobeBinary(), logger),
				Policy:   policy.FromConfig(cfg),
				Logger:   logger,
				Recorder: progress,
			}
			summary, err := search.Run(runCtx, search.Options{
				MediaDir:   mediaDir,
				OutputFile: outputFile,
				LockDir:    cfg.LockDir(),
				Scanner:    scanner,
			})
			progress.finish()
			tracker.Finish(runCtx, inventory.Totals{Files: summary.Visited, Candidates: summary.Candidates}, err)
			if err != nil {
				ctx.reportRun(runCtx, logger, "search", "", err)
				return err
			}

			message := fmt.Sprintf("%s of %s files need transcoding (%s probed) in %s; listing written to %s",
				humanize.Comma(int64(summary.Candidates)),
				humanize.Comma(int64(summary.Visited)),
				humanize.Comma(int64(summary.Probed)),
				formatDuration(summary.Duration),
				outputFile,
			)
			ctx.reportRun(runCtx, logger, "search", message, nil)
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mediaDir, "media-directory", "m", "", "Library directory to scan")
	cmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "File receiving the list of files to transcode")
	_ = cmd.MarkFlagRequired("media-directory")
	_ = cmd.MarkFlagRequired("output-file")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var inputDir string
	var targetDir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace library files with re-encoded versions",
		Long: "Match every media file at the top level of the input directory to the library file with the same base name\n" +
			"and replace it. The original is kept as <name>.bak until the copy is complete.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			defer ctx.close()

			runCtx, logger, tracker := ctx.beginRun(cmd, "import", inputDir, targetDir)
			progress := newRunProgress(cmd.ErrOrStderr(), tracker, "importing")
			summary, err := importer.Run(runCtx, importer.Options{
				InputDir:  inputDir,
				TargetDir: targetDir,
				LockDir:   cfg.LockDir(),
				Matcher:   &importer.Matcher{Logger: logger, Recorder: progress},
			})
			progress.finish()
			tracker.Finish(runCtx, inventory.Totals{Files: summary.Pending, Candidates: summary.Imported}, err)
			if err != nil {
				ctx.reportRun(runCtx, logger, "import", "", err)
				return err
			}

			message := fmt.Sprintf("Imported %s of %s files (%s) in %s",
				humanize.Comma(int64(summary.Imported)),
				humanize.Comma(int64(summary.Pending)),
				humanize.Bytes(uint64(summary.Bytes)),
				formatDuration(summary.Duration),
			)
			ctx.reportRun(runCtx, logger, "import", message, nil)
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input-directory", "i", "", "Directory holding the files to import")
	cmd.Flags().StringVarP(&targetDir, "target-directory", "t", "", "Library directory receiving the files")
	_ = cmd.MarkFlagRequired("input-directory")
	_ = cmd.MarkFlagRequired("target-directory")
	return cmd
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var listPath string
	var exportDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy the files named in a media list into a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			defer ctx.close()

			runCtx, logger, tracker := ctx.beginRun(cmd, "export", listPath, exportDir)
			progress := newRunProgress(cmd.ErrOrStderr(), tracker, "exporting")
			summary, err := export.Run(runCtx, export.Options{
				ListPath:  listPath,
				ExportDir: exportDir,
				Logger:    logger,
				Recorder:  progress,
			})
			progress.finish()
			tracker.Finish(runCtx, inventory.Totals{Files: summary.Files, Candidates: summary.Files}, err)
			if err != nil {
				ctx.reportRun(runCtx, logger, "export", "", err)
				return err
			}

			message := fmt.Sprintf("Exported %s files (%s) in %s",
				humanize.Comma(int64(summary.Files)),
				humanize.Bytes(uint64(summary.Bytes)),
				formatDuration(summary.Duration),
			)
			ctx.reportRun(runCtx, logger, "export", message, nil)
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&listPath, "medias-list", "l", "", "File listing one media path per line")
	cmd.Flags().StringVarP(&exportDir, "export-directory", "e", "", "Directory receiving the copies")
	_ = cmd.MarkFlagRequired("medias-list")
	_ = cmd.MarkFlagRequired("export-directory")
	return cmd
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
