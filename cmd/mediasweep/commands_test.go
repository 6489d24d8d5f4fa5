package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediasweep/internal/importer"
	"mediasweep/internal/inventory"
	"mediasweep/internal/services"
	"mediasweep/internal/testsupport"
)

func TestSearchCommandWritesListingAndHistory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobeStub(map[string]string{
		"movie.mkv": compliantProbe,
		"show.mp4":  mp3Probe,
	}))
	library := filepath.Join(env.baseDir, "library")
	writeFile(t, filepath.Join(library, "movie.mkv"), "m")
	writeFile(t, filepath.Join(library, "clip.avi"), "c")
	writeFile(t, filepath.Join(library, "tv", "show.mp4"), "s")
	output := filepath.Join(env.baseDir, "to-transcode.txt")

	out, _, err := runCLI(t, []string{"search", "--media-directory", library, "--output-file", output}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "2 of 3 files need transcoding")

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read listing: %v", err)
	}
	want := filepath.Join(library, "clip.avi") + "\n" + filepath.Join(library, "tv", "show.mp4") + "\n"
	if string(data) != want {
		t.Fatalf("listing = %q, want %q", data, want)
	}

	store, err := inventory.Open(env.cfg.HistoryPath())
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()
	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one recorded run, got %d (%v)", len(runs), err)
	}
	if runs[0].Command != "search" || runs[0].Status != inventory.StatusSucceeded || runs[0].Candidates != 2 {
		t.Fatalf("unexpected run %#v", runs[0])
	}
	files, err := store.RunFiles(context.Background(), runs[0].ID)
	if err != nil || len(files) != 3 {
		t.Fatalf("expected 3 recorded files, got %d (%v)", len(files), err)
	}
}

func TestSearchCommandNoHistory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobeStub(nil))
	library := filepath.Join(env.baseDir, "library")
	writeFile(t, filepath.Join(library, "clip.avi"), "c")
	output := filepath.Join(env.baseDir, "out.txt")

	if _, _, err := runCLI(t, []string{"--no-history", "search", "-m", library, "-o", output}, env.configPath); err != nil {
		t.Fatalf("search: %v", err)
	}
	if _, err := os.Stat(env.cfg.HistoryPath()); !os.IsNotExist(err) {
		t.Fatalf("history database should not be created, stat err = %v", err)
	}
}

func TestSearchCommandHistoryDisabledInConfig(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobeStub(nil), testsupport.WithHistory(false))
	library := filepath.Join(env.baseDir, "library")
	writeFile(t, filepath.Join(library, "clip.avi"), "c")
	output := filepath.Join(env.baseDir, "out.txt")

	if _, _, err := runCLI(t, []string{"search", "-m", library, "-o", output}, env.configPath); err != nil {
		t.Fatalf("search: %v", err)
	}
	if _, err := os.Stat(env.cfg.HistoryPath()); !os.IsNotExist(err) {
		t.Fatalf("history database should not be created, stat err = %v", err)
	}
}

func TestSearchCommandRequiresFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"search", "--media-directory", env.baseDir}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "output-file") {
		t.Fatalf("expected missing flag error, got %v", err)
	}
}

func TestSearchCommandValidationFailure(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobeStub(nil))
	output := filepath.Join(env.baseDir, "out.txt")
	missing := filepath.Join(env.baseDir, "missing")

	_, _, err := runCLI(t, []string{"search", "-m", missing, "-o", output}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("output must not exist after validation failure: %v", statErr)
	}
}

func TestImportCommandReportsUnmatched(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "input")
	library := filepath.Join(env.baseDir, "library")
	writeFile(t, filepath.Join(input, "movie.mkv"), "new")
	writeFile(t, filepath.Join(input, "orphan.mkv"), "lost")
	writeFile(t, filepath.Join(library, "films", "movie.mkv"), "old")

	_, _, err := runCLI(t, []string{"import", "--input-directory", input, "--target-directory", library}, env.configPath)
	var unmatched *importer.UnmatchedError
	if !errors.As(err, &unmatched) {
		t.Fatalf("expected unmatched error, got %v", err)
	}
	requireContains(t, err.Error(), filepath.Join(input, "orphan.mkv"))

	data, _ := os.ReadFile(filepath.Join(library, "films", "movie.mkv"))
	if string(data) != "new" {
		t.Fatalf("matched file not imported: %q", data)
	}

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "import")
	requireContains(t, out, "failed")
}

func TestImportCommandSuccess(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "input")
	library := filepath.Join(env.baseDir, "library")
	writeFile(t, filepath.Join(input, "movie.mkv"), "new")
	writeFile(t, filepath.Join(library, "movie.mkv"), "old")

	out, _, err := runCLI(t, []string{"import", "-i", input, "-t", library}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Imported 1 of 1 files")
}

func TestExportCommandCopiesList(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.baseDir, "library", "movie.mkv")
	writeFile(t, source, "movie")
	list := filepath.Join(env.baseDir, "list.txt")
	writeFile(t, list, source+"\n")
	exportDir := filepath.Join(env.baseDir, "export")
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	out, _, err := runCLI(t, []string{"export", "--medias-list", list, "--export-directory", exportDir}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Exported 1 files")
	if data, err := os.ReadFile(filepath.Join(exportDir, "movie.mkv")); err != nil || string(data) != "movie" {
		t.Fatalf("unexpected export %q (%v)", data, err)
	}
}

func TestInspectCommandRendersStreams(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobeStub(map[string]string{"show.mp4": mp3Probe + compliantProbe}))
	file := filepath.Join(env.baseDir, "show.mp4")
	writeFile(t, file, "s")

	out, _, err := runCLI(t, []string{"inspect", file}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "Audio")
	requireContains(t, out, "mp3")
	requireContains(t, out, "English (eng)")
	requireContains(t, out, "French (fra)")
	requireContains(t, out, "transcode")
	requireContains(t, out, `needs transcoding (audio codec "mp3" not accepted)`)
}

func TestInspectCommandCompliantFile(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobeStub(map[string]string{"movie.mkv": compliantProbe}))
	file := filepath.Join(env.baseDir, "movie.mkv")
	writeFile(t, file, "m")

	out, _, err := runCLI(t, []string{"inspect", file}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "no transcoding needed")
}

func TestInspectCommandRejectsNonMedia(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobeStub(map[string]string{"notes.txt": compliantProbe}))
	file := filepath.Join(env.baseDir, "notes.txt")
	writeFile(t, file, "n")

	out, _, err := runCLI(t, []string{"inspect", file}, env.configPath)
	if !errors.Is(err, services.ErrValidation) || !strings.Contains(err.Error(), "not a media file") {
		t.Fatalf("expected validation error, got %v", err)
	}
	if strings.Contains(out, "no transcoding needed") {
		t.Fatalf("non-media file must not be judged: %q", out)
	}
}

func TestHistoryShowCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobeStub(nil))
	library := filepath.Join(env.baseDir, "library")
	writeFile(t, filepath.Join(library, "clip.avi"), "c")
	output := filepath.Join(env.baseDir, "out.txt")
	if _, _, err := runCLI(t, []string{"search", "-m", library, "-o", output}, env.configPath); err != nil {
		t.Fatalf("search: %v", err)
	}

	store, err := inventory.Open(env.cfg.HistoryPath())
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	runs, err := store.ListRuns(context.Background(), 1)
	_ = store.Close()
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected a run, got %d (%v)", len(runs), err)
	}

	out, _, err := runCLI(t, []string{"history", "show", runs[0].ID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, runs[0].ID)
	requireContains(t, out, "succeeded")
	requireContains(t, out, filepath.Join(library, "clip.avi"))
	requireContains(t, out, "legacy container")

	if _, _, err := runCLI(t, []string{"history", "show", "00000000-0000-0000-0000-000000000000"}, env.configPath); err == nil {
		t.Fatal("expected unknown run error")
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestDoctorCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFprobeStub(nil))
	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "[OK] Ready (command: "+env.cfg.FFprobe.Binary+")")
	requireContains(t, out, "State directory")

	missing := setupCLITestEnv(t)
	missing.cfg.FFprobe.Binary = "clearly-not-present-ffprobe"
	writeTestConfig(t, missing.configPath, missing.cfg)
	out, _, err = runCLI(t, []string{"doctor"}, missing.configPath)
	if err == nil || !strings.Contains(err.Error(), "FFprobe") {
		t.Fatalf("expected missing dependency error, got %v", err)
	}
	requireContains(t, out, "Missing dependencies")
}

func TestDoctorFindsFFprobeOnPath(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())
	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "Ready")
}

func TestConfigInitShowValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "state_dir = ")
	requireContains(t, out, env.cfg.Paths.StateDir)
	requireContains(t, out, "video_codecs")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}
