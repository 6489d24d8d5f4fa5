package inventory

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const runColumns = "id, command, root, output, status, started_at, finished_at, files, candidates, detail"

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		output      sql.NullString
		status      string
		startedRaw  string
		finishedRaw sql.NullString
		detail      sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Command,
		&run.Root,
		&output,
		&status,
		&startedRaw,
		&finishedRaw,
		&run.Files,
		&run.Candidates,
		&detail,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Output = output.String
	run.Status = Status(status)
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	run.Detail = detail.String
	return run, nil
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func stripLikeWildcards(value string) string {
	replacer := strings.NewReplacer("%", "", "_", "")
	return replacer.Replace(value)
}
