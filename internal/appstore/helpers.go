package appstore

import (
	"database/sql"
	"time"

	"nriassist/internal/catalog"
	"nriassist/internal/workflow"
)

func scanApplication(scanner interface{ Scan(dest ...any) error }) (workflow.Application, error) {
	var (
		app           workflow.Application
		accountType   string
		status        string
		submittedDate sql.NullString
	)
	if err := scanner.Scan(
		&app.ID,
		&accountType,
		&status,
		&app.ApplicantName,
		&app.Branch,
		&submittedDate,
	); err != nil {
		return workflow.Application{}, err
	}
	app.AccountType = catalog.AccountType(accountType)
	app.Status = catalog.Status(status)
	if submittedDate.Valid {
		app.SubmittedDate = submittedDate.String
	}
	return app, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
