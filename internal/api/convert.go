package api

import (
	"time"

	"nriassist/internal/appstore"
	"nriassist/internal/assistant"
	"nriassist/internal/catalog"
	"nriassist/internal/preflight"
	"nriassist/internal/search"
	"nriassist/internal/textutil"
	"nriassist/internal/workflow"
)

// FromApplication converts an application using cat for derived fields.
func FromApplication(cat *catalog.Catalog, app workflow.Application) Application {
	if cat == nil {
		cat = catalog.Default()
	}
	chip := cat.Chip(app.Status)
	return Application{
		ID:                 app.ID,
		AccountType:        string(app.AccountType),
		AccountDescription: app.AccountType.Description(),
		Status:             string(app.Status),
		ApplicantName:      app.ApplicantName,
		Branch:             app.Branch,
		SubmittedDate:      app.SubmittedDate,
		Progress:           cat.Ordinal(app.Status),
		Chip:               StatusChip{Label: chip.Label, Icon: chip.Icon},
		Owner:              string(cat.Owner(app.Status)),
	}
}

// FromApplications converts a slice of applications. The result is never nil.
func FromApplications(cat *catalog.Catalog, apps []workflow.Application) []Application {
	out := make([]Application, 0, len(apps))
	for _, app := range apps {
		out = append(out, FromApplication(cat, app))
	}
	return out
}

// FromSteps converts a progress stepper.
func FromSteps(steps []workflow.Step) []Step {
	out := make([]Step, 0, len(steps))
	for _, step := range steps {
		out = append(out, Step{
			Ordinal: step.Ordinal,
			Label:   step.Label,
			Icon:    step.Icon,
			Status:  string(step.Status),
			State:   string(step.State),
		})
	}
	return out
}

// FromTransitionRecords converts the persisted transition log.
func FromTransitionRecords(records []appstore.TransitionRecord) []TransitionEntry {
	if len(records) == 0 {
		return nil
	}
	out := make([]TransitionEntry, 0, len(records))
	for _, rec := range records {
		out = append(out, TransitionEntry{
			Role:       string(rec.Role),
			From:       string(rec.From),
			To:         string(rec.To),
			OccurredAt: formatTime(rec.OccurredAt),
		})
	}
	return out
}

// FromStages converts the catalog's stage table.
func FromStages(stages []catalog.Stage) []Stage {
	out := make([]Stage, 0, len(stages))
	for _, stage := range stages {
		out = append(out, Stage{
			Ordinal:   stage.Ordinal,
			Status:    string(stage.Status),
			StepLabel: stage.StepLabel,
			Icon:      stage.Icon,
			ChipLabel: stage.ChipLabel,
			Owner:     string(stage.Owner),
		})
	}
	return out
}

// FromRoles converts the role selector entries.
func FromRoles(roles []catalog.RoleInfo) []Role {
	out := make([]Role, 0, len(roles))
	for _, role := range roles {
		out = append(out, Role{
			Name:        string(role.Role),
			Description: role.Description,
			Icon:        role.Icon,
			Staff:       role.Staff,
		})
	}
	return out
}

// FromStageConfig converts a role's dashboard config.
func FromStageConfig(role catalog.Role, cfg catalog.StageConfig) Dashboard {
	return Dashboard{
		Role:         string(role),
		Title:        cfg.Title,
		Description:  cfg.Description,
		Icon:         cfg.Icon,
		FilterStatus: string(cfg.FilterStatus),
		NextStatus:   string(cfg.NextStatus),
		ActionLabel:  cfg.ActionLabel,
		EmptyMessage: cfg.EmptyMessage,
	}
}

// FromStatistics converts dashboard counters.
func FromStatistics(role catalog.Role, stats workflow.Statistics) Statistics {
	return Statistics{
		Role:      string(role),
		Total:     stats.Total,
		Pending:   stats.Pending,
		Processed: stats.Processed,
	}
}

// FromCounts keys per-status counts by status label.
func FromCounts(counts map[catalog.Status]int) map[string]int {
	out := make(map[string]int, len(counts))
	for status, n := range counts {
		out[string(status)] = n
	}
	return out
}

// FromTurns converts transcript turns.
func FromTurns(turns []assistant.Turn) []Turn {
	out := make([]Turn, 0, len(turns))
	for _, turn := range turns {
		out = append(out, Turn{
			Speaker: string(turn.Speaker),
			Text:    turn.Text,
			Options: append([]string(nil), turn.Options...),
			At:      formatTime(turn.At),
		})
	}
	return out
}

// FromSnapshot converts an assistant session snapshot.
func FromSnapshot(snap assistant.Snapshot) Session {
	uploads := append([]string{}, snap.Uploads...)
	return Session{
		ID:         snap.ID,
		Mode:       string(snap.Mode),
		Busy:       snap.Busy,
		Transcript: FromTurns(snap.Transcript),
		Uploads:    uploads,
		CreatedAt:  formatTime(snap.CreatedAt),
		UpdatedAt:  formatTime(snap.UpdatedAt),
	}
}

// FromSearchResults converts ranked search results; labels are truncated to
// labelRunes.
func FromSearchResults(results []search.Result, labelRunes int) []SearchResult {
	out := make([]SearchResult, 0, len(results))
	for _, result := range results {
		out = append(out, SearchResult{
			Label:   textutil.DisplayLabel(result.Document.Text, labelRunes),
			Text:    result.Document.Text,
			Source:  string(result.Document.Source),
			Key:     result.Document.Key,
			Score:   result.Score,
			Options: append([]string(nil), result.Document.Options...),
		})
	}
	return out
}

// FromPreflight converts preflight results.
func FromPreflight(results []preflight.Result) []CheckResult {
	out := make([]CheckResult, 0, len(results))
	for _, r := range results {
		out = append(out, CheckResult{Name: r.Name, Passed: r.Passed, Detail: r.Detail})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

// ParseTime parses an API timestamp; invalid input yields the zero time.
func ParseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	return time.Time{}
}
