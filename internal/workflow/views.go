package workflow

import (
	"nriassist/internal/catalog"
)

// Statistics summarises a role's dashboard counters.
type Statistics struct {
	Total     int
	Pending   int
	Processed int
}

// Statistics derives the dashboard counters for role. Processed counts
// applications past the role's stage; for the role that writes the terminal
// status it counts only applications exactly at the terminal stage.
func (e *Engine) Statistics(role catalog.Role) Statistics {
	cfg := e.catalog.Config(role)

	e.mu.RLock()
	defer e.mu.RUnlock()
	stats := Statistics{Total: len(e.apps)}
	if !cfg.Actionable() {
		return stats
	}
	terminal := e.catalog.IsTerminal(cfg.NextStatus)
	own := e.catalog.Ordinal(cfg.FilterStatus)
	for _, app := range e.apps {
		switch {
		case app.Status == cfg.FilterStatus:
			stats.Pending++
		case terminal:
			if e.catalog.IsTerminal(app.Status) {
				stats.Processed++
			}
		case e.catalog.Ordinal(app.Status) > own:
			stats.Processed++
		}
	}
	return stats
}

// StepState marks where a stage sits relative to an application.
type StepState string

const (
	StepDone     StepState = "done"
	StepCurrent  StepState = "current"
	StepUpcoming StepState = "upcoming"
)

// Step is one entry of an application's progress stepper.
type Step struct {
	Ordinal int
	Label   string
	Icon    string
	Status  catalog.Status
	State   StepState
}

// Progress returns the stepper for app. The terminal stage counts as done
// once reached.
func (e *Engine) Progress(app Application) []Step {
	position := e.ProgressPosition(app)
	stages := e.catalog.Stages()
	steps := make([]Step, 0, len(stages))
	for _, stage := range stages {
		state := StepUpcoming
		switch {
		case stage.Ordinal < position:
			state = StepDone
		case stage.Ordinal == position:
			state = StepCurrent
			if e.catalog.IsTerminal(stage.Status) {
				state = StepDone
			}
		}
		steps = append(steps, Step{
			Ordinal: stage.Ordinal,
			Label:   stage.StepLabel,
			Icon:    stage.Icon,
			Status:  stage.Status,
			State:   state,
		})
	}
	return steps
}

// PartitionCompleted is the Partition key for terminal-stage applications.
const PartitionCompleted = "Completed"

// Partition groups the collection by the role that owns each application's
// current stage. Terminal applications group under PartitionCompleted and
// unknown statuses under the initial stage owner, matching ProgressPosition.
func (e *Engine) Partition() map[string][]Application {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string][]Application)
	initialOwner := string(e.catalog.Initial().Owner)
	for _, app := range e.apps {
		key := initialOwner
		switch {
		case e.catalog.IsTerminal(app.Status):
			key = PartitionCompleted
		case e.catalog.Known(app.Status):
			key = string(e.catalog.Owner(app.Status))
		}
		out[key] = append(out[key], app)
	}
	return out
}

// Counts returns the number of applications per known status.
func (e *Engine) Counts() map[catalog.Status]int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[catalog.Status]int, e.catalog.Len())
	for _, stage := range e.catalog.Stages() {
		out[stage.Status] = 0
	}
	for _, app := range e.apps {
		if e.catalog.Known(app.Status) {
			out[app.Status]++
		}
	}
	return out
}
