package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Status is the canonical label of an application lifecycle stage.
type Status string

const (
	StatusAwaitingUpload   Status = "Awaiting Document Upload"
	StatusBranchReview     Status = "Pending Verification by Branch"
	StatusProcessing       Status = "Submitted for Back-End Processing"
	StatusComplianceReview Status = "Pending Compliance Review"
	StatusCompleted        Status = "Account Opened & Welcome Kit Dispatched"
)

var allStatuses = []Status{
	StatusAwaitingUpload,
	StatusBranchReview,
	StatusProcessing,
	StatusComplianceReview,
	StatusCompleted,
}

// statusAliases maps short CLI-friendly names onto canonical labels.
var statusAliases = map[string]Status{
	"customer":   StatusAwaitingUpload,
	"upload":     StatusAwaitingUpload,
	"branch":     StatusBranchReview,
	"operations": StatusProcessing,
	"processing": StatusProcessing,
	"compliance": StatusComplianceReview,
	"completed":  StatusCompleted,
	"complete":   StatusCompleted,
}

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus resolves a canonical label (case-insensitive) or a short alias
// such as "branch" or "completed".
func ParseStatus(value string) (Status, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	for _, status := range allStatuses {
		if strings.EqualFold(string(status), trimmed) {
			return status, true
		}
	}
	if status, ok := statusAliases[strings.ToLower(trimmed)]; ok {
		return status, true
	}
	return "", false
}

// AccountType identifies the NRI account product an application requests.
type AccountType string

const (
	AccountNRE  AccountType = "NRE"
	AccountNRO  AccountType = "NRO"
	AccountFCNR AccountType = "FCNR"
)

var accountDescriptions = map[AccountType]string{
	AccountNRE:  "Non-Resident External Account",
	AccountNRO:  "Non-Resident Ordinary Account",
	AccountFCNR: "Foreign Currency Account",
}

// AccountTypes lists the supported account types.
func AccountTypes() []AccountType {
	return []AccountType{AccountNRE, AccountNRO, AccountFCNR}
}

// ParseAccountType resolves an account type code case-insensitively.
func ParseAccountType(value string) (AccountType, bool) {
	candidate := AccountType(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := accountDescriptions[candidate]; ok {
		return candidate, true
	}
	return "", false
}

// Description returns the long-form product name, or "NRI Account" for
// unknown codes.
func (a AccountType) Description() string {
	if desc, ok := accountDescriptions[a]; ok {
		return desc
	}
	return "NRI Account"
}

// Stage is one entry of the status catalog.
type Stage struct {
	Ordinal   int
	Status    Status
	StepLabel string
	Icon      string
	ChipLabel string
	Owner     Role
}

// Chip is the short status badge rendered next to an application.
type Chip struct {
	Label string
	Icon  string
}

// Defaults returned by lookups that miss.
const (
	DefaultOrdinal      = 1
	DefaultStepLabel    = "Unknown"
	DefaultIcon         = "❔"
	DefaultChipLabel    = "Pending"
	DefaultEmptyMessage = "No applications found"
)

// Catalog is the immutable stage and role table consumed by the workflow
// engine. Accessors return copies.
type Catalog struct {
	stages   []Stage
	configs  []StageConfig
	roles    []RoleInfo
	byStatus map[Status]int
	byRole   map[Role]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog. The table is validated on first
// use; a broken table is a programming error and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		cat, err := New(defaultStages(), defaultConfigs(), defaultRoles())
		if err != nil {
			panic(fmt.Sprintf("catalog: invalid default table: %v", err))
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}

// New validates and freezes a catalog. Stage ordinals must start at 1 and
// increase by one; staff configs must chain consecutive ordinals from 2 up to
// the terminal stage.
func New(stages []Stage, configs []StageConfig, roles []RoleInfo) (*Catalog, error) {
	if len(stages) < 2 {
		return nil, errors.New("catalog requires at least two stages")
	}
	cat := &Catalog{
		stages:   append([]Stage(nil), stages...),
		configs:  append([]StageConfig(nil), configs...),
		roles:    append([]RoleInfo(nil), roles...),
		byStatus: make(map[Status]int, len(stages)),
		byRole:   make(map[Role]int, len(configs)),
	}
	for i, stage := range cat.stages {
		if stage.Ordinal != i+1 {
			return nil, fmt.Errorf("stage %q: ordinal %d, want %d", stage.Status, stage.Ordinal, i+1)
		}
		if strings.TrimSpace(string(stage.Status)) == "" {
			return nil, fmt.Errorf("stage %d: empty status label", stage.Ordinal)
		}
		if _, dup := cat.byStatus[stage.Status]; dup {
			return nil, fmt.Errorf("stage %q: duplicate status", stage.Status)
		}
		cat.byStatus[stage.Status] = i
	}
	if err := cat.validateChain(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) validateChain() error {
	if len(c.configs) != len(c.stages)-2 {
		return fmt.Errorf("expected %d staff stage configs, got %d", len(c.stages)-2, len(c.configs))
	}
	want := 2
	for i, cfg := range c.configs {
		if _, dup := c.byRole[cfg.Role]; dup {
			return fmt.Errorf("role %q: duplicate stage config", cfg.Role)
		}
		filter, ok := c.byStatus[cfg.FilterStatus]
		if !ok {
			return fmt.Errorf("role %q: unknown filter status %q", cfg.Role, cfg.FilterStatus)
		}
		next, ok := c.byStatus[cfg.NextStatus]
		if !ok {
			return fmt.Errorf("role %q: unknown next status %q", cfg.Role, cfg.NextStatus)
		}
		if filter+1 != want || next+1 != want+1 {
			return fmt.Errorf("role %q: transition %d→%d breaks the chain at ordinal %d", cfg.Role, filter+1, next+1, want)
		}
		c.byRole[cfg.Role] = i
		want++
	}
	return nil
}

// Stages returns the ordered stage table.
func (c *Catalog) Stages() []Stage {
	out := make([]Stage, len(c.stages))
	copy(out, c.stages)
	return out
}

// Len reports the number of stages.
func (c *Catalog) Len() int {
	return len(c.stages)
}

// Stage returns the catalog entry for status.
func (c *Catalog) Stage(status Status) (Stage, bool) {
	idx, ok := c.byStatus[status]
	if !ok {
		return Stage{}, false
	}
	return c.stages[idx], true
}

// Initial returns the first stage.
func (c *Catalog) Initial() Stage {
	return c.stages[0]
}

// Terminal returns the last stage.
func (c *Catalog) Terminal() Stage {
	return c.stages[len(c.stages)-1]
}

// IsTerminal reports whether status is the final stage.
func (c *Catalog) IsTerminal(status Status) bool {
	return status == c.Terminal().Status
}

// Known reports whether status is part of the catalog.
func (c *Catalog) Known(status Status) bool {
	_, ok := c.byStatus[status]
	return ok
}

// Ordinal returns the 1-based position of status, or DefaultOrdinal.
func (c *Catalog) Ordinal(status Status) int {
	if stage, ok := c.Stage(status); ok {
		return stage.Ordinal
	}
	return DefaultOrdinal
}

// StepLabel returns the progress-stepper label for status.
func (c *Catalog) StepLabel(status Status) string {
	if stage, ok := c.Stage(status); ok {
		return stage.StepLabel
	}
	return DefaultStepLabel
}

// Icon returns the display icon for status.
func (c *Catalog) Icon(status Status) string {
	if stage, ok := c.Stage(status); ok {
		return stage.Icon
	}
	return DefaultIcon
}

// Chip returns the short badge for status.
func (c *Catalog) Chip(status Status) Chip {
	if stage, ok := c.Stage(status); ok {
		return Chip{Label: stage.ChipLabel, Icon: stage.Icon}
	}
	return Chip{Label: DefaultChipLabel, Icon: DefaultIcon}
}

// Owner returns the role that consumes work in status, or "" when the stage
// is terminal or unknown.
func (c *Catalog) Owner(status Status) Role {
	if stage, ok := c.Stage(status); ok {
		return stage.Owner
	}
	return ""
}

// Next returns the status following status, if any.
func (c *Catalog) Next(status Status) (Status, bool) {
	idx, ok := c.byStatus[status]
	if !ok || idx+1 >= len(c.stages) {
		return "", false
	}
	return c.stages[idx+1].Status, true
}
