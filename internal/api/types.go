package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Application describes an application in a transport-friendly format.
type Application struct {
	ID                 string     `json:"id"`
	AccountType        string     `json:"accountType"`
	AccountDescription string     `json:"accountDescription"`
	Status             string     `json:"status"`
	ApplicantName      string     `json:"applicantName"`
	Branch             string     `json:"branch"`
	SubmittedDate      string     `json:"submittedDate,omitempty"`
	Progress           int        `json:"progress"`
	Chip               StatusChip `json:"chip"`
	Owner              string     `json:"owner"`
}

// StatusChip is the short badge shown next to an application.
type StatusChip struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Step is one entry of an application's progress stepper.
type Step struct {
	Ordinal int    `json:"ordinal"`
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Status  string `json:"status"`
	State   string `json:"state"`
}

// TransitionEntry is one persisted status change.
type TransitionEntry struct {
	Role       string `json:"role"`
	From       string `json:"from"`
	To         string `json:"to"`
	OccurredAt string `json:"occurredAt,omitempty"`
}

// Stage is one entry of the status catalog.
type Stage struct {
	Ordinal   int    `json:"ordinal"`
	Status    string `json:"status"`
	StepLabel string `json:"stepLabel"`
	Icon      string `json:"icon"`
	ChipLabel string `json:"chipLabel"`
	Owner     string `json:"owner"`
}

// Role is a role selector entry.
type Role struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Staff       bool   `json:"staff"`
}

// Dashboard describes what a staff role reads and writes.
type Dashboard struct {
	Role         string `json:"role"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	FilterStatus string `json:"filterStatus"`
	NextStatus   string `json:"nextStatus"`
	ActionLabel  string `json:"actionLabel"`
	EmptyMessage string `json:"emptyMessage"`
}

// Statistics holds a role's dashboard counters.
type Statistics struct {
	Role      string `json:"role"`
	Total     int    `json:"total"`
	Pending   int    `json:"pending"`
	Processed int    `json:"processed"`
}

// ApplicationListResponse wraps a collection of applications.
type ApplicationListResponse struct {
	Applications []Application `json:"applications"`
}

// ApplicationResponse wraps a single application with its stepper.
type ApplicationResponse struct {
	Application Application       `json:"application"`
	Steps       []Step            `json:"steps"`
	History     []TransitionEntry `json:"history,omitempty"`
}

// InboxResponse is a role's actionable applications.
type InboxResponse struct {
	Dashboard    Dashboard     `json:"dashboard"`
	Applications []Application `json:"applications"`
	Empty        bool          `json:"empty"`
}

// CatalogResponse lists the lifecycle stages in order.
type CatalogResponse struct {
	Stages []Stage `json:"stages"`
}

// RolesResponse lists the selectable roles.
type RolesResponse struct {
	Roles []Role `json:"roles"`
}

// TransitionRequest asks for role to advance an application.
type TransitionRequest struct {
	Role string `json:"role"`
}

// TransitionResponse reports an applied transition.
type TransitionResponse struct {
	Application Application `json:"application"`
	From        string      `json:"from"`
	To          string      `json:"to"`
}

// CheckResult is a preflight check outcome.
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running       bool           `json:"running"`
	PID           int            `json:"pid"`
	LockFilePath  string         `json:"lockFilePath"`
	SocketPath    string         `json:"socketPath"`
	APIBind       string         `json:"apiBind"`
	StoreEnabled  bool           `json:"storeEnabled"`
	StorePath     string         `json:"storePath,omitempty"`
	EventsEnabled bool           `json:"eventsEnabled"`
	Applications  int            `json:"applications"`
	StatusCounts  map[string]int `json:"statusCounts"`
	Sessions      int            `json:"sessions"`
	Checks        []CheckResult  `json:"checks"`
}

// Turn is one assistant transcript entry.
type Turn struct {
	Speaker string   `json:"speaker"`
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
	At      string   `json:"at,omitempty"`
}

// Session is an assistant session snapshot.
type Session struct {
	ID         string   `json:"id"`
	Mode       string   `json:"mode"`
	Busy       bool     `json:"busy"`
	Transcript []Turn   `json:"transcript"`
	Uploads    []string `json:"uploads"`
	CreatedAt  string   `json:"createdAt,omitempty"`
	UpdatedAt  string   `json:"updatedAt,omitempty"`
}

// SessionResponse wraps a session snapshot.
type SessionResponse struct {
	Session Session `json:"session"`
}

// SessionListResponse wraps all live sessions.
type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
}

// TurnsResponse reports the turns an action appended.
type TurnsResponse struct {
	Turns   []Turn  `json:"turns"`
	Session Session `json:"session"`
}

// MessageRequest carries a user utterance.
type MessageRequest struct {
	Text string `json:"text"`
}

// ModeRequest switches a session's mode.
type ModeRequest struct {
	Mode string `json:"mode"`
}

// SearchResult is one ranked search hit.
type SearchResult struct {
	Label   string   `json:"label"`
	Text    string   `json:"text"`
	Source  string   `json:"source"`
	Key     string   `json:"key,omitempty"`
	Score   float64  `json:"score"`
	Options []string `json:"options,omitempty"`
}

// SearchResponse wraps ranked results.
type SearchResponse struct {
	Query     string         `json:"query"`
	Threshold float64        `json:"threshold"`
	Scorer    string         `json:"scorer"`
	Results   []SearchResult `json:"results"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
