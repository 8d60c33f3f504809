package store

import "time"

// Enum values are stored as plain text. The interactive layer is responsible
// for only handing the store well-formed values.

type Energy string

const (
	EnergyHigh   Energy = "high"
	EnergyMedium Energy = "medium"
	EnergyLow    Energy = "low"
)

type MissionStatus string

const (
	MissionShipped  MissionStatus = "shipped"
	MissionBlocked  MissionStatus = "blocked"
	MissionDeferred MissionStatus = "deferred"
)

type BlockerType string

const (
	BlockerMeDecision BlockerType = "me_decision"
	BlockerExternal   BlockerType = "external"
	BlockerOther      BlockerType = "other"
)

type ProjectStatus string

const (
	ProjectActive  ProjectStatus = "active"
	ProjectShipped ProjectStatus = "shipped"
	ProjectKilled  ProjectStatus = "killed"
)

type Outcome string

const (
	OutcomeProceeded Outcome = "proceeded"
	OutcomeBlocked   Outcome = "blocked"
	OutcomeRevisited Outcome = "revisited"
)

// DailyLog is one check-in per calendar date (unique on Date). Created at the
// morning check-in, mutated exactly once at end of day to record the mission
// outcome, never deleted.
type DailyLog struct {
	ID               int64
	Date             time.Time // civil date, midnight UTC
	Energy           Energy    // "" = not recorded
	ParalysisSignals bool
	Mission          string // "" = no mission set
	DoneDefinition   string
	TargetTime       string        // "HH:MM"
	MissionStatus    MissionStatus // "" until end-of-day completion
	BlockerType      BlockerType   // "" unless blocked
	DecisionMade     string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// Project is a unit of work under the 3-active hard cap.
type Project struct {
	ID           int64
	Name         string
	TargetDate   *time.Time
	Status       ProjectStatus
	ShippedEarly *bool // set only when shipped
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// Decision is a logged decision-protocol outcome. Immutable once written.
type Decision struct {
	ID                 int64
	Date               time.Time
	Decision           string
	TimeToDecide       *int // minutes, nil when not timed
	MadeUnderParalysis bool
	Outcome            Outcome // "" = none recorded
	Notes              string
	CreatedAt          time.Time
}
