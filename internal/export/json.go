package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shipday/shipday/internal/store"
)

type logsExport struct {
	ExportedAt string    `json:"exported_at"`
	Count      int       `json:"count"`
	Logs       []jsonLog `json:"logs"`
}

type jsonLog struct {
	Date          string `json:"date"`
	Energy        string `json:"energy,omitempty"`
	Paralysis     bool   `json:"paralysis_signals"`
	Mission       string `json:"mission,omitempty"`
	DoneWhen      string `json:"done_definition,omitempty"`
	TargetTime    string `json:"target_time,omitempty"`
	MissionStatus string `json:"mission_status,omitempty"`
	BlockerType   string `json:"blocker_type,omitempty"`
	DecisionMade  string `json:"decision_made,omitempty"`
}

type decisionsExport struct {
	ExportedAt string         `json:"exported_at"`
	Count      int            `json:"count"`
	Decisions  []jsonDecision `json:"decisions"`
}

type jsonDecision struct {
	Date           string `json:"date"`
	Decision       string `json:"decision"`
	Minutes        *int   `json:"time_to_decide,omitempty"`
	UnderParalysis bool   `json:"made_under_paralysis"`
	Outcome        string `json:"outcome,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// LogsToJSON writes daily check-ins to an indented JSON file.
func LogsToJSON(logs []store.DailyLog, path string) error {
	out := logsExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(logs),
	}
	for _, l := range logs {
		out.Logs = append(out.Logs, jsonLog{
			Date:          l.Date.Format(dateLayout),
			Energy:        string(l.Energy),
			Paralysis:     l.ParalysisSignals,
			Mission:       l.Mission,
			DoneWhen:      l.DoneDefinition,
			TargetTime:    l.TargetTime,
			MissionStatus: string(l.MissionStatus),
			BlockerType:   string(l.BlockerType),
			DecisionMade:  l.DecisionMade,
		})
	}
	return writeJSON(out, path)
}

// DecisionsToJSON writes logged decisions to an indented JSON file.
func DecisionsToJSON(decisions []store.Decision, path string) error {
	out := decisionsExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(decisions),
	}
	for _, d := range decisions {
		out.Decisions = append(out.Decisions, jsonDecision{
			Date:           d.Date.Format(dateLayout),
			Decision:       d.Decision,
			Minutes:        d.TimeToDecide,
			UnderParalysis: d.MadeUnderParalysis,
			Outcome:        string(d.Outcome),
			Notes:          d.Notes,
		})
	}
	return writeJSON(out, path)
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
