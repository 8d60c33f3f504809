package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/shipday/shipday/internal/store"
)

const dateLayout = "2006-01-02"

// LogsToCSV writes daily check-ins to a CSV file, one row per day.
func LogsToCSV(logs []store.DailyLog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"Date", "Energy", "Paralysis", "Mission", "Done When", "Target", "Status", "Blocker", "Decision Made"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, l := range logs {
		row := []string{
			l.Date.Format(dateLayout),
			string(l.Energy),
			strconv.FormatBool(l.ParalysisSignals),
			l.Mission,
			l.DoneDefinition,
			l.TargetTime,
			string(l.MissionStatus),
			string(l.BlockerType),
			l.DecisionMade,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// DecisionsToCSV writes logged decisions to a CSV file.
func DecisionsToCSV(decisions []store.Decision, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"Date", "Decision", "Minutes", "Under Paralysis", "Outcome", "Notes"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, d := range decisions {
		minutes := ""
		if d.TimeToDecide != nil {
			minutes = strconv.Itoa(*d.TimeToDecide)
		}
		row := []string{
			d.Date.Format(dateLayout),
			d.Decision,
			minutes,
			strconv.FormatBool(d.MadeUnderParalysis),
			string(d.Outcome),
			d.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
