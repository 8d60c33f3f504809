package main

import (
	"bytes"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shipday/shipday/internal/breaker"
	"github.com/shipday/shipday/internal/store"
)

// execCmd runs the root command against a throwaway database and returns
// the combined output.
func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SHIPDAY_DB_PATH", filepath.Join(t.TempDir(), "shipday.db"))
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand_Version(t *testing.T) {
	version = "1.2.3"

	out, err := execCmd(t, "--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "1.2.3") {
		t.Errorf("--version output should contain version: %q", out)
	}
	if !strings.Contains(out, "shipday") {
		t.Errorf("--version output should contain 'shipday': %q", out)
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execCmd(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, expected := range []string{"shipday", "Usage:", "checkin", "complete", "project", "emergency"} {
		if !strings.Contains(out, expected) {
			t.Errorf("--help output should contain %q", expected)
		}
	}
}

func TestBuildVersion(t *testing.T) {
	version, commit, date = "dev", "none", "unknown"
	if buildVersion() != "dev" {
		t.Errorf("bare version expected, got %q", buildVersion())
	}

	version, commit, date = "1.0.0", "abcdef1234567890", "2025-06-01"
	got := buildVersion()
	if !strings.Contains(got, "1.0.0") || !strings.Contains(got, "abcdef1") {
		t.Errorf("unexpected version string: %q", got)
	}
	if strings.Contains(got, "abcdef12") {
		t.Errorf("commit should be truncated to 7 chars: %q", got)
	}
}

// ============================================================
// complete
// ============================================================

func TestComplete_NoCheckin(t *testing.T) {
	_, err := execCmd(t, "complete", "--status", "shipped")
	if err == nil {
		t.Fatal("complete without a check-in should fail")
	}
	if !strings.Contains(err.Error(), "no check-in") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestComplete_InvalidStatus(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shipday.db")
	t.Setenv("SHIPDAY_DB_PATH", dbPath)
	t.Setenv("HOME", t.TempDir())
	seedCheckin(t, dbPath)

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"complete", "--status", "finished"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("invalid status should fail")
	}
}

func TestComplete_Shipped(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shipday.db")
	t.Setenv("SHIPDAY_DB_PATH", dbPath)
	t.Setenv("HOME", t.TempDir())
	seedCheckin(t, dbPath)

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"complete", "--status", "shipped"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "SHIPPED") {
		t.Fatalf("expected celebration, got %q", buf.String())
	}

	s := openSeeded(t, dbPath)
	log, err := s.LogByDate(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if log == nil || log.MissionStatus != store.MissionShipped {
		t.Fatalf("status not persisted: %+v", log)
	}
}

func seedCheckin(t *testing.T, dbPath string) {
	t.Helper()
	s := openSeeded(t, dbPath)
	if _, err := s.CreateLog(store.DailyLog{
		Date:    time.Now(),
		Energy:  store.EnergyHigh,
		Mission: "Ship the thing",
	}); err != nil {
		t.Fatal(err)
	}
}

func openSeeded(t *testing.T, dbPath string) *store.Store {
	t.Helper()
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// project
// ============================================================

func TestProjectAddAndList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shipday.db")
	t.Setenv("SHIPDAY_DB_PATH", dbPath)
	t.Setenv("HOME", t.TempDir())

	run := func(args ...string) (string, error) {
		cmd := newRootCmd()
		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return buf.String(), err
	}

	out, err := run("project", "add", "Launch", "--target", "2030-01-15")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Launch") {
		t.Fatalf("add output missing name: %q", out)
	}

	out, err = run("project", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Launch") {
		t.Fatalf("list output missing project: %q", out)
	}
}

func TestProjectAdd_HardCap(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shipday.db")
	t.Setenv("SHIPDAY_DB_PATH", dbPath)
	t.Setenv("HOME", t.TempDir())

	run := func(args ...string) error {
		cmd := newRootCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	for _, name := range []string{"A", "B", "C"} {
		if err := run("project", "add", name); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	err := run("project", "add", "D")
	if err == nil {
		t.Fatal("fourth project should be refused")
	}
	if !strings.Contains(err.Error(), "3 active projects") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProjectAdd_InvalidTarget(t *testing.T) {
	_, err := execCmd(t, "project", "add", "X", "--target", "soonish")
	if err == nil {
		t.Fatal("invalid target date should fail")
	}
}

func TestProjectShipAndKill(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shipday.db")
	t.Setenv("SHIPDAY_DB_PATH", dbPath)
	t.Setenv("HOME", t.TempDir())

	run := func(args ...string) (string, error) {
		cmd := newRootCmd()
		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return buf.String(), err
	}

	if _, err := run("project", "add", "One"); err != nil {
		t.Fatal(err)
	}
	if _, err := run("project", "add", "Two"); err != nil {
		t.Fatal(err)
	}

	s := openSeeded(t, dbPath)
	projects, err := s.ProjectsByStatus(store.ProjectActive)
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 active, got %d", len(projects))
	}

	out, err := run("project", "ship", strconv.FormatInt(projects[0].ID, 10))
	if err != nil {
		t.Fatalf("ship: %v", err)
	}
	if !strings.Contains(out, "SHIPPED") {
		t.Fatalf("ship output: %q", out)
	}

	if _, err := run("project", "kill", strconv.FormatInt(projects[1].ID, 10), "--yes"); err != nil {
		t.Fatalf("kill: %v", err)
	}

	remaining, err := s.CountProjectsByStatus(store.ProjectActive)
	if err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Fatalf("expected 0 active after ship+kill, got %d", remaining)
	}
}

func TestProjectInvalidID(t *testing.T) {
	_, err := execCmd(t, "project", "ship", "banana")
	if err == nil {
		t.Fatal("non-numeric id should fail")
	}
}

// ============================================================
// status
// ============================================================

func TestStatusCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shipday.db")
	t.Setenv("SHIPDAY_DB_PATH", dbPath)
	t.Setenv("HOME", t.TempDir())

	date := time.Now()
	s := openSeeded(t, dbPath)
	if _, err := s.CreateLog(store.DailyLog{Date: date, Mission: "m"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CompleteLog(date, store.MissionShipped, "", ""); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"status"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "This week") {
		t.Fatalf("status output missing week panel: %q", out)
	}
	if !strings.Contains(out, "Shipped 1 of 1") {
		t.Fatalf("status output missing shipped count: %q", out)
	}
	if !strings.Contains(out, "Active projects") {
		t.Fatalf("status output missing project panel: %q", out)
	}
}

// ============================================================
// emergency / export
// ============================================================

func TestEmergencyCheck_Clear(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shipday.db")
	t.Setenv("SHIPDAY_DB_PATH", dbPath)
	t.Setenv("HOME", t.TempDir())

	// A shipped mission this week and last keeps completion above the
	// two-week floor, so no trigger conditions apply.
	s := openSeeded(t, dbPath)
	for _, offset := range []int{-7, 0} {
		date := time.Now().AddDate(0, 0, offset)
		if _, err := s.CreateLog(store.DailyLog{Date: date, Mission: "m"}); err != nil {
			t.Fatal(err)
		}
		if _, err := s.CompleteLog(date, store.MissionShipped, "", ""); err != nil {
			t.Fatal(err)
		}
	}

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"emergency", "check"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Clear") {
		t.Fatalf("expected clear report, got %q", buf.String())
	}
}

func TestRecoveryChecklist(t *testing.T) {
	state := breaker.State{
		PrimaryProject:  "Launch",
		ExternalContact: "Sam",
		ActivatedAt:     time.Now(),
	}
	got := recoveryChecklist(state)
	if !strings.Contains(got, "Has Sam validated your recovery?") {
		t.Fatalf("checklist missing external validation line: %q", got)
	}
	if !strings.Contains(got, "shipped 3+ things in 2 weeks") {
		t.Fatalf("checklist missing shipping bullet: %q", got)
	}
	if !strings.Contains(got, "5+ decisions without paralysis") {
		t.Fatalf("checklist missing decisions bullet: %q", got)
	}
}

func TestEmergencyStatus_Inactive(t *testing.T) {
	out, err := execCmd(t, "emergency", "status")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Inactive") {
		t.Fatalf("expected inactive, got %q", out)
	}
}

func TestExportLogsJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shipday.db")
	t.Setenv("SHIPDAY_DB_PATH", dbPath)
	t.Setenv("HOME", t.TempDir())
	seedCheckin(t, dbPath)

	outPath := filepath.Join(t.TempDir(), "logs.json")
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"export", "logs", "--format", "json", "-o", outPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "1 check-ins") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestExportInvalidFormat(t *testing.T) {
	_, err := execCmd(t, "export", "logs", "--format", "xml")
	if err == nil {
		t.Fatal("invalid format should fail")
	}
}

// ============================================================
// helpers
// ============================================================

func TestExportRange(t *testing.T) {
	from, to := exportRange(0)
	if !from.Before(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("days=0 should cover everything")
	}
	if to.Before(time.Now().Add(-time.Minute)) {
		t.Fatal("range should end now")
	}

	from, _ = exportRange(7)
	if time.Since(from) > 8*24*time.Hour {
		t.Fatalf("7-day window too wide: from %v", from)
	}
}

func TestBuildDecisionNotes(t *testing.T) {
	got := buildDecisionNotes("cheaper", "Sam", "send email")
	want := "Rationale: cheaper; Told: Sam; First action: send email"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if buildDecisionNotes("", "", "") != "" {
		t.Error("empty inputs should produce empty notes")
	}
	if buildDecisionNotes("", "Sam", "") != "Told: Sam" {
		t.Errorf("partial notes wrong: %q", buildDecisionNotes("", "Sam", ""))
	}
}
