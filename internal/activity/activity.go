// Package activity keeps an append-only CSV trail of changes made to a
// data repository.
package activity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Action names a kind of ledger change.
type Action string

const (
	ActionInit          Action = "init"
	ActionRecordPayment Action = "record_payment"
	ActionDeletePayment Action = "delete_payment"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp  time.Time
	Action     Action
	Details    string
	EntityID   string
	CommitHash string
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,action,details,entity_id,commit_hash"

// File is the log path relative to the repo root.
const File = "logs/activity.csv"

const (
	numFields     = 5
	colTimestamp  = 0
	colAction     = 1
	colDetails    = 2
	colEntityID   = 3
	colCommitHash = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colAction] = string(e.Action)
	row[colDetails] = e.Details
	row[colEntityID] = e.EntityID
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp:  ts,
		Action:     Action(record[colAction]),
		Details:    record[colDetails],
		EntityID:   record[colEntityID],
		CommitHash: record[colCommitHash],
	}, nil
}

// Append writes entries to <repoRoot>/logs/activity.csv, creating the file
// and header if needed.
func Append(repoRoot string, entries ...Entry) error {
	path := filepath.Join(repoRoot, File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/activity.csv, or nil if the
// file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, File))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Filter returns the entries with the given action, oldest first.
func Filter(entries []Entry, action Action) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
