package lifecycle

import "time"

// Key identifies one comment text within one file.
type Key struct {
	Path string
	Text string
}

// Entry holds the latest known transition times of a key. Only the most
// recent occurrence of each kind is kept: a comment introduced, removed and
// introduced again reports the second introduction.
type Entry struct {
	Introduced *time.Time
	Removed    *time.Time
}

// Row is the flat export shape of a ledger entry.
type Row struct {
	Introduced *time.Time `json:"introduced" yaml:"introduced"`
	Removed    *time.Time `json:"removed"    yaml:"removed"`
	Path       string     `json:"file_path"  yaml:"file_path"`
	Comment    string     `json:"comment"    yaml:"comment"`
}

// Ledger accumulates lifecycle events for a whole run. It is not safe for
// concurrent use.
type Ledger struct {
	entries map[Key]*Entry
	order   []Key
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[Key]*Entry)}
}

// Apply overwrites the event kind's timestamp for the event's key.
func (l *Ledger) Apply(ev Event) {
	key := Key{Path: ev.Path, Text: ev.Text}

	entry, ok := l.entries[key]
	if !ok {
		entry = &Entry{}
		l.entries[key] = entry
		l.order = append(l.order, key)
	}

	when := ev.When

	switch ev.Kind {
	case Introduced:
		entry.Introduced = &when
	case Removed:
		entry.Removed = &when
	}
}

// Lookup returns a copy of the entry for (path, text).
func (l *Ledger) Lookup(path, text string) (Entry, bool) {
	entry, ok := l.entries[Key{Path: path, Text: text}]
	if !ok {
		return Entry{}, false
	}

	return *entry, true
}

// Len returns the number of distinct keys.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Rows returns every entry in first-observed order.
func (l *Ledger) Rows() []Row {
	rows := make([]Row, 0, len(l.order))

	for _, key := range l.order {
		entry := l.entries[key]
		rows = append(rows, Row{
			Path:       key.Path,
			Comment:    key.Text,
			Introduced: entry.Introduced,
			Removed:    entry.Removed,
		})
	}

	return rows
}

// ErrorRecord captures a file walk that stopped early.
type ErrorRecord struct {
	Path    string `json:"file_path"     yaml:"file_path"`
	Commit  string `json:"commit_hash"   yaml:"commit_hash"`
	Message string `json:"error_message" yaml:"error_message"`
}

// ErrorLedger accumulates walk failures for a whole run.
type ErrorLedger struct {
	records []ErrorRecord
}

// NewErrorLedger creates an empty error ledger.
func NewErrorLedger() *ErrorLedger {
	return &ErrorLedger{}
}

// Append adds a record.
func (l *ErrorLedger) Append(rec ErrorRecord) {
	l.records = append(l.records, rec)
}

// Records returns the records in append order.
func (l *ErrorLedger) Records() []ErrorRecord {
	out := make([]ErrorRecord, len(l.records))
	copy(out, l.records)

	return out
}

// Len returns the number of records.
func (l *ErrorLedger) Len() int {
	return len(l.records)
}
