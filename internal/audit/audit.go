package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
)

// TimestampFormat is RFC3339 in UTC with microseconds.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry. Passwords and passphrases are
// never recorded.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"`
	Operation string `json:"op"`

	// Optional fields depending on operation.
	Address    string   `json:"address,omitempty"`     // For set/delete/login/run/get/users.
	Username   string   `json:"username,omitempty"`    // For set/delete/login/run/get.
	Change     string   `json:"change,omitempty"`      // For set: added host, added user, updated.
	Count      int      `json:"count,omitempty"`       // For import/export.
	Files      []string `json:"files,omitempty"`       // For import.
	OutputPath string   `json:"output_path,omitempty"` // For export.
	Policy     *int     `json:"policy,omitempty"`      // For init/passwd.
	Replaced   bool     `json:"replaced,omitempty"`    // For init over an existing vault.
}

// LogPath returns the audit log that sits next to a vault file.
func LogPath(vaultPath string) string {
	return vaultPath + ".audit.jsonl"
}

// Log appends an entry to the audit log at logPath. An empty logPath
// disables auditing. Failures are ignored; an operation never fails because
// its audit entry could not be written.
func Log(logPath string, entry Entry) {
	if logPath == "" {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(logPath string) ([]Entry, error) {
	data, err := os.ReadFile(logPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data), nil
}

// ParseEntries parses JSON Lines data. Malformed lines, such as a line cut
// short by a crash, are skipped.
func ParseEntries(data []byte) []Entry {
	var entries []Entry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries
}

// Tail returns the last n entries, or all of them when n <= 0.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}
