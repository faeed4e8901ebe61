package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// JSONFormatter renders entries as single-line JSON objects.
type JSONFormatter struct{}

type jsonEntry struct {
	Time    string      `json:"time,omitempty"`
	Level   string      `json:"level"`
	Message string      `json:"message"`
	Fields  Fields      `json:"fields,omitempty"`
	Caller  string      `json:"caller,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Format implements Formatter.
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	je := jsonEntry{
		Level:   entry.Level.String(),
		Message: entry.Message,
		Caller:  entry.Caller,
	}
	if !entry.Timestamp.IsZero() {
		je.Time = entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00")
	}
	if entry.Error != nil {
		je.Error = entry.Error.Error()
	}
	if len(entry.Fields) > 0 {
		je.Fields = entry.Fields
	}
	buf, err := json.Marshal(je)
	if err != nil {
		return nil, fmt.Errorf("log: marshal entry: %w", err)
	}
	return append(buf, '\n'), nil
}

// TextFormatter renders entries as human-readable single lines, matching
// the shape a developer watching a terminal expects.
type TextFormatter struct {
	DisableColor bool
}

// Format implements Formatter.
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var buf bytes.Buffer
	if !entry.Timestamp.IsZero() {
		buf.WriteString(entry.Timestamp.Format("15:04:05.000"))
		buf.WriteByte(' ')
	}
	fmt.Fprintf(&buf, "%-5s", entry.Level.String())
	buf.WriteByte(' ')
	buf.WriteString(entry.Message)

	if entry.Caller != "" {
		fmt.Fprintf(&buf, " caller=%s", entry.Caller)
	}
	if entry.Error != nil {
		fmt.Fprintf(&buf, " error=%q", entry.Error.Error())
	}

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			if k == "error" {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&buf, " %s=%v", k, entry.Fields[k])
		}
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
