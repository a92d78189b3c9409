package types

// Level is the caller-controlled severity string written into each line.
// The writer does not restrict it; these are the conventional values.
type Level = string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// LogLineVersion is the record format version stored in the "v" field.
const LogLineVersion = 1

// Fields carries the structured payload of a line.
type Fields map[string]interface{}

// LogLine is the on-disk record, one JSON object per line.
type LogLine struct {
	Name      string `json:"name"`
	Hostname  string `json:"hostname"`
	PID       int    `json:"pid"`
	Level     Level  `json:"level"`
	Msg       string `json:"msg"`
	Time      string `json:"time"`
	V         int    `json:"v"`
	Fields    Fields `json:"fields"`
	Truncated string `json:"truncated,omitempty"`
}
