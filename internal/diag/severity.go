package diag

// Severity orders diagnostics; higher is worse.
type Severity uint8

const (
	SevWarning Severity = iota
	SevError
)

var severityNames = [...]string{SevWarning: "Warning", SevError: "Error"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "Unknown"
}
