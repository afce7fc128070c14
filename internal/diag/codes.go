package diag

import "fmt"

// Code identifies a diagnostic; the thousands digit names the phase.
type Code uint16

const (
	UnknownCode Code = 0

	IOLoadFileError Code = 1001

	SynUnexpectedToken Code = 2001

	// irgen
	IRInvalidLiteral  Code = 4001
	IRUnsupportedNode Code = 4002
	IRUnknownOperator Code = 4003
	IRNestingTooDeep  Code = 4004
	IRInvalidNodeRef  Code = 4005
)

var codeTitles = map[Code]string{
	UnknownCode:        "Unknown error",
	IOLoadFileError:    "Source file could not be read",
	SynUnexpectedToken: "Unexpected token",
	IRInvalidLiteral:   "Literal text cannot be decoded",
	IRUnsupportedNode:  "Node kind is not supported by the IR generator yet",
	IRUnknownOperator:  "Node in operator position is not a known operator",
	IRNestingTooDeep:   "Expression nesting exceeds the configured limit",
	IRInvalidNodeRef:   "Reference to a node or block that does not exist",
}

// codePrefixes по тысячам: 1xxx IO, 2xxx SYN, 4xxx IRG.
var codePrefixes = map[Code]string{1: "IO", 2: "SYN", 4: "IRG"}

// ID renders the stable identifier, e.g. IRG4001.
func (c Code) ID() string {
	if prefix, ok := codePrefixes[c/1000]; ok {
		return fmt.Sprintf("%s%04d", prefix, uint16(c))
	}
	return "E0000"
}

// Title is the one-line description of the code.
func (c Code) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string { return "[" + c.ID() + "]: " + c.Title() }
