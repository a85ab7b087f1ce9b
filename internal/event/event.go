package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	MemberSkipped Type = iota + 1
	MemberHashed
	VerifyOK
	VerifyFailed
	VerifyMissing
)

var typeNames = [...]string{
	MemberSkipped: "MemberSkipped",
	MemberHashed:  "MemberHashed",
	VerifyOK:      "VerifyOK",
	VerifyFailed:  "VerifyFailed",
	VerifyMissing: "VerifyMissing",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event describes one step of a scan, for structured logging.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // member path
	Source    string // resolved on-disk path (verify only)
	Kind      string // member file type (MemberSkipped)
	Digest    string
	Size      int64
}
