package tether

// EventKind identifies a lifecycle-relevant hardware or power event.
type EventKind uint8

const (
	EventPlugIn EventKind = iota + 1
	EventPlugOut
	EventSuspend
	EventResume
)

func (k EventKind) String() string {
	switch k {
	case EventPlugIn:
		return "plug-in"
	case EventPlugOut:
		return "plug-out"
	case EventSuspend:
		return "suspend"
	case EventResume:
		return "resume"
	default:
		return "unknown"
	}
}

// Event is a single notification from an event source.
type Event struct {
	Kind EventKind
}
