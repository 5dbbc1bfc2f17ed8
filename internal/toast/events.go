package toast

// State is the lifecycle state of a toast instance.
type State int

const (
	StateEntering State = iota
	StateVisible
	StateExiting
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateEntering:
		return "entering"
	case StateVisible:
		return "visible"
	case StateExiting:
		return "exiting"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DismissReason records why a toast left the screen.
type DismissReason int

const (
	// ReasonExpired means the auto-dismiss timer ran out.
	ReasonExpired DismissReason = iota + 1
	// ReasonClicked means the user pressed the primary button on the card.
	ReasonClicked
	// ReasonEvicted means the oldest toast made room for a new one.
	ReasonEvicted
	// ReasonCleared means every toast was dismissed at once.
	ReasonCleared
	// ReasonClosed means a sender asked for the toast to be closed.
	ReasonClosed
)

func (r DismissReason) String() string {
	switch r {
	case ReasonExpired:
		return "expired"
	case ReasonClicked:
		return "clicked"
	case ReasonEvicted:
		return "evicted"
	case ReasonCleared:
		return "cleared"
	case ReasonClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// EventKind identifies an instance lifecycle event.
type EventKind int

const (
	// EventEntered fires when the entering animation completes.
	EventEntered EventKind = iota
	// EventDismissRequested fires when a timer expiry or click asks for removal.
	EventDismissRequested
	// EventExited fires when the exiting animation completes.
	EventExited
)

// Event is posted by an instance to its orchestrator. Instances are referred
// to by ID so a queued event never holds a disposed instance.
type Event struct {
	Kind    EventKind
	ToastID string
	Reason  DismissReason
}
