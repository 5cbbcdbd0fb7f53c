package submit

// State is the lifecycle position of one submission.
type State int

const (
	StateIdle State = iota
	StateSending
	StateSuccessStructured
	StateSuccessUnstructured
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateSuccessStructured:
		return "success_structured"
	case StateSuccessUnstructured:
		return "success_unstructured"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateSuccessStructured || s == StateSuccessUnstructured || s == StateFailed
}
