package commit

// State is the lifecycle of a generation
type State int

const (
	Idle State = iota
	AwaitingDiff
	Generating
	Completed
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case AwaitingDiff:
		return "awaiting_diff"
	case Generating:
		return "generating"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "idle"
	}
}
