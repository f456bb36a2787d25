package uninstall

// Phase is the orchestrator's position in its state machine.
type Phase int32

const (
	Initialized Phase = iota
	RunningFiles
	RunningConfigEdits
	RunningValueEdits
	Cancelled
	Complete
	Failed
)

// PhaseCount is the overall progress maximum: one step per running phase.
const PhaseCount = 3

func (p Phase) String() string {
	switch p {
	case Initialized:
		return "initialized"
	case RunningFiles:
		return "files"
	case RunningConfigEdits:
		return "config-edits"
	case RunningValueEdits:
		return "value-edits"
	case Cancelled:
		return "cancelled"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
