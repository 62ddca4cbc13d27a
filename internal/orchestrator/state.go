package orchestrator

type State int

// The pipeline only moves forward; any failure goes straight to StateFailed.
const (
	StateStart State = iota
	StateCollectCreateParams
	StateRunCreator
	StateAwaitCreator
	StateDisplayBinary
	StateCollectReportParams
	StateRunReporter
	StateAwaitReporter
	StateDisplayReport
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	default:
		return "unknown"
	case StateStart:
		return "start"
	case StateCollectCreateParams:
		return "collect_create_params"
	case StateRunCreator:
		return "run_creator"
	case StateAwaitCreator:
		return "await_creator"
	case StateDisplayBinary:
		return "display_binary"
	case StateCollectReportParams:
		return "collect_report_params"
	case StateRunReporter:
		return "run_reporter"
	case StateAwaitReporter:
		return "await_reporter"
	case StateDisplayReport:
		return "display_report"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
}
