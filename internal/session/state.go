package session

// state is a step of the interactive session.
type state int

const (
	stateMenu state = iota
	stateTargetInfoEdit
	stateTaskSelectPhase
	stateTaskSelectTask
	stateTaskEdit
	stateReportExport
	stateTerminated
)

func (s state) String() string {
	switch s {
	case stateMenu:
		return "menu"
	case stateTargetInfoEdit:
		return "target-info-edit"
	case stateTaskSelectPhase:
		return "task-select-phase"
	case stateTaskSelectTask:
		return "task-select-task"
	case stateTaskEdit:
		return "task-edit"
	case stateReportExport:
		return "report-export"
	case stateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
