package domain

// ProcessState is the relay process state as shown by the health endpoint.
type ProcessState string

const (
	ProcessRunning  ProcessState = "running"
	ProcessSleeping ProcessState = "sleeping"
	ProcessStopped  ProcessState = "stopped"
	ProcessIdle     ProcessState = "idle"
	ProcessZombie   ProcessState = "zombie"
	ProcessWaiting  ProcessState = "waiting"
	ProcessLocked   ProcessState = "locked"
	ProcessUnknown  ProcessState = "unknown"
)

var processStates = map[string]ProcessState{
	"R": ProcessRunning,
	"S": ProcessSleeping,
	"T": ProcessStopped,
	"I": ProcessIdle,
	"Z": ProcessZombie,
	"W": ProcessWaiting,
	"L": ProcessLocked,
}

// ParseProcessState maps the one-letter code reported by the OS.
func ParseProcessState(code string) ProcessState {
	if state, ok := processStates[code]; ok {
		return state
	}
	return ProcessUnknown
}
