package constant

// ReminderState defines where a reminder sits in the due-state machine.
type ReminderState int

const (
	// StateUpcoming represents a non-done reminder whose scheduled time is still in the future.
	StateUpcoming ReminderState = iota // 0
	// StateDueUnalerted represents a due reminder that has not produced an alert yet.
	StateDueUnalerted // 1
	// StateDueAlerted represents a due reminder whose alert has already been emitted.
	StateDueAlerted // 2
	// StateDone represents a reminder that was marked done. Terminal.
	StateDone // 3
)

// String returns the name used in API responses.
func (s ReminderState) String() string {
	switch s {
	case StateUpcoming:
		return "upcoming"
	case StateDueUnalerted:
		return "due_unalerted"
	case StateDueAlerted:
		return "due_alerted"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
