package pkg

type Action string

const (
	ActionExit    Action = "Exit"
	ActionWin     Action = "You won!"
	ActionLose    Action = "You lost."
	ActionAborted Action = "Connection lost, no result."
	ActionResign  Action = "Leave game"
)

// EndAction picks the end-of-game message for the local side.
func EndAction(o Outcome, local PlayerColor) Action {
	winner, ok := o.Winner()
	switch {
	case !ok:
		return ActionAborted
	case winner == local:
		return ActionWin
	default:
		return ActionLose
	}
}
