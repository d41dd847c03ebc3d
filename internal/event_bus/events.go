package event_bus

// EventRoutineDeleting is published right before a routine row is removed,
// while the routine still exists, so subscribers can detach references first.
const EventRoutineDeleting EventType = "routine.deleting"

type RoutineDeleting struct {
	Id     int
	UserId int
	Name   string
}
