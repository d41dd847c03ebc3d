package routine

// Routine is a reusable training day template. Pro routines are templates
// authored by trainers; athletes get their own editable copy instead of
// referencing the template directly.
type Routine struct {
	Id          int
	Name        string
	Description string
	IsPro       bool
	Exercises   []RoutineExercise
}

// RoutineExercise is a single exercise slot within a routine.
// ExerciseName is resolved from the catalog on read and ignored on write.
type RoutineExercise struct {
	Id           int
	ExerciseId   int
	ExerciseName string
	Position     int
	TargetSets   int
	TargetReps   string
	RestSeconds  int
}
