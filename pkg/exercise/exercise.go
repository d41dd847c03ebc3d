package exercise

// Exercise is a single entry of the exercise catalog. The catalog is seeded
// by migrations and read-only at runtime.
type Exercise struct {
	Id              int
	Name            string
	Category        string
	PrimaryMuscle   string
	SecondaryMuscle *string
	Equipment       *string
	Difficulty      string
	IsCompound      bool
}

// Filter narrows down a catalog listing. Empty fields are ignored.
type Filter struct {
	Category string
	Muscle   string
	Query    string
}
