package mesocycle

import (
	"fmt"
	"strings"
	"time"
)

type Focus string

const (
	FocusHypertrophy Focus = "hypertrophy"
	FocusStrength    Focus = "strength"
	FocusCut         Focus = "cut"
	FocusSkill       Focus = "skill"
)

func (f Focus) IsValid() bool {
	switch f {
	case FocusHypertrophy, FocusStrength, FocusCut, FocusSkill:
		return true
	}
	return false
}

type DayKind string

const (
	DayKindRoutine DayKind = "routine"
	DayKindRest    DayKind = "rest"
	DayKindDeload  DayKind = "deload"
)

// Assignment pins a kind of training day to one slot of the plan grid.
// RoutineId is only meaningful for routine days and may still be nil there:
// storage keeps day rows whose routine was deleted, and week placeholder rows.
type Assignment struct {
	WeekIndex int
	DayIndex  int // 0 when the slot is not bound to a weekday
	Kind      DayKind
	RoutineId *int
}

// Placeholder reports whether this assignment is a bare week marker: a row
// written to keep the plan length when a plan was saved without any day
// assignments. Such rows read back as routine days with no reference.
func (a Assignment) Placeholder() bool {
	return a.Kind == DayKindRoutine && a.RoutineId == nil && a.DayIndex == 0
}

// Mesocycle is a multi-week training block. Assignments hold the day grid;
// they are loaded and saved together with the plan but stored separately.
type Mesocycle struct {
	Id          int
	Name        string
	Focus       Focus
	Weeks       int
	StartDate   *time.Time
	Assignments []Assignment
}

// CurrentWeek returns the 1-based week the plan is in at the given time.
// It returns 0 when the plan has no start date, has not started yet,
// or is already over.
func (m Mesocycle) CurrentWeek(now time.Time) int {
	if m.StartDate == nil {
		return 0
	}
	if now.Before(*m.StartDate) {
		return 0
	}
	week := int(now.Sub(*m.StartDate).Hours()/(24*7)) + 1
	if week > m.Weeks {
		return 0
	}
	return week
}

// ValidationError describes a rejected plan field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the plan scalars. Assignments are deliberately not checked:
// day rows loaded from storage must be saveable as they are.
func (m Mesocycle) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ValidationError{Field: "name", Message: "must not be empty"}
	}
	if !m.Focus.IsValid() {
		return ValidationError{Field: "focus", Message: fmt.Sprintf("unknown focus %q", string(m.Focus))}
	}
	if m.Weeks < 1 || m.Weeks > 52 {
		return ValidationError{Field: "weeks", Message: "must be between 1 and 52"}
	}
	return nil
}

// dayRow is the flattened storage shape of an Assignment: rest and deload are
// kept in day_type, routine days leave day_type empty and may carry a routine
// reference. The Kind tag does not survive the flattening for empty routine
// days, which is why placeholder rows read back as routine days.
type dayRow struct {
	WeekIndex int
	DayIndex  *int
	RoutineId *int
	DayType   *string
}

func (a Assignment) toRow() dayRow {
	row := dayRow{WeekIndex: a.WeekIndex}
	if a.DayIndex > 0 {
		day := a.DayIndex
		row.DayIndex = &day
	}
	switch a.Kind {
	case DayKindRest, DayKindDeload:
		// rest and deload days never keep a routine reference
		kind := string(a.Kind)
		row.DayType = &kind
	default:
		row.RoutineId = a.RoutineId
	}
	return row
}

func assignmentFromRow(row dayRow) Assignment {
	assignment := Assignment{WeekIndex: row.WeekIndex}
	if row.DayIndex != nil {
		assignment.DayIndex = *row.DayIndex
	}
	switch {
	case row.DayType != nil && *row.DayType == string(DayKindRest):
		assignment.Kind = DayKindRest
	case row.DayType != nil && *row.DayType == string(DayKindDeload):
		assignment.Kind = DayKindDeload
	default:
		assignment.Kind = DayKindRoutine
		assignment.RoutineId = row.RoutineId
	}
	return assignment
}

// assignmentRows flattens the day grid for storage. An empty grid degrades to
// one placeholder row per week so the plan's length survives the save.
func assignmentRows(weeks int, assignments []Assignment) []dayRow {
	if len(assignments) == 0 {
		rows := make([]dayRow, 0, weeks)
		for week := 1; week <= weeks; week++ {
			rows = append(rows, dayRow{WeekIndex: week})
		}
		return rows
	}
	rows := make([]dayRow, 0, len(assignments))
	for _, assignment := range assignments {
		rows = append(rows, assignment.toRow())
	}
	return rows
}
