package mesocycle

import (
	"testing"
	"time"
)

func TestMesocycle_Validate(t *testing.T) {
	valid := Mesocycle{Name: "Block 1", Focus: FocusHypertrophy, Weeks: 6}

	tests := []struct {
		name      string
		change    func(m *Mesocycle)
		wantField string
	}{
		{name: "valid plan", change: func(m *Mesocycle) {}},
		{name: "blank name", change: func(m *Mesocycle) { m.Name = "   " }, wantField: "name"},
		{name: "empty name", change: func(m *Mesocycle) { m.Name = "" }, wantField: "name"},
		{name: "unknown focus", change: func(m *Mesocycle) { m.Focus = "endurance" }, wantField: "focus"},
		{name: "empty focus", change: func(m *Mesocycle) { m.Focus = "" }, wantField: "focus"},
		{name: "zero weeks", change: func(m *Mesocycle) { m.Weeks = 0 }, wantField: "weeks"},
		{name: "negative weeks", change: func(m *Mesocycle) { m.Weeks = -3 }, wantField: "weeks"},
		{name: "too many weeks", change: func(m *Mesocycle) { m.Weeks = 53 }, wantField: "weeks"},
		{name: "max weeks", change: func(m *Mesocycle) { m.Weeks = 52 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := valid
			tt.change(&plan)
			err := plan.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			validationErr, ok := err.(ValidationError)
			if !ok {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", validationErr.Field, tt.wantField)
			}
		})
	}
}

func TestMesocycle_Validate_IgnoresAssignments(t *testing.T) {
	// day rows loaded from storage must stay saveable, even odd ones
	plan := Mesocycle{
		Name:  "Block 1",
		Focus: FocusCut,
		Weeks: 2,
		Assignments: []Assignment{
			{WeekIndex: 99, DayIndex: -1, Kind: "something"},
		},
	}
	if err := plan.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestMesocycle_CurrentWeek(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		plan  Mesocycle
		now   time.Time
		want  int
	}{
		{name: "no start date", plan: Mesocycle{Weeks: 4}, now: start, want: 0},
		{name: "before start", plan: Mesocycle{Weeks: 4, StartDate: &start}, now: start.AddDate(0, 0, -1), want: 0},
		{name: "first day", plan: Mesocycle{Weeks: 4, StartDate: &start}, now: start, want: 1},
		{name: "sixth day", plan: Mesocycle{Weeks: 4, StartDate: &start}, now: start.AddDate(0, 0, 6), want: 1},
		{name: "seventh day starts week two", plan: Mesocycle{Weeks: 4, StartDate: &start}, now: start.AddDate(0, 0, 7), want: 2},
		{name: "mid plan", plan: Mesocycle{Weeks: 4, StartDate: &start}, now: start.AddDate(0, 0, 15), want: 3},
		{name: "last week", plan: Mesocycle{Weeks: 4, StartDate: &start}, now: start.AddDate(0, 0, 27), want: 4},
		{name: "plan over", plan: Mesocycle{Weeks: 4, StartDate: &start}, now: start.AddDate(0, 0, 28), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.plan.CurrentWeek(tt.now); got != tt.want {
				t.Errorf("CurrentWeek() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAssignment_ToRow(t *testing.T) {
	routineId := 7

	t.Run("routine day keeps its reference", func(t *testing.T) {
		row := Assignment{WeekIndex: 2, DayIndex: 3, Kind: DayKindRoutine, RoutineId: &routineId}.toRow()
		if row.WeekIndex != 2 {
			t.Errorf("WeekIndex = %d, want 2", row.WeekIndex)
		}
		if row.DayIndex == nil || *row.DayIndex != 3 {
			t.Errorf("DayIndex = %v, want 3", row.DayIndex)
		}
		if row.RoutineId == nil || *row.RoutineId != 7 {
			t.Errorf("RoutineId = %v, want 7", row.RoutineId)
		}
		if row.DayType != nil {
			t.Errorf("DayType = %v, want nil", *row.DayType)
		}
	})

	t.Run("routine day without reference", func(t *testing.T) {
		row := Assignment{WeekIndex: 1, Kind: DayKindRoutine}.toRow()
		if row.DayIndex != nil {
			t.Errorf("DayIndex = %v, want nil", *row.DayIndex)
		}
		if row.RoutineId != nil {
			t.Errorf("RoutineId = %v, want nil", *row.RoutineId)
		}
		if row.DayType != nil {
			t.Errorf("DayType = %v, want nil", *row.DayType)
		}
	})

	t.Run("rest day drops the reference", func(t *testing.T) {
		row := Assignment{WeekIndex: 1, DayIndex: 1, Kind: DayKindRest, RoutineId: &routineId}.toRow()
		if row.RoutineId != nil {
			t.Errorf("RoutineId = %v, want nil", *row.RoutineId)
		}
		if row.DayType == nil || *row.DayType != "rest" {
			t.Errorf("DayType = %v, want rest", row.DayType)
		}
	})

	t.Run("deload day drops the reference", func(t *testing.T) {
		row := Assignment{WeekIndex: 1, DayIndex: 1, Kind: DayKindDeload, RoutineId: &routineId}.toRow()
		if row.RoutineId != nil {
			t.Errorf("RoutineId = %v, want nil", *row.RoutineId)
		}
		if row.DayType == nil || *row.DayType != "deload" {
			t.Errorf("DayType = %v, want deload", row.DayType)
		}
	})
}

func TestAssignmentFromRow(t *testing.T) {
	routineId := 7
	dayIndex := 3
	rest := "rest"
	deload := "deload"
	unknown := "circuit"

	tests := []struct {
		name        string
		row         dayRow
		wantKind    DayKind
		wantRoutine *int
		wantDay     int
	}{
		{
			name:        "routine row with reference",
			row:         dayRow{WeekIndex: 1, DayIndex: &dayIndex, RoutineId: &routineId},
			wantKind:    DayKindRoutine,
			wantRoutine: &routineId,
			wantDay:     3,
		},
		{
			name:     "placeholder row",
			row:      dayRow{WeekIndex: 1},
			wantKind: DayKindRoutine,
		},
		{
			name:     "rest row",
			row:      dayRow{WeekIndex: 1, DayIndex: &dayIndex, DayType: &rest},
			wantKind: DayKindRest,
			wantDay:  3,
		},
		{
			name:     "deload row",
			row:      dayRow{WeekIndex: 2, DayType: &deload},
			wantKind: DayKindDeload,
		},
		{
			// rows written before a day type was introduced read as routine days
			name:        "unknown day type",
			row:         dayRow{WeekIndex: 1, DayType: &unknown, RoutineId: &routineId},
			wantKind:    DayKindRoutine,
			wantRoutine: &routineId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assignment := assignmentFromRow(tt.row)
			if assignment.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", assignment.Kind, tt.wantKind)
			}
			if assignment.WeekIndex != tt.row.WeekIndex {
				t.Errorf("WeekIndex = %d, want %d", assignment.WeekIndex, tt.row.WeekIndex)
			}
			if assignment.DayIndex != tt.wantDay {
				t.Errorf("DayIndex = %d, want %d", assignment.DayIndex, tt.wantDay)
			}
			if tt.wantRoutine == nil && assignment.RoutineId != nil {
				t.Errorf("RoutineId = %v, want nil", *assignment.RoutineId)
			}
			if tt.wantRoutine != nil && (assignment.RoutineId == nil || *assignment.RoutineId != *tt.wantRoutine) {
				t.Errorf("RoutineId = %v, want %d", assignment.RoutineId, *tt.wantRoutine)
			}
		})
	}
}

func TestAssignmentRows(t *testing.T) {
	t.Run("empty grid becomes one placeholder per week", func(t *testing.T) {
		rows := assignmentRows(3, nil)
		if len(rows) != 3 {
			t.Fatalf("len(rows) = %d, want 3", len(rows))
		}
		for i, row := range rows {
			if row.WeekIndex != i+1 {
				t.Errorf("rows[%d].WeekIndex = %d, want %d", i, row.WeekIndex, i+1)
			}
			if row.DayIndex != nil || row.RoutineId != nil || row.DayType != nil {
				t.Errorf("rows[%d] = %+v, want a bare placeholder", i, row)
			}
		}
	})

	t.Run("assignments map one to one", func(t *testing.T) {
		routineId := 7
		rows := assignmentRows(4, []Assignment{
			{WeekIndex: 1, DayIndex: 1, Kind: DayKindRoutine, RoutineId: &routineId},
			{WeekIndex: 2, DayIndex: 1, Kind: DayKindRest},
		})
		if len(rows) != 2 {
			t.Fatalf("len(rows) = %d, want 2", len(rows))
		}
		if rows[0].RoutineId == nil || *rows[0].RoutineId != 7 {
			t.Errorf("rows[0].RoutineId = %v, want 7", rows[0].RoutineId)
		}
		if rows[1].DayType == nil || *rows[1].DayType != "rest" {
			t.Errorf("rows[1].DayType = %v, want rest", rows[1].DayType)
		}
	})
}

func TestAssignment_Placeholder(t *testing.T) {
	routineId := 7

	tests := []struct {
		name       string
		assignment Assignment
		want       bool
	}{
		{name: "bare routine day", assignment: Assignment{WeekIndex: 1, Kind: DayKindRoutine}, want: true},
		{name: "bound routine day", assignment: Assignment{WeekIndex: 1, Kind: DayKindRoutine, RoutineId: &routineId}, want: false},
		{name: "positioned routine day", assignment: Assignment{WeekIndex: 1, DayIndex: 2, Kind: DayKindRoutine}, want: false},
		{name: "rest day", assignment: Assignment{WeekIndex: 1, Kind: DayKindRest}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.assignment.Placeholder(); got != tt.want {
				t.Errorf("Placeholder() = %v, want %v", got, tt.want)
			}
		})
	}
}
