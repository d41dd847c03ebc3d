package nutrition

import "time"

// Goal holds a user's daily nutrition targets. One row per user.
type Goal struct {
	UserId    int
	Calories  int
	ProteinG  int
	CarbsG    int
	FatG      int
	UpdatedAt time.Time
}
