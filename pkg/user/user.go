package user

type Role string

const (
	RoleAthlete Role = "athlete"
	RoleTrainer Role = "trainer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAthlete, RoleTrainer:
		return true
	}
	return false
}

type WeightUnit string

const (
	WeightUnitKg WeightUnit = "kg"
	WeightUnitLb WeightUnit = "lb"
)

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Role        Role
	Settings    Settings
}

type Settings struct {
	Timezone   string
	WeightUnit WeightUnit
}
