package roles

// Role is the permission level attached to a user. The engine itself never
// interprets roles; they gate the HTTP surface only.
type Role string

const (
	Viewer           Role = "viewer"
	BaseCommander    Role = "base_commander"
	LogisticsOfficer Role = "logistics_officer"
	Admin            Role = "admin"
)

type HierarchyLevel int

const (
	ViewerLevel           HierarchyLevel = 1
	BaseCommanderLevel    HierarchyLevel = 2
	LogisticsOfficerLevel HierarchyLevel = 3
	AdminLevel            HierarchyLevel = 4
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case Viewer:
		return ViewerLevel
	case BaseCommander:
		return BaseCommanderLevel
	case LogisticsOfficer:
		return LogisticsOfficerLevel
	case Admin:
		return AdminLevel
	default:
		return 0
	}
}

func (r Role) HasPermission(requiredRole Role) bool {
	return r.IsValid() && r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case Viewer, BaseCommander, LogisticsOfficer, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
