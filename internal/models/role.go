package models

type Role string

const (
	RoleSuperMaster Role = "supermaster"
	RoleSuperAdmin  Role = "super_admin"
	RoleMaster      Role = "master"
	RoleAdmin       Role = "admin"
	RoleAgent       Role = "agent"
	RoleTrader      Role = "trader"
)

const (
	RankSuper  = 1
	RankMaster = 2
	RankAgent  = 3
	RankTrader = 4
)

// Rank orders roles by authority; lower is more privileged, 0 means unknown.
func (r Role) Rank() int {
	switch r {
	case RoleSuperMaster, RoleSuperAdmin:
		return RankSuper
	case RoleMaster, RoleAdmin:
		return RankMaster
	case RoleAgent:
		return RankAgent
	case RoleTrader:
		return RankTrader
	}
	return 0
}

func (r Role) IsValid() bool {
	return r.Rank() != 0
}

func (r Role) IsSuper() bool {
	return r.Rank() == RankSuper
}

// CanParent reports whether an account with role r may sit directly above
// child. Parents must strictly outrank children; super roles may parent anyone.
func (r Role) CanParent(child Role) bool {
	if r.Rank() == 0 || child.Rank() == 0 {
		return false
	}
	return r.IsSuper() || r.Rank() < child.Rank()
}
