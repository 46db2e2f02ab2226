package domain

// RoleKind различает роли участников магазина.
type RoleKind string

const (
	// RoleOwner — полный административный доступ к магазину.
	RoleOwner RoleKind = "owner"
	// RoleManager — доступ, ограниченный набором прав.
	RoleManager RoleKind = "manager"
)

// PendingAssignment — предложенное, но ещё не принятое назначение роли.
// У пользователя может быть не больше одного pending-назначения любого вида.
type PendingAssignment struct {
	AppointeeID int64
	AppointorID int64
	Role        RoleKind
	// Permissions заполняется только для назначений менеджера.
	Permissions PermissionSet
}
