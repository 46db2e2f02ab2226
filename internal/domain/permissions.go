package domain

// Permission описывает отдельное право менеджера магазина.
type Permission string

const (
	// PermissionInventory — управление товарами и аукционами магазина.
	PermissionInventory Permission = "INVENTORY"
	// PermissionPurchasePolicy — управление политиками покупки.
	PermissionPurchasePolicy Permission = "PURCHASE_POLICY"
	// PermissionDiscountPolicy — управление политиками скидок.
	PermissionDiscountPolicy Permission = "DISCOUNT_POLICY"
	// PermissionRequestsReply — ответы на обращения покупателей.
	PermissionRequestsReply Permission = "REQUESTS_REPLY"
	// PermissionViewRoles — просмотр ролей магазина.
	PermissionViewRoles Permission = "VIEW_ROLES"
	// PermissionViewPurchases — просмотр истории покупок магазина.
	PermissionViewPurchases Permission = "VIEW_PURCHASES"
)

// AllPermissions возвращает закрытый набор существующих прав.
func AllPermissions() []Permission {
	return []Permission{
		PermissionInventory,
		PermissionPurchasePolicy,
		PermissionDiscountPolicy,
		PermissionRequestsReply,
		PermissionViewRoles,
		PermissionViewPurchases,
	}
}

// Valid проверяет, что право входит в закрытый набор.
func (p Permission) Valid() bool {
	for _, known := range AllPermissions() {
		if p == known {
			return true
		}
	}
	return false
}

// PermissionSet — множество прав менеджера.
type PermissionSet map[Permission]struct{}

// NewPermissionSet собирает множество из перечисленных прав.
func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has проверяет наличие права в множестве.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Add добавляет право.
func (s PermissionSet) Add(p Permission) {
	s[p] = struct{}{}
}

// Remove убирает право, если оно есть.
func (s PermissionSet) Remove(p Permission) {
	delete(s, p)
}

// Empty сообщает, пустое ли множество.
func (s PermissionSet) Empty() bool {
	return len(s) == 0
}

// Clone возвращает независимую копию множества.
func (s PermissionSet) Clone() PermissionSet {
	cloned := make(PermissionSet, len(s))
	for p := range s {
		cloned[p] = struct{}{}
	}
	return cloned
}

// Equal сравнивает два множества поэлементно.
func (s PermissionSet) Equal(other PermissionSet) bool {
	if len(s) != len(other) {
		return false
	}
	for p := range s {
		if !other.Has(p) {
			return false
		}
	}
	return true
}
