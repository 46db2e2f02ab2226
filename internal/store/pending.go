package store

import "github.com/vladislavdragonenkov/marketplace/internal/domain"

// pendingAssignments — реестр предложенных, но не принятых назначений.
// Хранит назначения владельцев и менеджеров раздельно и следит за тем,
// чтобы у пользователя было не больше одного pending-назначения любого вида.
// Доступ только под roles-локом агрегата.
type pendingAssignments struct {
	// owners: кандидат во владельцы -> назначающий.
	owners map[int64]int64
	// managers: кандидат в менеджеры -> назначающий.
	managers map[int64]int64
	// managerPerms: кандидат в менеджеры -> предложенный набор прав.
	managerPerms map[int64]domain.PermissionSet
}

func newPendingAssignments() *pendingAssignments {
	return &pendingAssignments{
		owners:       make(map[int64]int64),
		managers:     make(map[int64]int64),
		managerPerms: make(map[int64]domain.PermissionSet),
	}
}

// hasAny сообщает, есть ли у пользователя хоть какое-то pending-назначение.
func (p *pendingAssignments) hasAny(userID int64) bool {
	_, owner := p.owners[userID]
	_, manager := p.managers[userID]
	return owner || manager
}

// proposeOwner фиксирует предложение стать владельцем.
func (p *pendingAssignments) proposeOwner(appointeeID, appointorID int64) {
	p.owners[appointeeID] = appointorID
}

// proposeManager фиксирует предложение стать менеджером с набором прав.
func (p *pendingAssignments) proposeManager(appointeeID, appointorID int64, perms domain.PermissionSet) {
	p.managers[appointeeID] = appointorID
	p.managerPerms[appointeeID] = perms.Clone()
}

// take извлекает pending-назначение пользователя и удаляет его из реестра.
// Наличие сразу двух назначений (владелец и менеджер) — нарушенный инвариант.
func (p *pendingAssignments) take(userID int64) (domain.PendingAssignment, error) {
	ownerAppointor, isOwner := p.owners[userID]
	managerAppointor, isManager := p.managers[userID]

	switch {
	case isOwner && isManager:
		return domain.PendingAssignment{}, domain.Inconsistency(
			"user %d has both owner and manager pending assignments", userID)
	case isOwner:
		delete(p.owners, userID)
		return domain.PendingAssignment{
			AppointeeID: userID,
			AppointorID: ownerAppointor,
			Role:        domain.RoleOwner,
		}, nil
	case isManager:
		perms := p.managerPerms[userID]
		delete(p.managers, userID)
		delete(p.managerPerms, userID)
		return domain.PendingAssignment{
			AppointeeID: userID,
			AppointorID: managerAppointor,
			Role:        domain.RoleManager,
			Permissions: perms,
		}, nil
	default:
		return domain.PendingAssignment{}, domain.NotFound("user %d has no pending assignment", userID)
	}
}

// drop удаляет pending-назначение пользователя, если оно есть.
func (p *pendingAssignments) drop(userID int64) {
	delete(p.owners, userID)
	delete(p.managers, userID)
	delete(p.managerPerms, userID)
}
