package store

import (
	"fmt"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// AddOwner предлагает пользователю стать владельцем магазина.
// Дерево ролей не меняется до принятия предложения.
func (s *Store) AddOwner(appointorID, appointeeID int64) error {
	var eff effects

	g := s.lockRoles()
	err := func() error {
		if _, ok := s.owners[appointorID]; !ok {
			return domain.PermissionDenied("user %d is not an owner of store %d", appointorID, s.id)
		}
		if _, ok := s.owners[appointeeID]; ok {
			return domain.Conflict("user %d is already an owner", appointeeID)
		}
		if s.pending.hasAny(appointeeID) {
			return domain.Conflict("user %d already has a pending assignment", appointeeID)
		}
		// Повысить менеджера до владельца может только владелец из его цепочки назначений.
		if _, isManager := s.managers[appointeeID]; isManager {
			if !s.tree.isChild(appointorID, appointeeID) {
				return domain.PermissionDenied(
					"user %d is not an appointor of manager %d", appointorID, appointeeID)
			}
		}

		s.pending.proposeOwner(appointeeID, appointorID)
		eff.notify(appointeeID, ownerProposedText(s.name, appointorID))
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordAssignmentProposed()
		}
		return nil
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	return nil
}

// AddManager предлагает пользователю стать менеджером с набором прав.
func (s *Store) AddManager(appointorID, appointeeID int64, perms domain.PermissionSet) error {
	if perms.Empty() {
		return domain.InvalidArgument("manager permission set cannot be empty")
	}
	for p := range perms {
		if !p.Valid() {
			return domain.InvalidArgument("unknown permission %q", p)
		}
	}

	var eff effects

	g := s.lockRoles()
	err := func() error {
		if _, ok := s.owners[appointorID]; !ok {
			return domain.PermissionDenied("user %d is not an owner of store %d", appointorID, s.id)
		}
		if _, ok := s.owners[appointeeID]; ok {
			return domain.Conflict("user %d is already an owner", appointeeID)
		}
		if _, ok := s.managers[appointeeID]; ok {
			return domain.Conflict("user %d is already a manager", appointeeID)
		}
		if s.pending.hasAny(appointeeID) {
			return domain.Conflict("user %d already has a pending assignment", appointeeID)
		}

		s.pending.proposeManager(appointeeID, appointorID, perms)
		eff.notify(appointeeID, managerProposedText(s.name, appointorID))
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordAssignmentProposed()
		}
		return nil
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	return nil
}

// AcceptAssignment принимает pending-назначение пользователя.
// Назначающий перепроверяется: он мог потерять роль владельца между
// предложением и принятием — тогда pending-запись выбрасывается, операция
// завершается ошибкой.
func (s *Store) AcceptAssignment(userID int64) error {
	var eff effects

	g := s.lockRoles()
	err := func() error {
		assignment, err := s.pending.take(userID)
		if err != nil {
			return err
		}
		if _, stillOwner := s.owners[assignment.AppointorID]; !stillOwner {
			// Запись уже извлечена из pending: повторное принятие невозможно.
			return domain.Conflict(
				"appointor %d is no longer an owner of store %d", assignment.AppointorID, s.id)
		}

		switch assignment.Role {
		case domain.RoleOwner:
			s.owners[userID] = struct{}{}
			// Повышенный менеджер сохраняет свою позицию в дереве; узел
			// создаётся только для пользователя, которого в дереве ещё нет.
			if !s.tree.contains(userID) {
				if err := s.tree.add(assignment.AppointorID, userID); err != nil {
					return err
				}
			}
			delete(s.managers, userID)
		case domain.RoleManager:
			if assignment.Permissions.Empty() {
				return domain.InvalidArgument("manager permission set cannot be empty")
			}
			if s.tree.contains(userID) {
				return domain.Inconsistency("pending manager %d already has a role tree node", userID)
			}
			if err := s.tree.add(assignment.AppointorID, userID); err != nil {
				return err
			}
			s.managers[userID] = assignment.Permissions.Clone()
		default:
			return domain.Inconsistency("unknown pending role %q", assignment.Role)
		}

		eff.notify(assignment.AppointorID, assignmentAcceptedText(s.name, userID))
		eff.notify(userID, assignmentConfirmedText(s.name))
		eff.record(s.id, "role.accepted", userID,
			fmt.Sprintf("user %d became %s (appointed by %d)", userID, assignment.Role, assignment.AppointorID))
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordRoleChange()
		}
		return nil
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	return nil
}

// DeclineAssignment отклоняет pending-назначение. Назначающий уведомляется,
// только если он всё ещё владелец.
func (s *Store) DeclineAssignment(userID int64) error {
	var eff effects

	g := s.lockRoles()
	err := func() error {
		assignment, err := s.pending.take(userID)
		if err != nil {
			return err
		}
		if _, stillOwner := s.owners[assignment.AppointorID]; stillOwner {
			eff.notify(assignment.AppointorID, assignmentDeclinedText(s.name, userID))
		}
		return nil
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	return nil
}

// RemoveOwner снимает владельца вместе со всем поддеревом его назначенцев.
// Основатель неприкосновенен. Запросивший должен быть предком цели либо
// самой целью (самоснятие).
func (s *Store) RemoveOwner(requesterID, targetID int64) error {
	var eff effects

	g := s.lockRoles()
	err := func() error {
		if _, ok := s.owners[requesterID]; !ok {
			return domain.PermissionDenied("user %d is not an owner of store %d", requesterID, s.id)
		}
		if _, ok := s.owners[targetID]; !ok {
			return domain.Conflict("user %d is not an owner of store %d", targetID, s.id)
		}
		if targetID == s.founderID {
			return domain.Conflict("the founder of store %d cannot be removed", s.id)
		}
		if requesterID != targetID && !s.tree.isChild(requesterID, targetID) {
			return domain.PermissionDenied(
				"user %d is not an ancestor of owner %d", requesterID, targetID)
		}

		removed, err := s.tree.removeSubtree(targetID)
		if err != nil {
			return err
		}
		for _, id := range removed {
			if _, ok := s.owners[id]; ok {
				delete(s.owners, id)
			} else if _, ok := s.managers[id]; ok {
				delete(s.managers, id)
			} else {
				// Узел дерева без роли — сломанный инвариант.
				return domain.Inconsistency(
					"user %d is in the role tree but neither owner nor manager", id)
			}
			eff.notify(id, roleRevokedText(s.name))
		}

		eff.record(s.id, "role.removed", requesterID,
			fmt.Sprintf("owner %d removed with %d subtree role(s)", targetID, len(removed)-1))
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordRoleChange()
		}

		// Сжатие множества владельцев могло сделать уже собранные одобрения
		// офферов достаточными: прогоняем проверку единогласия прямо здесь.
		s.finalizeOffersLocked(&eff)
		return nil
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	return nil
}

// RemoveManager снимает менеджера. Менеджеры по определению листья дерева:
// менеджер с потомками — сломанный инвариант.
func (s *Store) RemoveManager(requesterID, targetID int64) error {
	var eff effects

	g := s.lockRoles()
	err := func() error {
		if _, ok := s.owners[requesterID]; !ok {
			return domain.PermissionDenied("user %d is not an owner of store %d", requesterID, s.id)
		}
		if _, ok := s.managers[targetID]; !ok {
			return domain.NotFound("user %d is not a manager of store %d", targetID, s.id)
		}
		if !s.tree.isChild(requesterID, targetID) {
			return domain.PermissionDenied(
				"user %d is not an ancestor of manager %d", requesterID, targetID)
		}
		if s.tree.hasChildren(targetID) {
			return domain.Inconsistency("manager %d has children in the role tree", targetID)
		}

		if _, err := s.tree.removeSubtree(targetID); err != nil {
			return err
		}
		delete(s.managers, targetID)
		eff.notify(targetID, roleRevokedText(s.name))
		eff.record(s.id, "role.removed", requesterID,
			fmt.Sprintf("manager %d removed", targetID))
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordRoleChange()
		}
		return nil
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	return nil
}

// AddManagerPermissions добавляет менеджеру права.
func (s *Store) AddManagerPermissions(requesterID, managerID int64, perms ...domain.Permission) error {
	if len(perms) == 0 {
		return domain.InvalidArgument("no permissions given")
	}
	for _, p := range perms {
		if !p.Valid() {
			return domain.InvalidArgument("unknown permission %q", p)
		}
	}

	g := s.lockRoles()
	defer g.unlock()

	current, err := s.managerForUpdateLocked(requesterID, managerID)
	if err != nil {
		return err
	}
	for _, p := range perms {
		current.Add(p)
	}
	return nil
}

// RemoveManagerPermissions убирает у менеджера права.
// Набор прав не может остаться пустым: в этом случае операция отклоняется
// целиком, и набор восстанавливается из снимка — частичное удаление
// снаружи не наблюдаемо.
func (s *Store) RemoveManagerPermissions(requesterID, managerID int64, perms ...domain.Permission) error {
	if len(perms) == 0 {
		return domain.InvalidArgument("no permissions given")
	}

	g := s.lockRoles()
	defer g.unlock()

	current, err := s.managerForUpdateLocked(requesterID, managerID)
	if err != nil {
		return err
	}

	snapshot := current.Clone()
	for _, p := range perms {
		if !p.Valid() {
			s.managers[managerID] = snapshot
			return domain.InvalidArgument("unknown permission %q", p)
		}
		current.Remove(p)
		if current.Empty() {
			s.managers[managerID] = snapshot
			return domain.InvalidArgument(
				"removing %q would leave manager %d with no permissions", p, managerID)
		}
	}
	return nil
}

// managerForUpdateLocked валидирует право запросившего менять права менеджера
// и возвращает живой набор прав.
func (s *Store) managerForUpdateLocked(requesterID, managerID int64) (domain.PermissionSet, error) {
	if _, ok := s.owners[requesterID]; !ok {
		return nil, domain.PermissionDenied("user %d is not an owner of store %d", requesterID, s.id)
	}
	perms, ok := s.managers[managerID]
	if !ok {
		return nil, domain.NotFound("user %d is not a manager of store %d", managerID, s.id)
	}
	if !s.tree.isChild(requesterID, managerID) {
		return nil, domain.PermissionDenied(
			"user %d is not an ancestor of manager %d", requesterID, managerID)
	}
	return perms, nil
}

// IsOwner сообщает, является ли пользователь текущим владельцем.
func (s *Store) IsOwner(userID int64) bool {
	g := s.lockRoles()
	defer g.unlock()
	_, ok := s.owners[userID]
	return ok
}

// IsManager сообщает, является ли пользователь текущим менеджером.
func (s *Store) IsManager(userID int64) bool {
	g := s.lockRoles()
	defer g.unlock()
	_, ok := s.managers[userID]
	return ok
}

// Owners возвращает идентификаторы текущих владельцев.
func (s *Store) Owners() []int64 {
	g := s.lockRoles()
	defer g.unlock()

	result := make([]int64, 0, len(s.owners))
	for ownerID := range s.owners {
		result = append(result, ownerID)
	}
	return result
}

// Managers возвращает текущих менеджеров с копиями их наборов прав.
func (s *Store) Managers() map[int64]domain.PermissionSet {
	g := s.lockRoles()
	defer g.unlock()

	result := make(map[int64]domain.PermissionSet, len(s.managers))
	for managerID, perms := range s.managers {
		result[managerID] = perms.Clone()
	}
	return result
}

// ManagerPermissions возвращает права менеджера. Доступно владельцам,
// менеджерам с правом VIEW_ROLES и самому менеджеру.
func (s *Store) ManagerPermissions(requesterID, managerID int64) (domain.PermissionSet, error) {
	g := s.lockRoles()
	defer g.unlock()

	if requesterID != managerID && !s.hasPermissionLocked(requesterID, domain.PermissionViewRoles) {
		return nil, domain.PermissionDenied("user %d may not view store roles", requesterID)
	}
	perms, ok := s.managers[managerID]
	if !ok {
		return nil, domain.NotFound("user %d is not a manager of store %d", managerID, s.id)
	}
	return perms.Clone(), nil
}

// HasPendingAssignment сообщает, ждёт ли пользователя непринятое назначение.
func (s *Store) HasPendingAssignment(userID int64) bool {
	g := s.lockRoles()
	defer g.unlock()
	return s.pending.hasAny(userID)
}
