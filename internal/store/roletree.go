package store

import "github.com/vladislavdragonenkov/marketplace/internal/domain"

// noParent — сентинел «у узла нет родителя» (корень дерева).
const noParent int64 = -1

// roleNode — узел дерева назначений. Родитель и дети хранятся как идентификаторы,
// а не живые ссылки: сами узлы лежат в арене roleTree.nodes.
type roleNode struct {
	userID   int64
	parentID int64
	children map[int64]struct{}
}

// roleTree — дерево назначений магазина с корнем-основателем.
// Узел присутствует в дереве тогда и только тогда, когда пользователь
// сейчас владелец или менеджер. Все операции выполняются под roles-локом
// агрегата, собственной синхронизации у дерева нет.
type roleTree struct {
	rootID int64
	nodes  map[int64]*roleNode
}

// newRoleTree создаёт дерево с единственным корнем — основателем магазина.
func newRoleTree(founderID int64) *roleTree {
	return &roleTree{
		rootID: founderID,
		nodes: map[int64]*roleNode{
			founderID: {
				userID:   founderID,
				parentID: noParent,
				children: make(map[int64]struct{}),
			},
		},
	}
}

// contains проверяет, есть ли узел пользователя в дереве.
func (t *roleTree) contains(userID int64) bool {
	_, ok := t.nodes[userID]
	return ok
}

// add подвешивает нового ребёнка под существующего родителя.
// Отсутствие родителя — нарушенный инвариант: валидированный назначающий
// обязан присутствовать в дереве.
func (t *roleTree) add(parentID, childID int64) error {
	parent, ok := t.nodes[parentID]
	if !ok {
		return domain.Inconsistency("role tree: appointor %d has no node", parentID)
	}
	if _, exists := t.nodes[childID]; exists {
		return domain.Inconsistency("role tree: node %d already exists", childID)
	}

	t.nodes[childID] = &roleNode{
		userID:   childID,
		parentID: parentID,
		children: make(map[int64]struct{}),
	}
	parent.children[childID] = struct{}{}
	return nil
}

// isChild отвечает, находится ли candidate в поддереве ancestor (включая прямого ребёнка).
// Сам по себе узел своим предком не считается.
func (t *roleTree) isChild(ancestorID, candidateID int64) bool {
	node, ok := t.nodes[candidateID]
	if !ok {
		return false
	}
	for node.parentID != noParent {
		if node.parentID == ancestorID {
			return true
		}
		node = t.nodes[node.parentID]
		if node == nil {
			return false
		}
	}
	return false
}

// hasChildren сообщает, есть ли у узла потомки.
func (t *roleTree) hasChildren(userID int64) bool {
	node, ok := t.nodes[userID]
	return ok && len(node.children) > 0
}

// descendants возвращает всех потомков узла вместе с самим узлом.
func (t *roleTree) descendants(userID int64) []int64 {
	node, ok := t.nodes[userID]
	if !ok {
		return nil
	}

	// Обход в ширину по арене, как по графу отношений.
	result := []int64{node.userID}
	queue := make([]int64, 0, len(node.children))
	for child := range node.children {
		queue = append(queue, child)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		childNode, ok := t.nodes[current]
		if !ok {
			continue
		}
		result = append(result, current)
		for child := range childNode.children {
			queue = append(queue, child)
		}
	}
	return result
}

// removeSubtree отцепляет узел от родителя и выбрасывает всё его поддерево.
// Возвращает идентификаторы всех удалённых узлов (включая сам узел):
// вызывающий обязан вычистить их из коллекций владельцев/менеджеров.
func (t *roleTree) removeSubtree(userID int64) ([]int64, error) {
	node, ok := t.nodes[userID]
	if !ok {
		return nil, domain.Inconsistency("role tree: node %d expected but missing", userID)
	}
	if userID == t.rootID {
		return nil, domain.Inconsistency("role tree: root node cannot be removed")
	}

	removed := t.descendants(userID)
	if parent, ok := t.nodes[node.parentID]; ok {
		delete(parent.children, userID)
	}
	for _, id := range removed {
		delete(t.nodes, id)
	}
	return removed, nil
}

// size возвращает количество узлов в дереве.
func (t *roleTree) size() int {
	return len(t.nodes)
}
