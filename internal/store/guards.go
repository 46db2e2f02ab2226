package store

// Дисциплина блокировок агрегата: roles-лок всегда берётся раньше inventory-лока,
// inventory-лок отпускается раньше roles-лока. Порядок закреплён на уровне типов:
// inventoryGuard для операций с обеими блокировками можно получить только из
// живого rolesGuard, обратного пути (из inventory к roles) не существует.

// rolesGuard — токен удержания roles-лока (дерево ролей, владельцы, менеджеры,
// pending-назначения, офферы, журнал сообщений).
type rolesGuard struct {
	s *Store
}

// lockRoles захватывает roles-лок.
func (s *Store) lockRoles() rolesGuard {
	s.rolesMu.Lock()
	return rolesGuard{s: s}
}

// unlock отпускает roles-лок. К этому моменту inventory-лок должен быть уже отпущен,
// что гарантируется LIFO-порядком defer у вызывающих.
func (g rolesGuard) unlock() {
	g.s.rolesMu.Unlock()
}

// lockInventory захватывает inventory-лок, уже удерживая roles-лок.
// Единственный способ держать обе блокировки одновременно.
func (g rolesGuard) lockInventory() inventoryGuard {
	g.s.invMu.Lock()
	return inventoryGuard{s: g.s}
}

// inventoryGuard — токен удержания inventory-лока (каталог товаров и аукционы).
type inventoryGuard struct {
	s *Store
}

// lockInventory захватывает только inventory-лок для операций, которым roles-состояние не нужно.
func (s *Store) lockInventory() inventoryGuard {
	s.invMu.Lock()
	return inventoryGuard{s: s}
}

// unlock отпускает inventory-лок.
func (g inventoryGuard) unlock() {
	g.s.invMu.Unlock()
}
