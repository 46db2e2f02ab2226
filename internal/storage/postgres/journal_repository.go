package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

type journalRepository struct {
	db *sql.DB
}

// NewJournalRepository создаёт PostgreSQL-реализацию JournalRepository.
func NewJournalRepository(store *Store) domain.JournalRepository {
	return &journalRepository{db: store.DB()}
}

func (r *journalRepository) Append(entry domain.JournalEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if entry.Occurred.IsZero() {
		entry.Occurred = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO store_journal (id, store_id, type, actor_id, detail, occurred)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, entry.ID, entry.StoreID, entry.Type, entry.ActorID, entry.Detail, entry.Occurred); err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}

	return nil
}

func (r *journalRepository) List(storeID int64) ([]domain.JournalEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, type, actor_id, detail, occurred
		FROM store_journal
		WHERE store_id = $1
		ORDER BY occurred ASC, id ASC
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0)
	for rows.Next() {
		var entry domain.JournalEntry
		if err := rows.Scan(&entry.ID, &entry.StoreID, &entry.Type, &entry.ActorID, &entry.Detail, &entry.Occurred); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}

	return entries, nil
}

var _ domain.JournalRepository = (*journalRepository)(nil)
