package repository

import (
	"context"
	"database/sql"

	"github.com/expoflow/exhibition-backend/internal/model"
)

// CompanyRepo provides read access to the companies table.
// Companies are managed by the intake/approval flows; the engine
// only needs profile lookups when building synthetic requests.
type CompanyRepo struct {
	db *sql.DB
}

// NewCompanyRepo returns a new CompanyRepo bound to the given database.
func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{db: db} }

// GetByID fetches a single company.  sql.ErrNoRows is returned
// when it does not exist.
func (r *CompanyRepo) GetByID(ctx context.Context, id uint64) (model.Company, error) {
	const q = `SELECT id, name, size, status, priority_score, preferred_zone, created_at, updated_at
	           FROM companies WHERE id = ?`
	var c model.Company
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.Size, &c.Status, &c.PriorityScore, &c.PreferredZone, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// GetByIDTx is GetByID within an existing transaction, used by the
// assignment store so profile reads share the run's snapshot.
func (r *CompanyRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Company, error) {
	const q = `SELECT id, name, size, status, priority_score, preferred_zone, created_at, updated_at
	           FROM companies WHERE id = ?`
	var c model.Company
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.Size, &c.Status, &c.PriorityScore, &c.PreferredZone, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}
