package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
)

type kitRepository struct {
	db DBTX
}

func NewKitRepository(db DBTX) repository.KitRepository {
	return &kitRepository{db: db}
}

func (r *kitRepository) CreateKit(ctx context.Context, k *domain.Kit) error {
	query := `INSERT INTO kits (name, description, deposit_amount, quantity_total, quantity_available, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, k.Name, k.Description, k.DepositAmount, k.QuantityTotal, k.QuantityAvailable, k.Status, time.Now()).Scan(&k.ID)
}

func (r *kitRepository) GetKit(ctx context.Context, id int32) (*domain.Kit, error) {
	k := &domain.Kit{}
	query := `SELECT id, name, COALESCE(description, ''), deposit_amount, quantity_total, quantity_available, status, created_at
	          FROM kits WHERE id = $1 AND deleted_at IS NULL`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&k.ID, &k.Name, &k.Description, &k.DepositAmount, &k.QuantityTotal, &k.QuantityAvailable, &k.Status, &k.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("kit %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return k, nil
}

func (r *kitRepository) UpdateKit(ctx context.Context, k *domain.Kit) error {
	query := `UPDATE kits SET name=$1, description=$2, deposit_amount=$3, quantity_total=$4, quantity_available=$5, status=$6 WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query, k.Name, k.Description, k.DepositAmount, k.QuantityTotal, k.QuantityAvailable, k.Status, k.ID)
	return err
}

func (r *kitRepository) ListKits(ctx context.Context, page, pageSize int32) ([]domain.Kit, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM kits WHERE deleted_at IS NULL`).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, name, COALESCE(description, ''), deposit_amount, quantity_total, quantity_available, status, created_at
	          FROM kits WHERE deleted_at IS NULL ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var kits []domain.Kit
	for rows.Next() {
		var k domain.Kit
		if err := rows.Scan(&k.ID, &k.Name, &k.Description, &k.DepositAmount, &k.QuantityTotal, &k.QuantityAvailable, &k.Status, &k.CreatedAt); err != nil {
			return nil, 0, err
		}
		kits = append(kits, k)
	}
	return kits, count, rows.Err()
}

func (r *kitRepository) CreateComponent(ctx context.Context, c *domain.KitComponent) error {
	query := `INSERT INTO kit_components (kit_id, name, description, price_per_unit, quantity_total, quantity_available, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return r.db.QueryRowContext(ctx, query, c.KitID, c.Name, c.Description, c.PricePerUnit, c.QuantityTotal, c.QuantityAvailable, c.Status, time.Now()).Scan(&c.ID)
}

func (r *kitRepository) GetComponent(ctx context.Context, id int32) (*domain.KitComponent, error) {
	c := &domain.KitComponent{}
	query := `SELECT id, kit_id, name, COALESCE(description, ''), price_per_unit, quantity_total, quantity_available, status, created_at
	          FROM kit_components WHERE id = $1 AND deleted_at IS NULL`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.KitID, &c.Name, &c.Description, &c.PricePerUnit, &c.QuantityTotal, &c.QuantityAvailable, &c.Status, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("component %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *kitRepository) UpdateComponent(ctx context.Context, c *domain.KitComponent) error {
	query := `UPDATE kit_components SET kit_id=$1, name=$2, description=$3, price_per_unit=$4, quantity_total=$5, quantity_available=$6, status=$7 WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query, c.KitID, c.Name, c.Description, c.PricePerUnit, c.QuantityTotal, c.QuantityAvailable, c.Status, c.ID)
	return err
}

func (r *kitRepository) ListComponents(ctx context.Context, kitID *int32, page, pageSize int32) ([]domain.KitComponent, int32, error) {
	where := `WHERE deleted_at IS NULL AND kit_id IS NULL`
	args := []interface{}{}
	if kitID != nil {
		where = `WHERE deleted_at IS NULL AND kit_id = $1`
		args = append(args, *kitID)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM kit_components `+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`SELECT id, kit_id, name, COALESCE(description, ''), price_per_unit, quantity_total, quantity_available, status, created_at
	          FROM kit_components %s ORDER BY id LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comps []domain.KitComponent
	for rows.Next() {
		var c domain.KitComponent
		if err := rows.Scan(&c.ID, &c.KitID, &c.Name, &c.Description, &c.PricePerUnit, &c.QuantityTotal, &c.QuantityAvailable, &c.Status, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		comps = append(comps, c)
	}
	return comps, count, rows.Err()
}

// ReserveKit decrements availability only when enough units remain; a
// zero-row update means a concurrent approval took the stock first.
func (r *kitRepository) ReserveKit(ctx context.Context, kitID, quantity int32) error {
	query := `UPDATE kits SET quantity_available = quantity_available - $1
	          WHERE id = $2 AND deleted_at IS NULL AND quantity_available >= $1`
	return r.guardedUpdate(ctx, query, quantity, kitID)
}

func (r *kitRepository) ReleaseKit(ctx context.Context, kitID, quantity int32) error {
	query := `UPDATE kits SET quantity_available = LEAST(quantity_available + $1, quantity_total) WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, quantity, kitID)
	return err
}

func (r *kitRepository) ReserveComponent(ctx context.Context, componentID, quantity int32) error {
	query := `UPDATE kit_components SET quantity_available = quantity_available - $1
	          WHERE id = $2 AND deleted_at IS NULL AND quantity_available >= $1`
	return r.guardedUpdate(ctx, query, quantity, componentID)
}

func (r *kitRepository) ReleaseComponent(ctx context.Context, componentID, quantity int32) error {
	query := `UPDATE kit_components SET quantity_available = LEAST(quantity_available + $1, quantity_total) WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, quantity, componentID)
	return err
}

func (r *kitRepository) guardedUpdate(ctx context.Context, query string, quantity, id int32) error {
	res, err := r.db.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("target %d, quantity %d: %w", id, quantity, domain.ErrInsufficientInventory)
	}
	return nil
}
