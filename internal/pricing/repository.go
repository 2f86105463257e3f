package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, o *PriceOverride) error
	GetByID(ctx context.Context, id string) (*PriceOverride, error)
	List(ctx context.Context, filter Filter) ([]*PriceOverride, error)
	Update(ctx context.Context, o *PriceOverride) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var overrideColumns = []string{
	"id", "unit_id", "start_date", "end_date", "price", "priority", "active", "category", "created_at", "updated_at",
}

func scanOverride(row pgx.Row) (*PriceOverride, error) {
	var o PriceOverride
	if err := row.Scan(
		&o.ID, &o.UnitID, &o.Start, &o.End, &o.Price, &o.Priority, &o.Active, &o.Category, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *pgxRepository) Create(ctx context.Context, o *PriceOverride) error {
	query, args, err := psql.Insert("public.price_overrides").
		Columns("unit_id", "start_date", "end_date", "price", "priority", "active", "category").
		Values(o.UnitID, o.Start, o.End, o.Price, o.Priority, o.Active, o.Category).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create price override query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ForeignKeyViolation:
				return ErrUnitNotFound.With(err)
			case pgerrcode.UniqueViolation:
				return ErrDuplicateOverride.With(err)
			}
		}
		return fmt.Errorf("create price override failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*PriceOverride, error) {
	query, args, err := psql.Select(overrideColumns...).
		From("public.price_overrides").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get price override query failed: %w", err)
	}

	o, err := scanOverride(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get price override failed: %w", err)
	}
	return o, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*PriceOverride, error) {
	query := psql.Select(overrideColumns...).
		From("public.price_overrides").
		OrderBy("start_date ASC", "priority DESC", "created_at ASC", "id ASC")

	if filter.UnitID != "" {
		query = query.Where(squirrel.Eq{"unit_id": filter.UnitID})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"active": true})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list price overrides query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list price overrides failed: %w", err)
	}
	defer rows.Close()

	var overrides []*PriceOverride
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price override failed: %w", err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list price overrides failed: %w", err)
	}
	return overrides, nil
}

func (r *pgxRepository) Update(ctx context.Context, o *PriceOverride) error {
	query, args, err := psql.Update("public.price_overrides").
		Set("start_date", o.Start).
		Set("end_date", o.End).
		Set("price", o.Price).
		Set("priority", o.Priority).
		Set("active", o.Active).
		Set("category", o.Category).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": o.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update price override query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateOverride.With(err)
		}
		return fmt.Errorf("update price override failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.price_overrides").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete price override query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete price override failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
