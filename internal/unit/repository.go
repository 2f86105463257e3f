package unit

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
	Create(ctx context.Context, u *Unit) error
	GetByID(ctx context.Context, id string) (*Unit, error)
	List(ctx context.Context, filter Filter) ([]*Unit, int, error)
	ListActive(ctx context.Context) ([]*Unit, error)
	Update(ctx context.Context, u *Unit) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var unitColumns = []string{"id", "name", "max_occupancy", "base_price", "active", "created_at", "updated_at"}

func scanUnit(row pgx.Row, extra ...any) (*Unit, error) {
	var u Unit
	dest := append([]any{&u.ID, &u.Name, &u.MaxOccupancy, &u.BasePrice, &u.Active, &u.CreatedAt, &u.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *pgxRepository) Create(ctx context.Context, u *Unit) error {
	query, args, err := psql.Insert("public.units").
		Columns("name", "max_occupancy", "base_price", "active").
		Values(u.Name, u.MaxOccupancy, u.BasePrice, u.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create unit query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return fmt.Errorf("create unit failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Unit, error) {
	query, args, err := psql.Select(unitColumns...).
		From("public.units").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get unit query failed: %w", err)
	}

	u, err := scanUnit(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get unit failed: %w", err)
	}
	return u, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Unit, int, error) {
	query := psql.Select(append(unitColumns, "count(*) OVER() AS total_count")...).
		From("public.units")

	if filter.Active != nil {
		query = query.Where(squirrel.Eq{"active": *filter.Active})
	}

	orderBy := "created_at"
	if filter.SortBy != "" {
		orderBy = filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list units query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list units failed: %w", err)
	}
	defer rows.Close()

	var units []*Unit
	var total int
	for rows.Next() {
		u, err := scanUnit(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan unit failed: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list units failed: %w", err)
	}

	return units, total, nil
}

func (r *pgxRepository) ListActive(ctx context.Context) ([]*Unit, error) {
	query, args, err := psql.Select(unitColumns...).
		From("public.units").
		Where(squirrel.Eq{"active": true}).
		OrderBy("max_occupancy ASC", "name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list active units query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active units failed: %w", err)
	}
	defer rows.Close()

	var units []*Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit failed: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active units failed: %w", err)
	}
	return units, nil
}

func (r *pgxRepository) Update(ctx context.Context, u *Unit) error {
	query, args, err := psql.Update("public.units").
		Set("name", u.Name).
		Set("max_occupancy", u.MaxOccupancy).
		Set("base_price", u.BasePrice).
		Set("active", u.Active).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": u.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update unit query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update unit failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.units").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete unit query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		// Reservations and overrides reference units with ON DELETE RESTRICT.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrInUse.With(err)
		}
		return fmt.Errorf("delete unit failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
