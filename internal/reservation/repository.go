package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
)

type Repository interface {
	// Create inserts the reservation after re-checking, under a lock on the unit
	// row, that no occupying reservation overlaps it. Returns ErrConflict otherwise.
	Create(ctx context.Context, res *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// ListOccupying returns pending and confirmed reservations that overlap window,
	// for every unit when unitID is empty.
	ListOccupying(ctx context.Context, unitID string, window daterange.DateRange) ([]*Reservation, error)
	HasOccupying(ctx context.Context, unitID string) (bool, error)

	// UpdateStatus moves a reservation from one status to the next. It returns
	// ErrInvalidTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, res *Reservation, from Status) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var reservationColumns = []string{
	"r.id", "r.unit_id", "u.name", "r.check_in", "r.check_out", "r.guests",
	"r.guest_name", "r.guest_contact", "r.total_price", "r.status", "r.created_at", "r.updated_at",
}

var occupyingStatuses = []string{string(StatusPending), string(StatusConfirmed)}

func scanReservation(row pgx.Row, extra ...any) (*Reservation, error) {
	var res Reservation
	dest := append([]any{
		&res.ID, &res.UnitID, &res.UnitName, &res.CheckIn, &res.CheckOut, &res.Guests,
		&res.GuestName, &res.GuestContact, &res.TotalPrice, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *pgxRepository) Create(ctx context.Context, res *Reservation) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin create reservation failed: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Serialize writers per unit so the conflict check below sees every committed stay.
	lockQuery, lockArgs, err := psql.Select("name").
		From("public.units").
		Where(squirrel.Eq{"id": res.UnitID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("build lock unit query failed: %w", err)
	}
	if err := tx.QueryRow(ctx, lockQuery, lockArgs...).Scan(&res.UnitName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUnitNotFound
		}
		return fmt.Errorf("lock unit failed: %w", err)
	}

	stay := res.Range()
	existing, err := occupiedRanges(ctx, tx, res.UnitID, stay)
	if err != nil {
		return err
	}
	if len(FindConflicts(stay, existing)) > 0 {
		return ErrConflict
	}

	query, args, err := psql.Insert("public.reservations").
		Columns("unit_id", "check_in", "check_out", "guests", "guest_name", "guest_contact", "total_price", "status").
		Values(res.UnitID, res.CheckIn, res.CheckOut, res.Guests, res.GuestName, res.GuestContact, res.TotalPrice, res.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}
	if err := tx.QueryRow(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
			return ErrConflict.With(err)
		}
		return fmt.Errorf("create reservation failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create reservation failed: %w", err)
	}
	return nil
}

func occupiedRanges(ctx context.Context, tx pgx.Tx, unitID string, window daterange.DateRange) ([]daterange.DateRange, error) {
	query, args, err := psql.Select("check_in", "check_out").
		From("public.reservations").
		Where(squirrel.Eq{"unit_id": unitID, "status": occupyingStatuses}).
		Where(squirrel.Lt{"check_in": window.End}).
		Where(squirrel.Gt{"check_out": window.Start}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build occupied ranges query failed: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list occupied ranges failed: %w", err)
	}
	defer rows.Close()

	var ranges []daterange.DateRange
	for rows.Next() {
		var dr daterange.DateRange
		if err := rows.Scan(&dr.Start, &dr.End); err != nil {
			return nil, fmt.Errorf("scan occupied range failed: %w", err)
		}
		ranges = append(ranges, dr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list occupied ranges failed: %w", err)
	}
	return ranges, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	query, args, err := psql.Select(reservationColumns...).
		From("public.reservations r").
		Join("public.units u ON r.unit_id = u.id").
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	res, err := scanReservation(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	query := psql.Select(append(reservationColumns, "count(*) OVER() AS total_count")...).
		From("public.reservations r").
		Join("public.units u ON r.unit_id = u.id")

	if filter.UnitID != "" {
		query = query.Where(squirrel.Eq{"r.unit_id": filter.UnitID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"r.status": filter.Status})
	}
	// Date filtering keeps every reservation intersecting [From, To).
	if filter.From != nil {
		query = query.Where(squirrel.Gt{"r.check_out": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"r.check_in": *filter.To})
	}

	orderBy := "r.check_in"
	if filter.SortBy != "" {
		orderBy = "r." + filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy+" "+orderDir, "r.id ASC")

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
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	var total int
	for rows.Next() {
		res, err := scanReservation(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	return reservations, total, nil
}

func (r *pgxRepository) ListOccupying(ctx context.Context, unitID string, window daterange.DateRange) ([]*Reservation, error) {
	query := psql.Select(reservationColumns...).
		From("public.reservations r").
		Join("public.units u ON r.unit_id = u.id").
		Where(squirrel.Eq{"r.status": occupyingStatuses}).
		Where(squirrel.Lt{"r.check_in": window.End}).
		Where(squirrel.Gt{"r.check_out": window.Start}).
		OrderBy("r.unit_id", "r.check_in")
	if unitID != "" {
		query = query.Where(squirrel.Eq{"r.unit_id": unitID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list occupying reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list occupying reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list occupying reservations failed: %w", err)
	}
	return reservations, nil
}

func (r *pgxRepository) HasOccupying(ctx context.Context, unitID string) (bool, error) {
	sub, args, err := psql.Select("1").
		From("public.reservations").
		Where(squirrel.Eq{"unit_id": unitID, "status": occupyingStatuses}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build has occupying query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check occupying reservations failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, res *Reservation, from Status) error {
	query, args, err := psql.Update("public.reservations").
		Set("status", res.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": res.ID, "status": from}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update reservation status query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&res.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either gone or changed concurrently.
			return ErrInvalidTransition
		}
		return fmt.Errorf("update reservation status failed: %w", err)
	}
	return nil
}
