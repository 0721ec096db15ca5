package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fleetlog/hos-logbook/internal/domain"
)

// LogRepo defines the persistence operations for DailyLogs and their duty segments.
// A log and its segments are always written together in one transaction.
type LogRepo interface {
	// Create inserts a log and its segments. Returns domain.ErrConflict if the
	// driver already has a log for that date.
	Create(ctx context.Context, log domain.DailyLog) (domain.DailyLog, error)

	// GetByID returns domain.ErrNotFound if no log has that ID.
	GetByID(ctx context.Context, id uuid.UUID) (domain.DailyLog, error)

	// List returns every log matching f, newest date first.
	// f.Compliant is ignored; compliance is derived, not stored.
	List(ctx context.Context, f domain.LogFilter) ([]domain.DailyLog, error)

	// ListPaged returns one page of List plus the total number of matches.
	ListPaged(ctx context.Context, f domain.LogFilter, p domain.PaginationParams) ([]domain.DailyLog, int64, error)

	// Update overwrites the log fields and replaces all of its segments.
	// Returns domain.ErrNotFound if no log has that ID.
	Update(ctx context.Context, log domain.DailyLog) (domain.DailyLog, error)

	// Delete removes a log and its segments.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgLogRepo struct {
	db db
}

// NewLogRepo constructs a LogRepo. In production pass *pgxpool.Pool;
// in tests pass a pgx.Tx for rollback isolation.
func NewLogRepo(db db) LogRepo {
	return &pgLogRepo{db: db}
}

const logColumns = `id, driver_id, log_date, remarks, shipping_documents, co_driver_name,
	vehicle_numbers, total_miles_today, total_miles_yesterday, created_at, updated_at`

const logFilterWhere = `
	WHERE (@driver_id::uuid IS NULL OR driver_id = @driver_id)
	  AND (@start_date::date IS NULL OR log_date >= @start_date)
	  AND (@end_date::date IS NULL OR log_date <= @end_date)`

var segmentColumns = []string{
	"log_id", "position", "status", "start_hour", "start_minute",
	"end_hour", "end_minute", "location", "lat", "lng",
}

func (r *pgLogRepo) Create(ctx context.Context, log domain.DailyLog) (domain.DailyLog, error) {
	const q = `
		INSERT INTO daily_logs (driver_id, log_date, remarks, shipping_documents, co_driver_name,
		                        vehicle_numbers, total_miles_today, total_miles_yesterday)
		VALUES (@driver_id, @log_date, @remarks, @shipping_documents, @co_driver_name,
		        @vehicle_numbers, @total_miles_today, @total_miles_yesterday)
		RETURNING ` + logColumns

	var result domain.DailyLog
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		created, err := scanLog(tx.QueryRow(ctx, q, logArgs(log)))
		if err != nil {
			return err
		}
		if err := insertSegments(ctx, tx, created.ID, log.Segments); err != nil {
			return err
		}
		created.Segments = append([]domain.DutySegment{}, log.Segments...)
		result = created
		return nil
	})
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("repo.LogRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgLogRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.DailyLog, error) {
	const q = `SELECT ` + logColumns + ` FROM daily_logs WHERE id = @id`

	log, err := scanLog(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("repo.LogRepo.GetByID: %w", err)
	}
	logs := []domain.DailyLog{log}
	if err := r.attachSegments(ctx, logs); err != nil {
		return domain.DailyLog{}, fmt.Errorf("repo.LogRepo.GetByID: %w", err)
	}
	return logs[0], nil
}

func (r *pgLogRepo) List(ctx context.Context, f domain.LogFilter) ([]domain.DailyLog, error) {
	const q = `SELECT ` + logColumns + ` FROM daily_logs` + logFilterWhere + `
		ORDER BY log_date DESC, created_at DESC, id`

	logs, err := r.queryLogs(ctx, q, filterArgs(f))
	if err != nil {
		return nil, fmt.Errorf("repo.LogRepo.List: %w", err)
	}
	return logs, nil
}

func (r *pgLogRepo) ListPaged(ctx context.Context, f domain.LogFilter, p domain.PaginationParams) ([]domain.DailyLog, int64, error) {
	const countQ = `SELECT count(*) FROM daily_logs` + logFilterWhere
	const q = `SELECT ` + logColumns + ` FROM daily_logs` + logFilterWhere + `
		ORDER BY log_date DESC, created_at DESC, id
		LIMIT @limit OFFSET @offset`

	args := filterArgs(f)

	var total int64
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.LogRepo.ListPaged: count: %w", err)
	}

	args["limit"] = p.Limit
	args["offset"] = p.Offset()
	logs, err := r.queryLogs(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.LogRepo.ListPaged: %w", err)
	}
	return logs, total, nil
}

func (r *pgLogRepo) Update(ctx context.Context, log domain.DailyLog) (domain.DailyLog, error) {
	const q = `
		UPDATE daily_logs
		SET driver_id             = @driver_id,
		    log_date              = @log_date,
		    remarks               = @remarks,
		    shipping_documents    = @shipping_documents,
		    co_driver_name        = @co_driver_name,
		    vehicle_numbers       = @vehicle_numbers,
		    total_miles_today     = @total_miles_today,
		    total_miles_yesterday = @total_miles_yesterday,
		    updated_at            = now()
		WHERE id = @id
		RETURNING ` + logColumns

	args := logArgs(log)
	args["id"] = log.ID

	var result domain.DailyLog
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		updated, err := scanLog(tx.QueryRow(ctx, q, args))
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM duty_segments WHERE log_id = @id`, pgx.NamedArgs{"id": log.ID}); err != nil {
			return fmt.Errorf("clear segments: %w", err)
		}
		if err := insertSegments(ctx, tx, updated.ID, log.Segments); err != nil {
			return err
		}
		updated.Segments = append([]domain.DutySegment{}, log.Segments...)
		result = updated
		return nil
	})
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("repo.LogRepo.Update: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgLogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM daily_logs WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.LogRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.LogRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgLogRepo) queryLogs(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.DailyLog, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []domain.DailyLog{}
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if err := r.attachSegments(ctx, logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// attachSegments loads the segments of every log in one query and assigns
// them in position order.
func (r *pgLogRepo) attachSegments(ctx context.Context, logs []domain.DailyLog) error {
	if len(logs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(logs))
	index := make(map[uuid.UUID]int, len(logs))
	for i, l := range logs {
		ids[i] = l.ID
		index[l.ID] = i
		logs[i].Segments = []domain.DutySegment{}
	}

	const q = `
		SELECT log_id, status, start_hour, start_minute, end_hour, end_minute, location, lat, lng
		FROM duty_segments
		WHERE log_id = ANY(@ids)
		ORDER BY log_id, position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return fmt.Errorf("segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		logID, seg, err := scanSegment(rows)
		if err != nil {
			return fmt.Errorf("segments: scan: %w", err)
		}
		i := index[logID]
		logs[i].Segments = append(logs[i].Segments, seg)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("segments: rows: %w", err)
	}
	return nil
}

func insertSegments(ctx context.Context, tx pgx.Tx, logID uuid.UUID, segs []domain.DutySegment) error {
	if len(segs) == 0 {
		return nil
	}
	rows := make([][]any, len(segs))
	for i, s := range segs {
		var lat, lng *float64
		if s.Coordinate != nil {
			lat, lng = &s.Coordinate.Lat, &s.Coordinate.Lng
		}
		rows[i] = []any{
			logID, i, s.Status.String(),
			int16(s.StartHour), int16(s.StartMinute), int16(s.EndHour), int16(s.EndMinute),
			s.Location, lat, lng,
		}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"duty_segments"}, segmentColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("insert segments: %w", err)
	}
	return nil
}

func logArgs(l domain.DailyLog) pgx.NamedArgs {
	return pgx.NamedArgs{
		"driver_id":             l.DriverID,
		"log_date":              pgtype.Date{Time: l.Date, Valid: true},
		"remarks":               l.Remarks,
		"shipping_documents":    l.ShippingDocuments,
		"co_driver_name":        l.CoDriverName,
		"vehicle_numbers":       l.VehicleNumbers,
		"total_miles_today":     l.TotalMilesToday,
		"total_miles_yesterday": l.TotalMilesYesterday,
	}
}

func filterArgs(f domain.LogFilter) pgx.NamedArgs {
	return pgx.NamedArgs{
		"driver_id":  f.DriverID,
		"start_date": optionalDate(f.StartDate),
		"end_date":   optionalDate(f.EndDate),
	}
}

func optionalDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

func scanLog(s scanner) (domain.DailyLog, error) {
	var (
		l        domain.DailyLog
		id       pgtype.UUID
		driverID pgtype.UUID
		date     pgtype.Date
	)
	err := s.Scan(&id, &driverID, &date, &l.Remarks, &l.ShippingDocuments, &l.CoDriverName,
		&l.VehicleNumbers, &l.TotalMilesToday, &l.TotalMilesYesterday, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DailyLog{}, domain.ErrNotFound
		}
		return domain.DailyLog{}, err
	}
	l.ID = uuid.UUID(id.Bytes)
	l.DriverID = uuid.UUID(driverID.Bytes)
	l.Date = date.Time
	return l, nil
}

func scanSegment(s scanner) (uuid.UUID, domain.DutySegment, error) {
	var (
		seg            domain.DutySegment
		logID          pgtype.UUID
		status         string
		sh, sm, eh, em int16
		lat, lng       *float64
	)
	if err := s.Scan(&logID, &status, &sh, &sm, &eh, &em, &seg.Location, &lat, &lng); err != nil {
		return uuid.UUID{}, domain.DutySegment{}, err
	}
	st, err := domain.ParseDutyStatus(status)
	if err != nil {
		return uuid.UUID{}, domain.DutySegment{}, err
	}
	seg.Status = st
	seg.StartHour, seg.StartMinute = int(sh), int(sm)
	seg.EndHour, seg.EndMinute = int(eh), int(em)
	if lat != nil && lng != nil {
		seg.Coordinate = &domain.Coordinate{Lat: *lat, Lng: *lng}
	}
	return uuid.UUID(logID.Bytes), seg, nil
}
