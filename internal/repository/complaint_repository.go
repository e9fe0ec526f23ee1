package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bus-complaint-service/internal/domain"
)

// ComplaintStats aggregates counts for the admin dashboard.
type ComplaintStats struct {
	Total    int64
	Pending  int64
	Resolved int64
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error)
	ListAll(ctx context.Context) ([]domain.Complaint, error)
	// ListByRouteAndDay returns complaints on the route whose incident date
	// falls within [day, day+1d).
	ListByRouteAndDay(ctx context.Context, route string, day time.Time) ([]domain.Complaint, error)
	// UpdateStatus atomically sets the status and advances updated_at,
	// returning the updated row. pgx.ErrNoRows when the id does not exist.
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error)
	Stats(ctx context.Context) (*ComplaintStats, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, user_id, student_id, bus_route, title, description, location,
               status, incident_date, created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (user_id, student_id, bus_route, title, description, location, status, incident_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.UserID,
		complaint.StudentID,
		complaint.BusRoute,
		complaint.Title,
		complaint.Description,
		complaint.Location,
		complaint.Status,
		complaint.IncidentDate,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`

	var complaint domain.Complaint
	if err := scanComplaint(r.pool.QueryRow(ctx, query, id), &complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *complaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *complaintRepository) ListByRouteAndDay(ctx context.Context, route string, day time.Time) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + `
        FROM complaints
        WHERE bus_route=$1 AND incident_date >= $2 AND incident_date < $2 + interval '1 day'`
	return r.list(ctx, query, route, day)
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	query := `
        UPDATE complaints SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + complaintColumns

	var complaint domain.Complaint
	if err := scanComplaint(r.pool.QueryRow(ctx, query, status, id), &complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) Stats(ctx context.Context) (*ComplaintStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status=$1),
               COUNT(*) FILTER (WHERE status=$2)
        FROM complaints`

	var stats ComplaintStats
	if err := r.pool.QueryRow(ctx, query,
		domain.ComplaintStatusPending,
		domain.ComplaintStatusResolved,
	).Scan(&stats.Total, &stats.Pending, &stats.Resolved); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *complaintRepository) list(ctx context.Context, query string, args ...any) ([]domain.Complaint, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := scanComplaint(rows, &complaint); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}

func scanComplaint(row pgx.Row, complaint *domain.Complaint) error {
	return row.Scan(
		&complaint.ID,
		&complaint.UserID,
		&complaint.StudentID,
		&complaint.BusRoute,
		&complaint.Title,
		&complaint.Description,
		&complaint.Location,
		&complaint.Status,
		&complaint.IncidentDate,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	)
}
