package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/repositories"
	"github.com/vetconnect/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vetconnect/backend/pkg/errors"
)

const searchAnalyticsTable = "search_analytics"

// SearchAnalyticsAdapter stores search events in PostgreSQL
type SearchAnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.SearchAnalyticsRepository = (*SearchAnalyticsAdapter)(nil)

// NewSearchAnalyticsAdapter creates a new search analytics adapter
func NewSearchAnalyticsAdapter(client *postgres.Client) *SearchAnalyticsAdapter {
	return &SearchAnalyticsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// LogEvent inserts a search event, assigning an ID and timestamp when missing
func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query, args, err := a.db.Insert(searchAnalyticsTable).Rows(goqu.Record{
		"id":             event.ID,
		"query":          event.Query,
		"specialties":    pq.Array(event.Specialties),
		"emergency_only": event.EmergencyOnly,
		"open_now":       event.OpenNow,
		"radius_km":      event.RadiusKm,
		"result_count":   event.ResultCount,
		"total_count":    event.TotalCount,
		"excluded_count": event.ExcludedCount,
		"latency_ms":     event.LatencyMs,
		"user_latitude":  nullableFloat(event.UserLatitude),
		"user_longitude": nullableFloat(event.UserLongitude),
		"source":         event.Source,
		"created_at":     event.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build search event insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}
	return nil
}

// GetZeroResultQueries returns the most recent searches that produced no results
func (a *SearchAnalyticsAdapter) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args, err := a.db.Select(
		"id", "query", "specialties", "emergency_only", "open_now", "radius_km",
		"result_count", "total_count", "excluded_count", "latency_ms",
		"user_latitude", "user_longitude", "source", "created_at",
	).
		From(searchAnalyticsTable).
		Where(goqu.Ex{"result_count": 0}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build zero result query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result queries", err)
	}
	defer rows.Close()

	events := []*entities.SearchEvent{}
	for rows.Next() {
		e := &entities.SearchEvent{}
		var lat, lon sql.NullFloat64
		err := rows.Scan(
			&e.ID,
			&e.Query,
			pq.Array(&e.Specialties),
			&e.EmergencyOnly,
			&e.OpenNow,
			&e.RadiusKm,
			&e.ResultCount,
			&e.TotalCount,
			&e.ExcludedCount,
			&e.LatencyMs,
			&lat,
			&lon,
			&e.Source,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}
		if lat.Valid && lon.Valid {
			e.UserLatitude, e.UserLongitude = &lat.Float64, &lon.Float64
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate search events", err)
	}

	return events, nil
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
