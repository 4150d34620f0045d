package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/okian/savor/internal/domain/model"
	"github.com/okian/savor/pkg/metrics"
)

// Connection pool defaults.
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 30 * time.Second
)

// foreignKeyViolation is the Postgres SQLSTATE for FK violations.
const foreignKeyViolation = "23503"

// Postgres implements Store on top of lib/pq. The reviews table carries a
// foreign key with ON DELETE CASCADE, so a restaurant delete is a single
// atomic statement.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection pool, verifies connectivity, and runs any
// pending migrations.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := autoMigrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func observe(op string, start time.Time, err error) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Milliseconds()))
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordStoreError(op)
	}
}

// CreateRestaurant persists a new restaurant.
func (p *Postgres) CreateRestaurant(ctx context.Context, r *model.Restaurant) (err error) {
	start := time.Now()
	defer func() { observe("create_restaurant", start, err) }()

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO restaurants (id, name, location, created_at)
		 VALUES ($1, $2, $3, $4)`,
		r.ID, r.Name, r.Location, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create restaurant: %w", err)
	}
	return nil
}

// GetRestaurant returns the restaurant with id.
func (p *Postgres) GetRestaurant(ctx context.Context, id string) (_ *model.Restaurant, err error) {
	start := time.Now()
	defer func() { observe("get_restaurant", start, err) }()

	r := &model.Restaurant{}
	err = p.db.QueryRowContext(ctx,
		`SELECT id, name, location, created_at FROM restaurants WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Name, &r.Location, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant %s: %w", id, err)
	}
	return r, nil
}

// ListRestaurants returns all restaurants ordered by creation time.
func (p *Postgres) ListRestaurants(ctx context.Context) (_ []*model.Restaurant, err error) {
	start := time.Now()
	defer func() { observe("list_restaurants", start, err) }()

	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, location, created_at FROM restaurants ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	var out []*model.Restaurant
	for rows.Next() {
		r := &model.Restaurant{}
		if err = rows.Scan(&r.ID, &r.Name, &r.Location, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		out = append(out, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return out, nil
}

// DeleteRestaurant removes the restaurant; the FK cascades to reviews.
func (p *Postgres) DeleteRestaurant(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe("delete_restaurant", start, err) }()

	res, err := p.db.ExecContext(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete restaurant %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete restaurant %s: %w", id, err)
	}
	if affected == 0 {
		err = ErrNotFound
		return err
	}
	return nil
}

// CreateReview persists a new review for an existing restaurant.
func (p *Postgres) CreateReview(ctx context.Context, rv *model.Review) (err error) {
	start := time.Now()
	defer func() { observe("create_review", start, err) }()

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO reviews (id, restaurant_id, body, sentiment_score, sentiment_label, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rv.ID, rv.RestaurantID, rv.Text, rv.Score, string(rv.Label), rv.CreatedAt,
	)
	if err != nil {
		// FK violation means the restaurant is gone.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation {
			err = ErrNotFound
			return err
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListReviews returns all reviews owned by a restaurant, oldest first.
func (p *Postgres) ListReviews(ctx context.Context, restaurantID string) (_ []*model.Review, err error) {
	start := time.Now()
	defer func() { observe("list_reviews", start, err) }()

	if _, err = p.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT id, restaurant_id, body, sentiment_score, sentiment_label, created_at
		 FROM reviews WHERE restaurant_id = $1 ORDER BY created_at, id`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews for %s: %w", restaurantID, err)
	}
	defer rows.Close()

	var out []*model.Review
	for rows.Next() {
		rv := &model.Review{}
		var label string
		if err = rows.Scan(&rv.ID, &rv.RestaurantID, &rv.Text, &rv.Score, &label, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		rv.Label = model.Label(label)
		out = append(out, rv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews for %s: %w", restaurantID, err)
	}
	return out, nil
}

// CountReviews returns the number of reviews owned by a restaurant.
func (p *Postgres) CountReviews(ctx context.Context, restaurantID string) (_ int, err error) {
	start := time.Now()
	defer func() { observe("count_reviews", start, err) }()

	if _, err = p.GetRestaurant(ctx, restaurantID); err != nil {
		return 0, err
	}

	var count int
	err = p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE restaurant_id = $1`,
		restaurantID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reviews for %s: %w", restaurantID, err)
	}
	return count, nil
}

// Counts returns the total number of restaurants and reviews.
func (p *Postgres) Counts(ctx context.Context) (restaurants, reviews int, err error) {
	start := time.Now()
	defer func() { observe("counts", start, err) }()

	err = p.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM restaurants), (SELECT COUNT(*) FROM reviews)`,
	).Scan(&restaurants, &reviews)
	if err != nil {
		return 0, 0, fmt.Errorf("count records: %w", err)
	}
	return restaurants, reviews, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}
