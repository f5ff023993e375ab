package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/bazaarsetu/internal/model"
)

// DB is the subset of *pgxpool.Pool used by Store.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Ping(ctx context.Context) error
}

var _ DB = (*pgxpool.Pool)(nil)

// Store reads price data from PostgreSQL.
type Store struct {
	db     DB
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Store over an open pool.
func New(db DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// GetStates returns every state ordered by name.
func (s *Store) GetStates(ctx context.Context) ([]model.StateEntity, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, name_telugu, name_hindi, code
		FROM states
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("get states: %w", err)
	}

	states, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.StateEntity, error) {
		var (
			st            model.StateEntity
			telugu, hindi *string
		)
		if err := row.Scan(&st.ID, &st.Name, &telugu, &hindi, &st.Code); err != nil {
			return st, err
		}
		st.Names = translations(telugu, hindi)
		return st, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get states: %w", err)
	}
	return states, nil
}

// GetMarket returns one market with its state name.
func (s *Store) GetMarket(ctx context.Context, id int) (model.MarketDetail, error) {
	var (
		m             model.MarketDetail
		telugu, hindi *string
	)
	err := s.db.QueryRow(ctx, `
		SELECT m.id, m.name, m.name_telugu, m.name_hindi, m.district, m.state_id, s.name
		FROM markets m
		JOIN states s ON s.id = m.state_id
		WHERE m.id = $1
	`, id).Scan(&m.ID, &m.Name, &telugu, &hindi, &m.District, &m.StateID, &m.StateName)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.MarketDetail{}, fmt.Errorf("get market %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.MarketDetail{}, fmt.Errorf("get market %d: %w", id, err)
	}

	m.Names = translations(telugu, hindi)
	return m, nil
}

// GetTodayPrices returns today's prices with the change against yesterday's modal price
// for the same commodity and market.
func (s *Store) GetTodayPrices(ctx context.Context, q model.PricesQuery) ([]model.PriceRecord, error) {
	sql, args := buildPricesQuery(q, s.today())

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("get today prices: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanPrice)
	if err != nil {
		return nil, fmt.Errorf("get today prices: %w", err)
	}

	s.logger.Debug("loaded today prices", "count", len(records), "sort", q.Sort)
	return records, nil
}

// GetTrend returns one point per day for the commodity, averaged across markets
// unless a market is given. The summary is left empty so callers compute it.
func (s *Store) GetTrend(ctx context.Context, q model.TrendQuery) (model.TrendSeries, error) {
	q = q.Normalized()
	today := s.today()
	start := today.AddDate(0, 0, -q.Days)

	series := model.TrendSeries{
		CommodityID: q.CommodityID,
		MarketID:    q.MarketID,
		Points:      []model.DailyPoint{},
	}

	batch := &pgx.Batch{}
	batch.Queue(`SELECT name FROM commodities WHERE id = $1`, q.CommodityID)
	if q.MarketID != nil {
		batch.Queue(`SELECT name FROM markets WHERE id = $1`, *q.MarketID)
	}
	batch.Queue(`
		SELECT price_date, MIN(min_price), MAX(max_price), AVG(modal_price)
		FROM prices
		WHERE commodity_id = $1
		  AND price_date BETWEEN $2 AND $3
		  AND ($4::int IS NULL OR market_id = $4)
		GROUP BY price_date
		ORDER BY price_date
	`, q.CommodityID, start, today, q.MarketID)

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	err := results.QueryRow().Scan(&series.CommodityName)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.TrendSeries{}, fmt.Errorf("get trend %d: %w", q.CommodityID, model.ErrNotFound)
	}
	if err != nil {
		return model.TrendSeries{}, fmt.Errorf("get trend %d: commodity: %w", q.CommodityID, err)
	}
	if q.MarketID != nil {
		if err := results.QueryRow().Scan(&series.MarketName); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return model.TrendSeries{}, fmt.Errorf("get trend %d: market: %w", q.CommodityID, err)
		}
	}

	rows, err := results.Query()
	if err != nil {
		return model.TrendSeries{}, fmt.Errorf("get trend %d: %w", q.CommodityID, err)
	}
	points, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.DailyPoint, error) {
		var p model.DailyPoint
		err := row.Scan(&p.Date, &p.MinPrice, &p.MaxPrice, &p.ModalPrice)
		return p, err
	})
	if err != nil {
		return model.TrendSeries{}, fmt.Errorf("get trend %d: %w", q.CommodityID, err)
	}
	series.Points = append(series.Points, points...)

	return series, nil
}

func (s *Store) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
