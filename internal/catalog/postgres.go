package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/StefanEhlert/chefsnumbers/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// articleColumns lists the COPY target columns in the order articleRow
// produces values.
var articleColumns = []string{
	"id", "name", "category", "supplier_id", "supplier_article_number",
	"bundle_unit", "bundle_price", "content", "content_unit", "price_per_unit",
	"ingredients", "allergens",
	"calories", "kilojoules", "protein", "fat", "carbohydrates", "sugar", "fiber", "salt",
}

// OpenPool connects to the catalog database and verifies the connection.
func OpenPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// PostgresStore is a Store backed by PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an open pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the catalog tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// ListArticleNames returns the names of all articles.
func (s *PostgresStore) ListArticleNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM articles`)
	if err != nil {
		return nil, fmt.Errorf("query article names: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan article names: %w", err)
	}
	return names, nil
}

// ListSuppliers returns id and name of all suppliers.
func (s *PostgresStore) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM suppliers`)
	if err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var id pgtype.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, Supplier{ID: uuidString(id), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("supplier rows: %w", err)
	}
	return suppliers, nil
}

// CreateSuppliers inserts all suppliers in one transaction and returns the
// stored ids in input order. Either every supplier is created or none is.
func (s *PostgresStore) CreateSuppliers(ctx context.Context, suppliers []Supplier) ([]string, error) {
	if len(suppliers) == 0 {
		return nil, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, sup := range suppliers {
		id, err := parseOrNewUUID(sup.ID)
		if err != nil {
			return nil, fmt.Errorf("supplier %q: %w", sup.Name, err)
		}
		batch.Queue(`
			INSERT INTO suppliers (id, name, contact_person, email, phone, website, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			id, strings.TrimSpace(sup.Name),
			toPgText(sup.ContactPerson), toPgText(sup.Email), toPgText(sup.Phone),
			toPgText(sup.Website), toPgText(sup.Notes),
		)
	}

	results := tx.SendBatch(ctx, batch)
	ids := make([]string, 0, len(suppliers))
	for _, sup := range suppliers {
		var id pgtype.UUID
		if err := results.QueryRow().Scan(&id); err != nil {
			results.Close()
			return nil, fmt.Errorf("insert supplier %q: %w", sup.Name, err)
		}
		ids = append(ids, uuidString(id))
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ids, nil
}

// CreateArticles bulk-inserts articles with the COPY protocol, falling back
// to batched INSERTs when COPY is rejected.
func (s *PostgresStore) CreateArticles(ctx context.Context, articles []Article) error {
	if len(articles) == 0 {
		return nil
	}

	rows := make([][]any, len(articles))
	for i, a := range articles {
		row, err := articleRow(a)
		if err != nil {
			return fmt.Errorf("article %q: %w", a.Name, err)
		}
		rows[i] = row
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.CopyFrom(ctx, pgx.Identifier{"articles"}, articleColumns, pgx.CopyFromRows(rows))
		return err
	})
	if err == nil {
		return nil
	}
	slog.Warn("copy articles failed, falling back to insert", "error", err, "rows", len(rows))

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return insertArticles(ctx, tx, rows)
	})
}

func insertArticles(ctx context.Context, tx pgx.Tx, rows [][]any) error {
	placeholders := make([]string, len(articleColumns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO articles (%s) VALUES (%s)",
		strings.Join(articleColumns, ", "), strings.Join(placeholders, ", "))

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query, row...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert articles: %w", err)
	}
	return nil
}

// articleRow converts an article to COPY values ordered like articleColumns.
func articleRow(a Article) ([]any, error) {
	id, err := parseOrNewUUID(a.ID)
	if err != nil {
		return nil, err
	}
	supplierID := toPgUUID(a.SupplierID)
	if a.SupplierID != "" && !supplierID.Valid {
		return nil, fmt.Errorf("invalid supplier id %q", a.SupplierID)
	}

	return []any{
		id, strings.TrimSpace(a.Name), toPgText(a.Category), supplierID, toPgText(a.SupplierArticleNumber),
		toPgText(a.BundleUnit), a.BundlePrice, a.Content, toPgText(a.ContentUnit), a.PricePerUnit,
		nonNil(a.Ingredients), nonNil(a.Allergens),
		a.Nutrition.Calories, a.Nutrition.Kilojoules, a.Nutrition.Protein, a.Nutrition.Fat,
		a.Nutrition.Carbohydrates, a.Nutrition.Sugar, a.Nutrition.Fiber, a.Nutrition.Salt,
	}, nil
}

// toPgText converts a string to pgtype.Text, NULL when blank.
func toPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// toPgUUID converts a string to pgtype.UUID, NULL when empty or malformed.
func toPgUUID(s string) pgtype.UUID {
	if s == "" {
		return pgtype.UUID{}
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

func parseOrNewUUID(s string) (pgtype.UUID, error) {
	if s == "" {
		return pgtype.UUID{Bytes: uuid.New(), Valid: true}, nil
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

func uuidString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
