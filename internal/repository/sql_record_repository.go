package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/locvowork/isms_status_exporter/internal/domain"
	"github.com/locvowork/isms_status_exporter/internal/repository/builder"
)

const (
	policyTable   = "isms_policy_selection"
	evidenceTable = "isms_evidence_metadata"

	// insertBatchSize keeps multi-row inserts well under the 65535 parameter limit.
	insertBatchSize = 1000
)

// Schema is the DDL of the record tables.
const Schema = `
CREATE TABLE IF NOT EXISTS isms_policy_selection (
	id        BIGSERIAL PRIMARY KEY,
	isms_id   TEXT,
	content   TEXT,
	full_path TEXT
);
CREATE TABLE IF NOT EXISTS isms_evidence_metadata (
	id        BIGSERIAL PRIMARY KEY,
	isms_item TEXT,
	file_name TEXT,
	reasons   TEXT[]
);`

// SQLRecordRepository serves ISMS records from PostgreSQL.
// Rows without an identifier are left out by the scans.
type SQLRecordRepository struct {
	db *sql.DB
}

// NewSQLRecordRepository creates the repository. Evidence reasons
// live in a text[] column in reasonN order.
func NewSQLRecordRepository(db *sql.DB) *SQLRecordRepository {
	return &SQLRecordRepository{db: db}
}

var (
	_ domain.RecordSource = (*SQLRecordRepository)(nil)
	_ domain.RecordWriter = (*SQLRecordRepository)(nil)
)

// EnsureSchema creates the record tables when they are missing.
func (r *SQLRecordRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// ScanPolicies returns every policy row that carries an identifier.
func (r *SQLRecordRepository) ScanPolicies(ctx context.Context) ([]domain.RawPolicyRecord, error) {
	query, args := policyScanQuery()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.RawPolicyRecord
	for rows.Next() {
		var id, content, fullPath sql.NullString
		if err := rows.Scan(&id, &content, &fullPath); err != nil {
			return nil, err
		}
		records = append(records, domain.RawPolicyRecord{
			ISMSID:   id.String,
			Content:  content.String,
			FullPath: fullPath.String,
		})
	}
	return records, rows.Err()
}

// ScanEvidence returns every evidence row that carries an identifier.
func (r *SQLRecordRepository) ScanEvidence(ctx context.Context) ([]domain.RawEvidenceRecord, error) {
	query, args := evidenceScanQuery()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.RawEvidenceRecord
	for rows.Next() {
		var item, fileName sql.NullString
		var reasons []sql.NullString
		if err := rows.Scan(&item, &fileName, pq.Array(&reasons)); err != nil {
			return nil, err
		}
		records = append(records, domain.RawEvidenceRecord{
			ISMSItem: item.String,
			FileName: fileName.String,
			Reasons:  reasonsFromArray(reasons),
		})
	}
	return records, rows.Err()
}

func policyScanQuery() (string, []interface{}) {
	return builder.NewSQLBuilder().
		Select("isms_id", "content", "full_path").
		From(policyTable).
		Where("isms_id IS NOT NULL").
		Where("btrim(isms_id) <> ?", "").
		OrderBy("id").
		Build()
}

func evidenceScanQuery() (string, []interface{}) {
	return builder.NewSQLBuilder().
		Select("isms_item", "file_name", "reasons").
		From(evidenceTable).
		Where("isms_item IS NOT NULL").
		Where("btrim(isms_item) <> ?", "").
		OrderBy("id").
		Build()
}

// reasonsFromArray applies reasonN enumeration to an array column: a NULL or
// empty element ends the list.
func reasonsFromArray(values []sql.NullString) []string {
	return domain.EnumerateReasons(func(key string) (string, bool) {
		for n := range values {
			if domain.ReasonKey(n+1) == key {
				return values[n].String, values[n].Valid
			}
		}
		return "", false
	})
}

func (r *SQLRecordRepository) Ping(ctx context.Context) error {
	query, args := builder.NewSQLBuilder().
		Select("id").
		From(policyTable).
		Limit(1).
		Build()

	var id int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("querying %s: %w", policyTable, err)
	}
	return nil
}

func (r *SQLRecordRepository) Close() error {
	return r.db.Close()
}

func (r *SQLRecordRepository) SavePolicies(ctx context.Context, records []domain.RawPolicyRecord) error {
	for start := 0; start < len(records); start += insertBatchSize {
		end := min(start+insertBatchSize, len(records))
		b := builder.NewSQLBuilder().Insert(policyTable, "isms_id", "content", "full_path")
		for _, rec := range records[start:end] {
			b.Values(rec.ISMSID, rec.Content, rec.FullPath)
		}
		if err := r.exec(ctx, b); err != nil {
			return fmt.Errorf("inserting policies: %w", err)
		}
	}
	return nil
}

func (r *SQLRecordRepository) SaveEvidence(ctx context.Context, records []domain.RawEvidenceRecord) error {
	for start := 0; start < len(records); start += insertBatchSize {
		end := min(start+insertBatchSize, len(records))
		b := builder.NewSQLBuilder().Insert(evidenceTable, "isms_item", "file_name", "reasons")
		for _, rec := range records[start:end] {
			b.Values(rec.ISMSItem, rec.FileName, pq.Array(rec.Reasons))
		}
		if err := r.exec(ctx, b); err != nil {
			return fmt.Errorf("inserting evidence: %w", err)
		}
	}
	return nil
}

func (r *SQLRecordRepository) Clear(ctx context.Context) error {
	for _, table := range []string{policyTable, evidenceTable} {
		if err := r.exec(ctx, builder.NewSQLBuilder().Delete(table)); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func (r *SQLRecordRepository) exec(ctx context.Context, b *builder.SQLBuilder) error {
	query, args, err := b.BuildSafe()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
