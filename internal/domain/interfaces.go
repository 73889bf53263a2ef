package domain

import "context"

// PolicyRecordSource performs a full, consistent scan of the policy-selection store.
type PolicyRecordSource interface {
	ScanPolicies(ctx context.Context) ([]RawPolicyRecord, error)
}

// EvidenceRecordSource performs a full, consistent scan of the evidence-metadata store.
type EvidenceRecordSource interface {
	ScanEvidence(ctx context.Context) ([]RawEvidenceRecord, error)
}

// RecordSource is a backend serving both collections.
type RecordSource interface {
	PolicyRecordSource
	EvidenceRecordSource

	// Ping checks connectivity to the policy store.
	Ping(ctx context.Context) error
	Close() error
}

// RecordWriter stores records; used by the seeder only.
type RecordWriter interface {
	SavePolicies(ctx context.Context, records []RawPolicyRecord) error
	SaveEvidence(ctx context.Context, records []RawEvidenceRecord) error
	Clear(ctx context.Context) error
}
