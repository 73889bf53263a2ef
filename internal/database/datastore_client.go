package database

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/isms_status_exporter/internal/domain"
)

// datastoreBatchSize is the datastore limit on keys per multi operation.
const datastoreBatchSize = 500

// DatastoreClient reads ISMS records from two datastore kinds. Entities are
// loaded as property lists because evidence entities carry an open-ended set
// of reasonN properties.
type DatastoreClient struct {
	client       *datastore.Client
	policyKind   string
	evidenceKind string
}

// NewDatastoreClient connects to the datastore of projectID.
func NewDatastoreClient(ctx context.Context, projectID, policyKind, evidenceKind string) (*DatastoreClient, error) {
	client, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating datastore client: %w", err)
	}
	return WrapDatastoreClient(client, policyKind, evidenceKind), nil
}

// WrapDatastoreClient wraps existing datastore client
func WrapDatastoreClient(client *datastore.Client, policyKind, evidenceKind string) *DatastoreClient {
	if client == nil {
		return nil
	}
	return &DatastoreClient{client: client, policyKind: policyKind, evidenceKind: evidenceKind}
}

// ScanPolicies returns every entity of the policy kind.
func (dc *DatastoreClient) ScanPolicies(ctx context.Context) ([]domain.RawPolicyRecord, error) {
	entities, err := dc.scan(ctx, dc.policyKind)
	if err != nil {
		return nil, err
	}
	records := make([]domain.RawPolicyRecord, 0, len(entities))
	for _, props := range entities {
		records = append(records, domain.PolicyFromFields(fieldsFromProperties(props)))
	}
	return records, nil
}

// ScanEvidence returns every entity of the evidence kind.
func (dc *DatastoreClient) ScanEvidence(ctx context.Context) ([]domain.RawEvidenceRecord, error) {
	entities, err := dc.scan(ctx, dc.evidenceKind)
	if err != nil {
		return nil, err
	}
	records := make([]domain.RawEvidenceRecord, 0, len(entities))
	for _, props := range entities {
		records = append(records, domain.EvidenceFromFields(fieldsFromProperties(props)))
	}
	return records, nil
}

func (dc *DatastoreClient) scan(ctx context.Context, kind string) ([]datastore.PropertyList, error) {
	if dc == nil || dc.client == nil {
		return nil, fmt.Errorf("datastore client is nil")
	}

	var entities []datastore.PropertyList
	if _, err := dc.client.GetAll(ctx, datastore.NewQuery(kind), &entities); err != nil {
		return nil, fmt.Errorf("scanning kind %s: %w", kind, err)
	}
	return entities, nil
}

// Ping runs a keys-only query against the policy kind.
func (dc *DatastoreClient) Ping(ctx context.Context) error {
	if dc == nil || dc.client == nil {
		return fmt.Errorf("datastore client is nil")
	}
	q := datastore.NewQuery(dc.policyKind).KeysOnly().Limit(1)
	if _, err := dc.client.GetAll(ctx, q, nil); err != nil {
		return fmt.Errorf("querying kind %s: %w", dc.policyKind, err)
	}
	return nil
}

// Close releases the underlying client.
func (dc *DatastoreClient) Close() error {
	if dc == nil || dc.client == nil {
		return nil
	}
	return dc.client.Close()
}

// SavePolicies stores records as new policy entities.
func (dc *DatastoreClient) SavePolicies(ctx context.Context, records []domain.RawPolicyRecord) error {
	entities := make([]datastore.PropertyList, len(records))
	for i, r := range records {
		entities[i] = propertiesFromFields(r.Fields())
	}
	return dc.putAll(ctx, dc.policyKind, entities)
}

// SaveEvidence stores records as new evidence entities.
func (dc *DatastoreClient) SaveEvidence(ctx context.Context, records []domain.RawEvidenceRecord) error {
	entities := make([]datastore.PropertyList, len(records))
	for i, r := range records {
		entities[i] = propertiesFromFields(r.Fields())
	}
	return dc.putAll(ctx, dc.evidenceKind, entities)
}

func (dc *DatastoreClient) putAll(ctx context.Context, kind string, entities []datastore.PropertyList) error {
	if dc == nil || dc.client == nil {
		return fmt.Errorf("datastore client is nil")
	}

	for start := 0; start < len(entities); start += datastoreBatchSize {
		end := start + datastoreBatchSize
		if end > len(entities) {
			end = len(entities)
		}
		batch := entities[start:end]
		keys := make([]*datastore.Key, len(batch))
		for i := range keys {
			keys[i] = datastore.IncompleteKey(kind, nil)
		}
		if _, err := dc.client.PutMulti(ctx, keys, batch); err != nil {
			return fmt.Errorf("saving %s entities: %w", kind, err)
		}
	}
	return nil
}

// Clear deletes every entity of both kinds.
func (dc *DatastoreClient) Clear(ctx context.Context) error {
	if dc == nil || dc.client == nil {
		return fmt.Errorf("datastore client is nil")
	}

	for _, kind := range []string{dc.policyKind, dc.evidenceKind} {
		keys, err := dc.client.GetAll(ctx, datastore.NewQuery(kind).KeysOnly(), nil)
		if err != nil {
			return fmt.Errorf("listing kind %s: %w", kind, err)
		}
		for start := 0; start < len(keys); start += datastoreBatchSize {
			end := start + datastoreBatchSize
			if end > len(keys) {
				end = len(keys)
			}
			if err := dc.client.DeleteMulti(ctx, keys[start:end]); err != nil {
				return fmt.Errorf("deleting %s entities: %w", kind, err)
			}
		}
	}
	return nil
}

func fieldsFromProperties(props datastore.PropertyList) domain.Fields {
	f := make(domain.Fields, len(props))
	for _, p := range props {
		f[p.Name] = p.Value
	}
	return f
}

// propertiesFromFields emits properties in name order. Text values are stored
// unindexed so that long reasons do not hit the indexed string limit.
func propertiesFromFields(f domain.Fields) datastore.PropertyList {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make(datastore.PropertyList, 0, len(names))
	for _, name := range names {
		props = append(props, datastore.Property{
			Name:    name,
			Value:   f[name],
			NoIndex: name != domain.FieldISMSID && name != domain.FieldISMSItem,
		})
	}
	return props
}
