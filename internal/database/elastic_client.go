package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/locvowork/isms_status_exporter/internal/domain"
	"github.com/olivere/elastic/v7"
)

const scrollBatchSize = 1000

// ElasticSearchClient reads ISMS records from two Elasticsearch 7.x indices.
type ElasticSearchClient struct {
	client        *elastic.Client
	policyIndex   string
	evidenceIndex string
}

// NewElasticSearchClient creates a new client for Elasticsearch 7.x.
func NewElasticSearchClient(url string, sniff bool, policyIndex, evidenceIndex string) (*ElasticSearchClient, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(sniff), // must stay off behind Docker or a cloud proxy
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &ElasticSearchClient{client: client, policyIndex: policyIndex, evidenceIndex: evidenceIndex}, nil
}

// ScanPolicies scrolls the whole policy index.
func (es *ElasticSearchClient) ScanPolicies(ctx context.Context) ([]domain.RawPolicyRecord, error) {
	var records []domain.RawPolicyRecord
	err := es.scroll(ctx, es.policyIndex, func(f domain.Fields) {
		records = append(records, domain.PolicyFromFields(f))
	})
	return records, err
}

// ScanEvidence scrolls the whole evidence index.
func (es *ElasticSearchClient) ScanEvidence(ctx context.Context) ([]domain.RawEvidenceRecord, error) {
	var records []domain.RawEvidenceRecord
	err := es.scroll(ctx, es.evidenceIndex, func(f domain.Fields) {
		records = append(records, domain.EvidenceFromFields(f))
	})
	return records, err
}

func (es *ElasticSearchClient) scroll(ctx context.Context, index string, visit func(domain.Fields)) error {
	scroll := es.client.Scroll(index).
		Size(scrollBatchSize).
		KeepAlive("2m").
		Sort("_doc", true)
	defer scroll.Clear(context.Background())

	for {
		results, err := scroll.Do(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("scroll error on index %s: %w", index, err)
		}

		for _, hit := range results.Hits.Hits {
			f, err := decodeSource(hit.Source)
			if err != nil {
				return fmt.Errorf("decoding document %s/%s: %w", index, hit.Id, err)
			}
			visit(f)
		}
	}
}

// decodeSource decodes a document body, keeping numbers in their literal form.
func decodeSource(src json.RawMessage) (domain.Fields, error) {
	f := domain.Fields{}
	if len(src) == 0 {
		return f, nil
	}
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	return f, nil
}

// Ping checks that the policy index exists.
func (es *ElasticSearchClient) Ping(ctx context.Context) error {
	exists, err := es.client.IndexExists(es.policyIndex).Do(ctx)
	if err != nil {
		return fmt.Errorf("checking index %s: %w", es.policyIndex, err)
	}
	if !exists {
		return fmt.Errorf("index %s does not exist", es.policyIndex)
	}
	return nil
}

// Close stops the client's background processes.
func (es *ElasticSearchClient) Close() error {
	es.client.Stop()
	return nil
}

// SavePolicies bulk-indexes policy records.
func (es *ElasticSearchClient) SavePolicies(ctx context.Context, records []domain.RawPolicyRecord) error {
	docs := make([]domain.Fields, len(records))
	for i, r := range records {
		docs[i] = r.Fields()
	}
	return es.bulkIndex(ctx, es.policyIndex, docs)
}

// SaveEvidence bulk-indexes evidence records.
func (es *ElasticSearchClient) SaveEvidence(ctx context.Context, records []domain.RawEvidenceRecord) error {
	docs := make([]domain.Fields, len(records))
	for i, r := range records {
		docs[i] = r.Fields()
	}
	return es.bulkIndex(ctx, es.evidenceIndex, docs)
}

func (es *ElasticSearchClient) bulkIndex(ctx context.Context, index string, docs []domain.Fields) error {
	bulkRequest := es.client.Bulk()
	for _, doc := range docs {
		bulkRequest = bulkRequest.Add(elastic.NewBulkIndexRequest().Index(index).Doc(doc))
	}

	if bulkRequest.NumberOfActions() == 0 {
		return nil
	}

	bulkResponse, err := bulkRequest.Refresh("true").Do(ctx)
	if err != nil {
		return fmt.Errorf("bulk index failed: %w", err)
	}

	if bulkResponse.Errors {
		for _, item := range bulkResponse.Items {
			for _, op := range item {
				if op.Error != nil {
					return fmt.Errorf("bulk item failed: %s", op.Error.Reason)
				}
			}
		}
	}

	return nil
}

// Clear deletes every document of both indices. Missing indices are ignored.
func (es *ElasticSearchClient) Clear(ctx context.Context) error {
	for _, index := range []string{es.policyIndex, es.evidenceIndex} {
		_, err := es.client.DeleteByQuery(index).
			Query(elastic.NewMatchAllQuery()).
			Refresh("true").
			Do(ctx)
		if err != nil && !elastic.IsNotFound(err) {
			return fmt.Errorf("clearing index %s: %w", index, err)
		}
	}
	return nil
}
