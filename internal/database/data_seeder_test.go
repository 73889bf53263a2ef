package database

import (
	"context"
	"strings"
	"testing"

	"github.com/locvowork/isms_status_exporter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryWriter struct {
	policies  []domain.RawPolicyRecord
	evidences []domain.RawEvidenceRecord
	cleared   bool
}

func (w *memoryWriter) SavePolicies(_ context.Context, r []domain.RawPolicyRecord) error {
	w.policies = append(w.policies, r...)
	return nil
}

func (w *memoryWriter) SaveEvidence(_ context.Context, r []domain.RawEvidenceRecord) error {
	w.evidences = append(w.evidences, r...)
	return nil
}

func (w *memoryWriter) Clear(context.Context) error {
	w.cleared = true
	return nil
}

func TestControlIdentifiers(t *testing.T) {
	ids := ControlIdentifiers(2, 2)
	assert.Equal(t, []string{"1.1.1", "1.1.2", "1.2.1", "1.2.2", "2.1.1", "2.1.2", "2.2.1", "2.2.2"}, ids)
}

func TestDataSeeder_Deterministic(t *testing.T) {
	ids := ControlIdentifiers(GetPresetConfig(PresetSmall))

	p1, e1 := NewDataSeeder(&memoryWriter{}, 7).GenerateRecords(ids)
	p2, e2 := NewDataSeeder(&memoryWriter{}, 7).GenerateRecords(ids)
	assert.Equal(t, p1, p2)
	assert.Equal(t, e1, e2)
}

func TestDataSeeder_SeedAndClear(t *testing.T) {
	w := &memoryWriter{}
	seeder := NewDataSeeder(w, 1)

	require.NoError(t, seeder.SeedData(context.Background(), ControlIdentifiers(3, 4)))
	require.NotEmpty(t, w.policies)
	require.NotEmpty(t, w.evidences)

	last := w.policies[len(w.policies)-1]
	assert.Empty(t, last.ISMSID)
	for _, p := range w.policies[:len(w.policies)-1] {
		assert.NotEmpty(t, strings.TrimSpace(p.ISMSID))
	}

	require.NoError(t, seeder.ClearData(context.Background()))
	assert.True(t, w.cleared)
}
