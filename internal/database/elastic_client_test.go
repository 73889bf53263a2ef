package database

import (
	"encoding/json"
	"testing"

	"github.com/locvowork/isms_status_exporter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSource(t *testing.T) {
	src := json.RawMessage(`{"ISMSItem":"1.2","FileName":"log.csv","reason1":"late","reason2":"","reason3":"ignored","version":3}`)

	f, err := decodeSource(src)
	require.NoError(t, err)

	assert.Equal(t, "3", f.String("version"))
	rec := domain.EvidenceFromFields(f)
	assert.Equal(t, domain.RawEvidenceRecord{ISMSItem: "1.2", FileName: "log.csv", Reasons: []string{"late"}}, rec)
}

func TestDecodeSource_Empty(t *testing.T) {
	f, err := decodeSource(nil)
	require.NoError(t, err)
	assert.Empty(t, f)

	_, err = decodeSource(json.RawMessage(`{`))
	assert.Error(t, err)
}
