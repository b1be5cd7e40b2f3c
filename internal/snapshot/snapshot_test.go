package snapshot

import (
	"testing"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": JSON, "JSON": JSON, "yaml": YAML, " yml ": YAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("csv")
	require.ErrorIs(t, err, common.ErrInvalidOptions)
}

func TestEncodeDecode_Credentials(t *testing.T) {
	records := []models.Record{
		{Website: "example.com", Username: "alice", Password: "p@ss"},
		{Website: "unicode.test", Username: "юзер", Password: "🔑: yes"},
	}

	for _, f := range []Format{JSON, YAML} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Encode(records, f)
			require.NoError(t, err)
			assert.Contains(t, string(data), "website")

			got, err := Decode[models.Record](data, f)
			require.NoError(t, err)
			assert.Equal(t, records, got)
		})
	}
}

func TestEncode_EmptyIsList(t *testing.T) {
	data, err := Encode[models.Record](nil, JSON)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	data, err = Encode[models.Record](nil, YAML)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode[models.Record]([]byte(`{"website": 1`), JSON)
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = Decode[models.Record]([]byte("- website: [unclosed"), YAML)
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = Decode[models.Record]([]byte(`[]`), Format("xml"))
	require.ErrorIs(t, err, common.ErrInvalidOptions)
}

func TestEncode_AuditRecordTimestampsAsText(t *testing.T) {
	recs := []models.AuditRecord{{ID: 1, Identity: "alice", ActionType: "logout", Success: true, CreatedAt: "2024-05-01T12:00:00Z"}}
	data, err := Encode(recs, YAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-05-01T12:00:00Z")

	back, err := Decode[models.AuditRecord](data, YAML)
	require.NoError(t, err)
	assert.Equal(t, recs, back)
}
