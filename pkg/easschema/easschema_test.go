package easschema

import (
	"math/big"
	"testing"

	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = "string eventName,string eventDescription,string occasion,string[] locationCoordinates,string memoryDescription"

func newTestEncoder(t *testing.T) *Encoder {
	t.Helper()

	e, err := NewEncoder(testSchema, common.Address{}, true)
	require.NoError(t, err)

	return e
}

func testFields() []Field {
	return []Field{
		{Name: "eventName", Type: "string", Value: "Demo"},
		{Name: "eventDescription", Type: "string", Value: "Test"},
		{Name: "occasion", Type: "string", Value: "Meetup"},
		{Name: "locationCoordinates", Type: "string[]", Value: []string{"12", "72"}},
		{Name: "memoryDescription", Type: "string", Value: "Generated from automated analysis of the image"},
	}
}

func TestParseLayout(t *testing.T) {
	layout, err := ParseLayout(" string eventName , string[] locationCoordinates")
	require.NoError(t, err)
	assert.Equal(t, Layout{{Name: "eventName", Type: "string"}, {Name: "locationCoordinates", Type: "string[]"}}, layout)
	assert.Equal(t, "string eventName,string[] locationCoordinates", layout.String())

	_, err = ParseLayout("string")
	assert.Error(t, err)
}

func TestUID(t *testing.T) {
	resolver := common.HexToAddress("0x0000000000000000000000000000000000000001")

	packed := append([]byte(testSchema), resolver.Bytes()...)
	packed = append(packed, 1)
	assert.Equal(t, crypto.Keccak256Hash(packed), UID(testSchema, resolver, true))

	assert.NotEqual(t, UID(testSchema, resolver, true), UID(testSchema, resolver, false))
	assert.NotEqual(t, UID(testSchema, resolver, true), UID(testSchema, common.Address{}, true))
}

func TestEncoder_Deterministic(t *testing.T) {
	e := newTestEncoder(t)

	first, err := e.Encode(e.UID(), testFields())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := newTestEncoder(t).Encode(e.UID(), testFields())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// five dynamic values: the first head word points past the five-word head
	assert.Equal(t, big.NewInt(5*32), new(big.Int).SetBytes(first[:32]))
}

func TestEncoder_RoundTrip(t *testing.T) {
	e := newTestEncoder(t)

	payload, err := e.Encode(e.UID(), testFields())
	require.NoError(t, err)

	decoded, err := e.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, testFields(), decoded)
}

func TestEncoder_SchemaMismatch(t *testing.T) {
	e := newTestEncoder(t)

	t.Run("wrong schema uid", func(t *testing.T) {
		_, err := e.Encode(common.HexToHash("0x01"), testFields())
		assert.ErrorIs(t, err, errs.ErrSchemaMismatch)
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := e.Encode(e.UID(), testFields()[:4])
		assert.ErrorIs(t, err, errs.ErrSchemaMismatch)
	})

	t.Run("wrong order", func(t *testing.T) {
		fields := testFields()
		fields[0], fields[1] = fields[1], fields[0]
		_, err := e.Encode(e.UID(), fields)
		assert.ErrorIs(t, err, errs.ErrSchemaMismatch)
	})

	t.Run("wrong declared type", func(t *testing.T) {
		fields := testFields()
		fields[3].Type = "string"
		_, err := e.Encode(e.UID(), fields)
		assert.ErrorIs(t, err, errs.ErrSchemaMismatch)
	})

	t.Run("wrong value type", func(t *testing.T) {
		fields := testFields()
		fields[3].Value = "12,72"
		_, err := e.Encode(e.UID(), fields)
		assert.ErrorIs(t, err, errs.ErrSchemaMismatch)
	})

	t.Run("undecodable payload", func(t *testing.T) {
		_, err := e.Decode([]byte{0x01})
		assert.ErrorIs(t, err, errs.ErrSchemaMismatch)
	})
}
