package market

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeModelAccount builds raw model account bytes the way the program
// lays them out on chain. Test fixture only; the core never writes
// accounts.
func encodeModelAccount(record *ModelRecord) []byte {
	data := make([]byte, 0, 128)
	disc := Discriminator(OpCreateModel)
	data = append(data, disc[:]...)
	data = append(data, record.Creator[:]...)
	data = appendString(data, record.Name)
	data = appendString(data, record.MetadataJSON)
	data = appendString(data, record.CidRoot)
	data = appendOptionalKey(data, record.Parent)
	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], record.LineageDepth)
	data = append(data, u16[:]...)
	var i64 [8]byte
	binary.LittleEndian.PutUint64(i64[:], uint64(record.CreatedAt))
	return append(data, i64[:]...)
}

func TestDiscriminatorVectors(t *testing.T) {
	// first 8 bytes of SHA-256("global:create_model")
	assert.Equal(t,
		[8]byte{0xd4, 0xe9, 0x29, 0xdb, 0x82, 0xd4, 0xd4, 0xe5},
		Discriminator(OpCreateModel))
	// first 8 bytes of SHA-256("global:purchase_subscription")
	assert.Equal(t,
		[8]byte{0xdb, 0x97, 0xb8, 0xdc, 0x8a, 0x24, 0xcb, 0xed},
		Discriminator(OpPurchaseSubscription))
}

func TestEncodeCreateModelLayout(t *testing.T) {
	parent := keyFromLabel("parent")
	data := EncodeCreateModel("m1", "{}", "bafy", &parent)

	disc := Discriminator(OpCreateModel)
	expected := append([]byte{}, disc[:]...)
	expected = append(expected, 2, 0, 0, 0, 'm', '1')
	expected = append(expected, 2, 0, 0, 0, '{', '}')
	expected = append(expected, 4, 0, 0, 0, 'b', 'a', 'f', 'y')
	expected = append(expected, 1)
	expected = append(expected, parent[:]...)
	assert.Equal(t, expected, data)

	// absent parent is a single zero tag, no trailing key bytes
	data = EncodeCreateModel("m1", "{}", "bafy", nil)
	assert.Equal(t, byte(0), data[len(data)-1])
	assert.Len(t, data, len(expected)-32)
}

func TestEncodePurchaseSubscription(t *testing.T) {
	data := EncodePurchaseSubscription()
	disc := Discriminator(OpPurchaseSubscription)
	assert.Equal(t, disc[:], data)
}

func TestDecodeModelAccountRoundTrip(t *testing.T) {
	parent := keyFromLabel("parent")
	original := &ModelRecord{
		Creator:      testCreator,
		Name:         "vision-base",
		MetadataJSON: "{\"tags\":[\"vision\",\"depth=2\"],\"weird\":\"\x00\x1f\"}",
		CidRoot:      "bafybeigdyrztvzlxjzzz",
		Parent:       &parent,
		LineageDepth: 3,
		CreatedAt:    1700000000,
	}
	decoded, err := DecodeModelAccount(encodeModelAccount(original))
	require.NoError(t, err)
	assert.Equal(t, original.Creator, decoded.Creator)
	assert.Equal(t, original.Name, decoded.Name)
	assert.Equal(t, original.MetadataJSON, decoded.MetadataJSON)
	assert.Equal(t, original.CidRoot, decoded.CidRoot)
	require.NotNil(t, decoded.Parent)
	assert.Equal(t, parent, *decoded.Parent)
	assert.Equal(t, uint16(3), decoded.LineageDepth)
	assert.Equal(t, int64(1700000000), decoded.CreatedAt)
}

func TestDecodeModelAccountNoParent(t *testing.T) {
	original := &ModelRecord{
		Creator: testCreator,
		Name:    "root-model",
		// metadata and cid content are opaque and skippable
		MetadataJSON: "not json at all \x01\x02",
		CidRoot:      "",
	}
	decoded, err := DecodeModelAccount(encodeModelAccount(original))
	require.NoError(t, err)
	assert.Equal(t, "root-model", decoded.Name)
	assert.Nil(t, decoded.Parent)
}

func TestDecodeModelAccountMalformed(t *testing.T) {
	parent := keyFromLabel("parent")
	full := encodeModelAccount(&ModelRecord{
		Creator:      testCreator,
		Name:         "m",
		MetadataJSON: "{}",
		CidRoot:      "c",
		Parent:       &parent,
		LineageDepth: 1,
		CreatedAt:    42,
	})
	// every truncation point must fail, not panic or misread
	for cut := 0; cut < len(full); cut++ {
		_, err := DecodeModelAccount(full[:cut])
		assert.Equal(t, ErrMalformedAccount, err, "cut at %d", cut)
	}

	// a string length prefix overrunning the buffer
	bad := append([]byte{}, full[:40]...)
	bad = append(bad, 0xff, 0xff, 0xff, 0x7f)
	_, err := DecodeModelAccount(bad)
	assert.Equal(t, ErrMalformedAccount, err)

	// an option tag outside {0,1}
	noParent := encodeModelAccount(&ModelRecord{Creator: testCreator, Name: "m"})
	tagPos := len(noParent) - 2 - 8 - 1
	noParent[tagPos] = 7
	_, err = DecodeModelAccount(noParent)
	assert.Equal(t, ErrMalformedAccount, err)
}
