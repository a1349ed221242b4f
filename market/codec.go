package market

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/dfuse-io/solana-go"
)

// marketplace program operations
const (
	OpCreateModel          = "create_model"
	OpPurchaseSubscription = "purchase_subscription"
)

const discriminatorLength = 8

// Discriminator returns the 8 byte tag identifying a program operation,
// the first 8 bytes of SHA-256 of "global:" + opName.
func Discriminator(opName string) [discriminatorLength]byte {
	digest := sha256.Sum256([]byte("global:" + opName))
	var disc [discriminatorLength]byte
	copy(disc[:], digest[:discriminatorLength])
	return disc
}

func appendString(buf []byte, str string) []byte {
	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(str)))
	buf = append(buf, lenPrefix[:]...)
	return append(buf, str...)
}

func appendOptionalKey(buf []byte, key *solana.PublicKey) []byte {
	if key == nil {
		return append(buf, 0)
	}
	buf = append(buf, 1)
	return append(buf, key[:]...)
}

// EncodeCreateModel packs the create_model instruction data:
// discriminator, length prefixed name, metadata and cid strings, then an
// optional parent key.
func EncodeCreateModel(modelName, metadataJSON, cidRoot string, parent *solana.PublicKey) []byte {
	disc := Discriminator(OpCreateModel)
	data := make([]byte, 0, discriminatorLength+12+len(modelName)+len(metadataJSON)+len(cidRoot)+33)
	data = append(data, disc[:]...)
	data = appendString(data, modelName)
	data = appendString(data, metadataJSON)
	data = appendString(data, cidRoot)
	data = appendOptionalKey(data, parent)
	return data
}

// EncodePurchaseSubscription packs the purchase_subscription instruction
// data. The current protocol version carries no argument payload.
func EncodePurchaseSubscription() []byte {
	disc := Discriminator(OpPurchaseSubscription)
	return disc[:]
}

// accountReader is a cursor over raw account bytes that fails with
// ErrMalformedAccount on any underrun.
type accountReader struct {
	data []byte
	pos  int
}

func (r *accountReader) skip(n int) error {
	if r.pos+n > len(r.data) {
		return ErrMalformedAccount
	}
	r.pos += n
	return nil
}

func (r *accountReader) readBytes(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, ErrMalformedAccount
	}
	bs := r.data[r.pos : r.pos+n]
	r.pos += n
	return bs, nil
}

func (r *accountReader) readKey() (key solana.PublicKey, err error) {
	bs, err := r.readBytes(32)
	if err != nil {
		return key, err
	}
	copy(key[:], bs)
	return key, nil
}

func (r *accountReader) readString() (string, error) {
	bs, err := r.readBytes(4)
	if err != nil {
		return "", err
	}
	length := binary.LittleEndian.Uint32(bs)
	strBytes, err := r.readBytes(int(length))
	if err != nil {
		return "", err
	}
	return string(strBytes), nil
}

func (r *accountReader) readUint16() (uint16, error) {
	bs, err := r.readBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(bs), nil
}

func (r *accountReader) readInt64() (int64, error) {
	bs, err := r.readBytes(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(bs)), nil
}

// DecodeModelAccount decodes raw model account bytes into a ModelRecord.
// The record address is left zero; callers that know which key the bytes
// came from stamp it themselves.
func DecodeModelAccount(data []byte) (*ModelRecord, error) {
	r := &accountReader{data: data}
	if err := r.skip(discriminatorLength); err != nil {
		return nil, err
	}
	record := &ModelRecord{}
	var err error
	if record.Creator, err = r.readKey(); err != nil {
		return nil, err
	}
	if record.Name, err = r.readString(); err != nil {
		return nil, err
	}
	// metadata and cid are opaque to this layer, read and carried through
	if record.MetadataJSON, err = r.readString(); err != nil {
		return nil, err
	}
	if record.CidRoot, err = r.readString(); err != nil {
		return nil, err
	}
	tag, err := r.readBytes(1)
	if err != nil {
		return nil, err
	}
	switch tag[0] {
	case 0:
	case 1:
		parent, err := r.readKey()
		if err != nil {
			return nil, err
		}
		record.Parent = &parent
	default:
		return nil, ErrMalformedAccount
	}
	if record.LineageDepth, err = r.readUint16(); err != nil {
		return nil, err
	}
	if record.CreatedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	return record, nil
}
