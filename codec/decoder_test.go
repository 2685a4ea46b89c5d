package codec

import (
	"bytes"
	"testing"

	"github.com/GiterLab/go-msgpack/msgpackcore"
	"github.com/GiterLab/go-msgpack/stream"
	"github.com/stretchr/testify/require"
)

func decodeBytes(t *testing.T, b []byte, limits *msgpackcore.Limits, alloc msgpackcore.Allocator) (msgpackcore.Payload, error) {
	t.Helper()
	return Decode(stream.NewSource(bytes.NewReader(b)), limits, alloc)
}

func TestDecodeNilFalseTrue(t *testing.T) {
	p, err := decodeBytes(t, []byte{0xc0}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, msgpackcore.KindNil, p.Kind())

	p, err = decodeBytes(t, []byte{0xc3}, nil, nil)
	require.NoError(t, err)
	v, _ := p.AsBool()
	require.True(t, v)
}

func TestDecodePosAndNegFixInt(t *testing.T) {
	// Positive fixint is the byte range EncodeUint also emits for 0..127
	// (primitive.go), so it must decode back to KindUint: uint 42 encodes
	// as 0x2a and decode must yield uint(42), not int(42).
	p, err := decodeBytes(t, []byte{0x05}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, msgpackcore.KindUint, p.Kind())
	v, err := p.AsUint()
	require.NoError(t, err)
	require.Equal(t, uint64(5), v)

	p, err = decodeBytes(t, []byte{0xff}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, msgpackcore.KindInt, p.Kind())
	iv, err := p.AsInt()
	require.NoError(t, err)
	require.Equal(t, int64(-1), iv)
}

func TestDecodeFixStr(t *testing.T) {
	p, err := decodeBytes(t, []byte{0xa2, 'h', 'i'}, nil, nil)
	require.NoError(t, err)
	b, _ := p.AsStr()
	require.Equal(t, []byte("hi"), b)
}

func TestDecodeEmptyArrayAndMap(t *testing.T) {
	p, err := decodeBytes(t, []byte{0x90}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, p.ArrLen())

	p, err = decodeBytes(t, []byte{0x80}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, p.MapLen())
}

func TestDecodeNestedArray(t *testing.T) {
	// fixint bytes here decode as KindUint (TestDecodePosAndNegFixInt).
	p, err := decodeBytes(t, []byte{0x92, 0x92, 0x01, 0x02, 0x03}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 2, p.ArrLen())
	inner := p.ArrAt(0)
	require.Equal(t, 2, inner.ArrLen())
	v, _ := p.ArrAt(1).AsUint()
	require.Equal(t, uint64(3), v)
}

func TestDecodeMapWithStringKey(t *testing.T) {
	p, err := decodeBytes(t, []byte{0x81, 0xa1, 'a', 0x01}, nil, nil)
	require.NoError(t, err)
	v, ok := p.GetStr("a")
	require.True(t, ok)
	got, _ := v.AsUint()
	require.Equal(t, uint64(1), got)
}

func TestDecodeTimestamp32(t *testing.T) {
	buf := make([]byte, 16)
	n, err := msgpackcore.EncodeTimestamp(buf, 1000, 0)
	require.NoError(t, err)

	p, err := decodeBytes(t, buf[:n], nil, nil)
	require.NoError(t, err)
	require.Equal(t, msgpackcore.KindTimestamp, p.Kind())
	sec, nsec, err := p.AsTimestamp()
	require.NoError(t, err)
	require.Equal(t, int64(1000), sec)
	require.Equal(t, uint32(0), nsec)
}

func TestDecodeRejectsReservedByte(t *testing.T) {
	_, err := decodeBytes(t, []byte{0xc1}, nil, nil)
	require.ErrorIs(t, err, msgpackcore.ErrTypeMarker)
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	_, err := decodeBytes(t, []byte{0xa2, 'h'}, nil, nil)
	require.Error(t, err)
}

func TestDecodeEnforcesMaxDepth(t *testing.T) {
	// 5 nested fixarrays of length 1, each containing the next.
	var buf bytes.Buffer
	for i := 0; i < 5; i++ {
		buf.WriteByte(0x91)
	}
	buf.WriteByte(0x01)

	_, err := decodeBytes(t, buf.Bytes(), &msgpackcore.Limits{MaxDepth: 2}, nil)
	require.ErrorIs(t, err, msgpackcore.ErrMaxDepthExceeded)
}

func TestDecodeEnforcesMaxArrayLength(t *testing.T) {
	_, err := decodeBytes(t, []byte{0x92, 0x01, 0x02}, &msgpackcore.Limits{MaxArrayLength: 1}, nil)
	require.ErrorIs(t, err, msgpackcore.ErrArrayTooLarge)
}

func TestDecodeEnforcesMaxStringLength(t *testing.T) {
	_, err := decodeBytes(t, []byte{0xa2, 'h', 'i'}, &msgpackcore.Limits{MaxStringLen: 1}, nil)
	require.ErrorIs(t, err, msgpackcore.ErrStringTooLong)
}

func TestDecodeLimitRejectionDoesNotLeak(t *testing.T) {
	tracker := msgpackcore.NewTrackingAllocator()
	// map with one string key whose value is oversized: the key gets
	// allocated and attached before the value fails its limit check.
	input := []byte{0x81, 0xa1, 'k', 0xa2, 'h', 'i'}
	_, err := decodeBytes(t, input, &msgpackcore.Limits{MaxStringLen: 1}, tracker)
	require.Error(t, err)
	require.Equal(t, 0, tracker.Live())
}

func TestDecodeNaNMapKeyRejected(t *testing.T) {
	// map(1) { float64(NaN): 1 }
	var buf bytes.Buffer
	buf.WriteByte(0x81)
	buf.WriteByte(msgpackcore.MarkerFloat64)
	buf.Write([]byte{0x7f, 0xf8, 0, 0, 0, 0, 0, 1}) // a NaN bit pattern
	buf.WriteByte(0x01)

	_, err := decodeBytes(t, buf.Bytes(), nil, nil)
	require.ErrorIs(t, err, msgpackcore.ErrInvalidType)
}
