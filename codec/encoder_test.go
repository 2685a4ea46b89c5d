package codec

import (
	"bytes"
	"testing"

	"github.com/GiterLab/go-msgpack/msgpackcore"
	"github.com/GiterLab/go-msgpack/stream"
	"github.com/stretchr/testify/require"
)

func encodeToBytes(t *testing.T, p msgpackcore.Payload) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(stream.NewSink(&buf), p))
	return buf.Bytes()
}

func TestEncodeNilFalseTrue(t *testing.T) {
	require.Equal(t, []byte{0xc0}, encodeToBytes(t, msgpackcore.NilPayload()))
	require.Equal(t, []byte{0xc2}, encodeToBytes(t, msgpackcore.BoolPayload(false)))
	require.Equal(t, []byte{0xc3}, encodeToBytes(t, msgpackcore.BoolPayload(true)))
}

func TestEncodeSmallIntUsesInt8NotSharedFixint(t *testing.T) {
	// 5 must not reuse the positive-fixint byte: that byte range is also
	// EncodeUint's, and decode needs to tell KindInt and KindUint apart.
	require.Equal(t, []byte{msgpackcore.MarkerInt8, 0x05}, encodeToBytes(t, msgpackcore.IntPayload(5)))
}

func TestEncodeUintUsesFixintByte(t *testing.T) {
	require.Equal(t, []byte{0x05}, encodeToBytes(t, msgpackcore.UintPayload(5)))
}

func TestEncodeFixStr(t *testing.T) {
	got := encodeToBytes(t, msgpackcore.StrPayload([]byte("hi")))
	require.Equal(t, []byte{0xa2, 'h', 'i'}, got)
}

func TestEncodeEmptyArrayAndMap(t *testing.T) {
	require.Equal(t, []byte{0x90}, encodeToBytes(t, msgpackcore.ArrPayload()))
	require.Equal(t, []byte{0x80}, encodeToBytes(t, msgpackcore.MapPayload()))
}

func TestEncodeNestedArray(t *testing.T) {
	// uint payloads here so the fixint bytes stay 1 byte each; IntPayload
	// in this range now costs an extra byte (TestEncodeSmallIntUsesInt8NotSharedFixint).
	inner := msgpackcore.ArrPayload(msgpackcore.UintPayload(1), msgpackcore.UintPayload(2))
	outer := msgpackcore.ArrPayload(inner, msgpackcore.UintPayload(3))
	got := encodeToBytes(t, outer)
	// fixarray(2) [ fixarray(2) [1,2], 3 ]
	require.Equal(t, []byte{0x92, 0x92, 0x01, 0x02, 0x03}, got)
}

func TestEncodeMapWithStringKeys(t *testing.T) {
	m := msgpackcore.MapPayload()
	require.NoError(t, m.PutStr("a", msgpackcore.UintPayload(1)))
	got := encodeToBytes(t, m)
	require.Equal(t, []byte{0x81, 0xa1, 'a', 0x01}, got)
}

func TestEncodeTimestampValue(t *testing.T) {
	ts, err := msgpackcore.TimestampPayload(1000, 0)
	require.NoError(t, err)
	got := encodeToBytes(t, ts)
	require.Equal(t, msgpackcore.MarkerFixExt4, got[0])
}

func TestEncodeDeeplyNestedArrayDoesNotPanic(t *testing.T) {
	p := msgpackcore.IntPayload(1)
	for i := 0; i < 500; i++ {
		p = msgpackcore.ArrPayload(p)
	}
	require.NotPanics(t, func() {
		_ = encodeToBytes(t, p)
	})
}
