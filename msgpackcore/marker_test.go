package msgpackcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkerClassification(t *testing.T) {
	cases := []struct {
		name string
		b    byte
		want TokenKind
	}{
		{"posfixint min", 0x00, TokenPosFixInt},
		{"posfixint max", 0x7f, TokenPosFixInt},
		{"fixmap min", 0x80, TokenFixMap},
		{"fixarray min", 0x90, TokenFixArray},
		{"fixstr min", 0xa0, TokenFixStr},
		{"nil", 0xc0, TokenNil},
		{"reserved", 0xc1, TokenInvalid},
		{"false", 0xc2, TokenFalse},
		{"true", 0xc3, TokenTrue},
		{"bin8", 0xc4, TokenBin8},
		{"ext32", 0xc9, TokenExt32},
		{"float32", 0xca, TokenFloat32},
		{"float64", 0xcb, TokenFloat64},
		{"uint64", 0xcf, TokenUint64},
		{"int64", 0xd3, TokenInt64},
		{"fixext16", 0xd8, TokenFixExt16},
		{"str32", 0xdb, TokenStr32},
		{"map32", 0xdf, TokenMap32},
		{"negfixint min", 0xe0, TokenNegFixInt},
		{"negfixint max", 0xff, TokenNegFixInt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Marker(tc.b))
		})
	}
}

func TestMarkerReservedIsInvalid(t *testing.T) {
	require.Equal(t, TokenInvalid, Marker(MarkerReserved))
}

func TestTokenKindString(t *testing.T) {
	require.Equal(t, "Nil", TokenNil.String())
	require.Contains(t, TokenKind(200).String(), "TokenKind")
}

func TestKindString(t *testing.T) {
	require.Equal(t, "map", KindMap.String())
	require.Contains(t, Kind(200).String(), "Kind")
}
