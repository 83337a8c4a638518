package macaroon

import (
	"encoding/base64"
	"slices"
	"testing"
)

func TestCaveatsV2RoundTrip(t *testing.T) {
	want := []string{"max_bandwidth=1000", "expiration=42"}
	raw := EncodeV2("lsat.example.com", "paid-reader", want, []byte("not a real signature"))

	got := Caveats(base64.StdEncoding.EncodeToString(raw))
	if !slices.Equal(got, want) {
		t.Errorf("wanted caveats %q, got: %q", want, got)
	}
}

func TestCaveatsV1RoundTrip(t *testing.T) {
	want := []string{"expiration=1700000000", "max_bandwidth=250"}
	raw := EncodeV1("lsat.example.com", "paid-reader", want, []byte("not a real signature"))

	got := Caveats(base64.StdEncoding.EncodeToString(raw))
	if !slices.Equal(got, want) {
		t.Errorf("wanted caveats %q, got: %q", want, got)
	}
}

func TestCaveatsURLSafeEncoding(t *testing.T) {
	want := []string{"max_bandwidth=500"}
	raw := EncodeV2("", "id", want, []byte{0xff, 0xfe, 0xfd})

	// URL-safe alphabet without padding, the way some servers emit it.
	got := Caveats(base64.RawURLEncoding.EncodeToString(raw))
	if !slices.Equal(got, want) {
		t.Errorf("wanted caveats %q, got: %q", want, got)
	}
}

func TestCaveatsGarbage(t *testing.T) {
	for _, tt := range []struct {
		name  string
		input string
	}{
		{name: "invalid base64", input: "not-valid-base64!!"},
		{name: "empty", input: ""},
		{name: "one byte", input: base64.StdEncoding.EncodeToString([]byte{0x02})},
		{name: "one byte v1", input: base64.StdEncoding.EncodeToString([]byte("0"))},
		{name: "random binary", input: base64.StdEncoding.EncodeToString([]byte{0x02, 0xde, 0xad, 0xbe, 0xef})},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if got := Caveats(tt.input); len(got) != 0 {
				t.Errorf("wanted no caveats, got: %q", got)
			}
		})
	}
}

func TestCaveatsV2Truncation(t *testing.T) {
	want := []string{"max_bandwidth=1000", "expiration=42", "max_bandwidth=500"}
	raw := EncodeV2("lsat.example.com", "paid-reader", want, []byte("not a real signature"))

	for i := 0; i <= len(raw); i++ {
		got := CaveatsFromBytes(raw[:i])
		if len(got) > len(want) || !slices.Equal(got, want[:len(got)]) {
			t.Errorf("prefix of length %d: wanted a prefix of %q, got: %q", i, want, got)
		}
	}
}

func TestCaveatsV2SignatureStops(t *testing.T) {
	raw := EncodeV2("", "id", []string{"max_bandwidth=100"}, []byte("sig"))

	// Anything after the signature field must be ignored.
	raw = appendFieldV2(raw, fieldIdentifier, []byte("max_bandwidth=9999"))

	want := []string{"max_bandwidth=100"}
	if got := caveatsV2(raw); !slices.Equal(got, want) {
		t.Errorf("wanted caveats %q, got: %q", want, got)
	}
}

func TestCaveatsV2OverlongField(t *testing.T) {
	raw := []byte{versionV2}
	raw = appendFieldV2(raw, fieldIdentifier, []byte("id"))
	raw = appendEOSV2(raw)
	raw = appendFieldV2(raw, fieldIdentifier, []byte("max_bandwidth=100"))
	raw = appendEOSV2(raw)

	// A field declaring more data than the buffer holds ends decoding.
	raw = appendUvarint(raw, uint64(fieldIdentifier))
	raw = appendUvarint(raw, 1<<20)
	raw = append(raw, "short"...)

	want := []string{"max_bandwidth=100"}
	if got := caveatsV2(raw); !slices.Equal(got, want) {
		t.Errorf("wanted caveats %q, got: %q", want, got)
	}
}

func TestCaveatsV2HeaderNotCaptured(t *testing.T) {
	// The identifier in the first section is the macaroon's own id, not
	// a caveat, even when it looks like one.
	raw := EncodeV2("", "max_bandwidth=123", []string{"expiration=42"}, nil)

	want := []string{"expiration=42"}
	if got := caveatsV2(raw); !slices.Equal(got, want) {
		t.Errorf("wanted caveats %q, got: %q", want, got)
	}
}

func TestCaveatsV1Malformed(t *testing.T) {
	for _, tt := range []struct {
		name string
		raw  []byte
		want []string
	}{
		{
			name: "invalid hex length",
			raw:  []byte("zzzzcid max_bandwidth=1\n"),
			want: nil,
		},
		{
			name: "length below minimum",
			raw:  []byte("0005cid x\n"),
			want: nil,
		},
		{
			name: "packet overruns buffer",
			raw:  append(appendPacketV1(nil, "cid", []byte("max_bandwidth=1")), "ffffcid "...),
			want: []string{"max_bandwidth=1"},
		},
		{
			name: "no space in body",
			raw:  []byte("0009cidxx\n"),
			want: nil,
		},
		{
			name: "uppercase hex length accepted",
			raw:  appendPacketV1([]byte("000Acid 1\n"), "cid", []byte("expiration=42")),
			want: []string{"1", "expiration=42"},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if got := caveatsV1(tt.raw); !slices.Equal(got, tt.want) {
				t.Errorf("wanted caveats %q, got: %q", tt.want, got)
			}
		})
	}
}

func TestCaveatsV1NonCidIgnored(t *testing.T) {
	var raw []byte
	raw = appendPacketV1(raw, "location", []byte("lsat.example.com"))
	raw = appendPacketV1(raw, "identifier", []byte("paid-reader"))
	raw = appendPacketV1(raw, "cid", []byte("expiration=1700000000"))
	raw = appendPacketV1(raw, "vid", []byte("third party stuff"))
	raw = appendPacketV1(raw, "signature", []byte("not a real signature"))

	want := []string{"expiration=1700000000"}
	if got := caveatsV1(raw); !slices.Equal(got, want) {
		t.Errorf("wanted caveats %q, got: %q", want, got)
	}
}

func TestUvarint(t *testing.T) {
	for _, tt := range []struct {
		name     string
		buf      []byte
		off      int
		wantVal  uint64
		wantNext int
		wantOK   bool
	}{
		{name: "single byte", buf: []byte{0x05}, wantVal: 5, wantNext: 1, wantOK: true},
		{name: "two bytes", buf: []byte{0xac, 0x02}, wantVal: 300, wantNext: 2, wantOK: true},
		{name: "offset", buf: []byte{0xff, 0x07}, off: 1, wantVal: 7, wantNext: 2, wantOK: true},
		{name: "truncated", buf: []byte{0x80}, wantVal: 0, wantNext: 1, wantOK: false},
		{name: "empty", buf: []byte{}, wantVal: 0, wantNext: 0, wantOK: false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			val, next, ok := uvarint(tt.buf, tt.off)
			if val != tt.wantVal || next != tt.wantNext || ok != tt.wantOK {
				t.Errorf("uvarint(%#v, %d) = (%d, %d, %v), wanted (%d, %d, %v)",
					tt.buf, tt.off, val, next, ok, tt.wantVal, tt.wantNext, tt.wantOK)
			}
		})
	}
}
