package colorspace

import (
	"testing"

	"screengen/internal/media"
)

func TestIsHDR(t *testing.T) {
	tests := []struct {
		name  string
		props media.Props
		want  bool
	}{
		{
			name:  "PQ with BT.2020 primaries",
			props: media.Props{media.PropTransfer: 16, media.PropPrimaries: 9},
			want:  true,
		},
		{
			name:  "HLG with BT.2020 primaries",
			props: media.Props{media.PropTransfer: 18, media.PropPrimaries: 9},
			want:  true,
		},
		{
			name:  "BT.709 transfer with BT.2020 primaries",
			props: media.Props{media.PropTransfer: 1, media.PropPrimaries: 9},
			want:  false,
		},
		{
			name:  "PQ with BT.709 primaries",
			props: media.Props{media.PropTransfer: 16, media.PropPrimaries: 1},
			want:  false,
		},
		{
			name:  "missing transfer",
			props: media.Props{media.PropPrimaries: 9},
			want:  false,
		},
		{
			name:  "missing primaries",
			props: media.Props{media.PropTransfer: 16},
			want:  false,
		},
		{
			name:  "empty props",
			props: media.Props{},
			want:  false,
		},
		{
			name:  "byte-encoded values",
			props: media.Props{media.PropTransfer: []byte("16"), media.PropPrimaries: []byte("9")},
			want:  true,
		},
		{
			name:  "malformed transfer treated as absent",
			props: media.Props{media.PropTransfer: []byte("\xff\xfe"), media.PropPrimaries: 9},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.props).IsHDR(); got != tt.want {
				t.Errorf("IsHDR() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSourceHint(t *testing.T) {
	tests := []struct {
		name  string
		props media.Props
		want  *int
	}{
		{
			name:  "PQ hint",
			props: media.Props{media.PropTransfer: 16, media.PropPrimaries: 9},
			want:  intPtr(media.SrcCSPPQ),
		},
		{
			name:  "HLG hint",
			props: media.Props{media.PropTransfer: 18, media.PropPrimaries: 9},
			want:  intPtr(media.SrcCSPHLG),
		},
		{
			name:  "no hint without wide gamut",
			props: media.Props{media.PropTransfer: 16, media.PropPrimaries: 1},
			want:  nil,
		},
		{
			name:  "no hint for SDR transfer",
			props: media.Props{media.PropTransfer: 1, media.PropPrimaries: 9},
			want:  nil,
		},
		{
			name:  "no hint when transfer missing",
			props: media.Props{media.PropPrimaries: 9},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.props).SourceHint()
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("SourceHint() = %v, want %v", got, tt.want)
			case *got != *tt.want:
				t.Errorf("SourceHint() = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestDecodeCode(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *int
	}{
		{name: "int", value: 9, want: intPtr(9)},
		{name: "int64", value: int64(16), want: intPtr(16)},
		{name: "uint64", value: uint64(18), want: intPtr(18)},
		{name: "whole float", value: float64(9), want: intPtr(9)},
		{name: "fractional float", value: 9.5, want: nil},
		{name: "numeric string", value: "16", want: intPtr(16)},
		{name: "padded bytes", value: []byte(" 18 "), want: intPtr(18)},
		{name: "non-numeric string", value: "bt2020", want: nil},
		{name: "undecodable bytes", value: []byte{0xff, 0xfe}, want: nil},
		{name: "nil", value: nil, want: nil},
		{name: "unsupported type", value: struct{}{}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeCode(tt.value)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("DecodeCode(%v) = %v, want %v", tt.value, got, tt.want)
			case *got != *tt.want:
				t.Errorf("DecodeCode(%v) = %d, want %d", tt.value, *got, *tt.want)
			}
		})
	}
}
