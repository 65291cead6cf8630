// Package colorspace classifies clip color metadata, deciding whether a
// clip is HDR-encoded and normalizing the loosely typed metadata values
// backends report.
package colorspace

import (
	"strconv"
	"strings"

	"screengen/internal/media"
)

// Standardized integer codes (ITU-T H.273).
const (
	// TransferPQ is the SMPTE ST 2084 perceptual quantizer transfer code.
	TransferPQ = 16
	// TransferHLG is the ARIB STD-B67 hybrid log-gamma transfer code.
	TransferHLG = 18
	// PrimariesBT2020 is the wide-gamut BT.2020 primaries code.
	PrimariesBT2020 = 9

	// MatrixRGB is the identity matrix code used when re-tagging RGB input.
	MatrixRGB = 0
	// RangeFull is the full value range code used when re-tagging RGB input.
	RangeFull = 0
)

// Descriptor is a clip's color representation derived from first-frame
// metadata. Fields are nil when the metadata is missing or malformed.
type Descriptor struct {
	Matrix    *int
	Transfer  *int
	Primaries *int
	Range     *int
}

// Describe reads the color metadata fields out of raw frame props.
func Describe(props media.Props) Descriptor {
	return Descriptor{
		Matrix:    DecodeCode(props[media.PropMatrix]),
		Transfer:  DecodeCode(props[media.PropTransfer]),
		Primaries: DecodeCode(props[media.PropPrimaries]),
		Range:     DecodeCode(props[media.PropRange]),
	}
}

// IsHDR reports whether the descriptor identifies HDR content: a PQ or
// HLG transfer combined with BT.2020 primaries. Missing fields can never
// assert HDR.
func (d Descriptor) IsHDR() bool {
	if d.Transfer == nil || d.Primaries == nil {
		return false
	}
	if *d.Primaries != PrimariesBT2020 {
		return false
	}
	return *d.Transfer == TransferPQ || *d.Transfer == TransferHLG
}

// SourceHint deduces the tonemap source-colorspace hint from the
// descriptor: PQ or HLG over wide-gamut primaries maps to the matching
// hint code; anything else yields no hint.
func (d Descriptor) SourceHint() *int {
	if d.Primaries == nil || *d.Primaries != PrimariesBT2020 || d.Transfer == nil {
		return nil
	}
	switch *d.Transfer {
	case TransferPQ:
		hint := media.SrcCSPPQ
		return &hint
	case TransferHLG:
		hint := media.SrcCSPHLG
		return &hint
	}
	return nil
}

// DecodeCode normalizes a raw metadata value to an integer code. Values
// arrive as integers, floats, strings, or raw bytes depending on the
// backend; undecodable or non-numeric values are treated as absent, not
// as an error.
func DecodeCode(value any) *int {
	switch v := value.(type) {
	case nil:
		return nil
	case int:
		return intPtr(v)
	case int32:
		return intPtr(int(v))
	case int64:
		return intPtr(int(v))
	case uint:
		return intPtr(int(v))
	case uint32:
		return intPtr(int(v))
	case uint64:
		return intPtr(int(v))
	case float64:
		n := int(v)
		if float64(n) != v {
			return nil
		}
		return intPtr(n)
	case float32:
		return DecodeCode(float64(v))
	case []byte:
		return parseCode(string(v))
	case string:
		return parseCode(v)
	default:
		return nil
	}
}

func parseCode(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return intPtr(n)
}

func intPtr(n int) *int {
	return &n
}
