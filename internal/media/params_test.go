package media

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestUnsupportedParams(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "plural marker with two names",
			err:  &ParamError{Names: []string{"gamut_mapping", "tone_mapping_function"}},
			want: []string{"gamut_mapping", "tone_mapping_function"},
		},
		{
			name: "singular marker",
			err:  errors.New("Tonemap: the filter does not take argument named 'smoothing_period'"),
			want: []string{"smoothing_period"},
		},
		{
			name: "quoted and parenthesized names",
			err:  errors.New(`plugin does not take argument(s) named ("dst_min", 'use_dovi')`),
			want: []string{"dst_min", "use_dovi"},
		},
		{
			name: "unrelated error",
			err:  errors.New("out of memory"),
			want: nil,
		},
		{
			name: "nil error",
			err:  nil,
			want: nil,
		},
		{
			name: "wrapped param error",
			err:  fmt.Errorf("attempt failed: %w", &ParamError{Names: []string{"src_csp"}}),
			want: []string{"src_csp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnsupportedParams(tt.err)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UnsupportedParams() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseKernel(t *testing.T) {
	tests := []struct {
		in      string
		want    Kernel
		wantErr bool
	}{
		{in: "spline36", want: KernelSpline36},
		{in: "Lanczos", want: KernelLanczos},
		{in: " point ", want: KernelPoint},
		{in: "spline48", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKernel(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKernel(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKernel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCacheSuffix(t *testing.T) {
	if suffix, err := CacheSuffix(LoaderFFMS2); err != nil || suffix != ".ffindex" {
		t.Errorf("ffms2 suffix = %q, %v", suffix, err)
	}
	if suffix, err := CacheSuffix(LoaderLSMAS); err != nil || suffix != ".lwi" {
		t.Errorf("lsmas suffix = %q, %v", suffix, err)
	}
	if _, err := CacheSuffix("dgdecode"); err == nil {
		t.Error("expected error for unknown loader")
	}
}

func TestKwArgsCopy(t *testing.T) {
	original := KwArgs{ParamDstMax: 120.0, ParamSrcCSP: SrcCSPPQ}
	clone := original.Copy()
	delete(clone, ParamSrcCSP)

	if _, ok := original[ParamSrcCSP]; !ok {
		t.Error("Copy() must not share storage with the original")
	}
}
