package domain

import (
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"
)

func TestParseWei(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0", want: "0"},
		{in: " 25000000000000000 ", want: "25000000000000000"},
		{in: "", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "1e18", wantErr: true},
		{in: "0x10", wantErr: true},
		{in: "115792089237316195423570985008687907853269984665640564039457584007913129639935", want: "115792089237316195423570985008687907853269984665640564039457584007913129639935"},
		{in: "115792089237316195423570985008687907853269984665640564039457584007913129639936", wantErr: true},
		{in: "1" + strings.Repeat("0", 100), wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseWei(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("ParseWei(%q) error = %v, want ErrInvalidAmount", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseWei(%q) error: %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Fatalf("ParseWei(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseEther(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1", want: "1000000000000000000"},
		{in: "0.025", want: "25000000000000000"},
		{in: "0.000000000000000001", want: "1"},
		{in: "0.0000000000000000001", wantErr: true},
		{in: "-0.5", wantErr: true},
		{in: "one", wantErr: true},
		{in: "1e30", want: "1" + strings.Repeat("0", 48)},
		{in: "2e59", wantErr: true},
		{in: "1e60", wantErr: true},
		{in: "1e2000000000", wantErr: true},
		{in: "1e-2000000000", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseEther(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("ParseEther(%q) error = %v, want ErrInvalidAmount", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseEther(%q) error: %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Fatalf("ParseEther(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFormatEther(t *testing.T) {
	if got := FormatEther(Ether(3)); got != "3" {
		t.Fatalf("FormatEther(3 ether) = %q", got)
	}
	wei, _ := ParseWei("25000000000000000")
	if got := FormatEther(wei); got != "0.025" {
		t.Fatalf("FormatEther = %q", got)
	}
	if got := FormatEther(nil); got != "0" {
		t.Fatalf("FormatEther(nil) = %q", got)
	}
}

func TestParseAddress(t *testing.T) {
	a, err := ParseAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	if err != nil {
		t.Fatalf("ParseAddress() error: %v", err)
	}
	b, err := ParseAddress("f39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	if err != nil {
		t.Fatalf("ParseAddress() bare error: %v", err)
	}
	if a != b {
		t.Fatalf("expected same identity for %s and %s", a.Hex(), b.Hex())
	}
	for _, bad := range []string{"", "0x1234", "0xzz9fd6e51aad88f6f4ce6ab8827279cfffb92266"} {
		if _, err := ParseAddress(bad); !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("ParseAddress(%q) error = %v", bad, err)
		}
	}
}

func TestSnapshotTotal(t *testing.T) {
	a, _ := ParseAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	b, _ := ParseAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	snap := LedgerSnapshot{Balances: map[Address]*big.Int{a: Ether(1), b: Ether(2)}}
	if snap.Total().Cmp(Ether(3)) != 0 {
		t.Fatalf("Total() = %s", snap.Total())
	}
}

func TestParseEtherBoundsExponentWork(t *testing.T) {
	start := time.Now()
	for _, in := range []string{"1e2000000000", "1e-2000000000", "9e999999999"} {
		if _, err := ParseEther(in); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("ParseEther(%q) error = %v, want ErrInvalidAmount", in, err)
		}
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("rejecting exponent amounts took %s", elapsed)
	}
}
