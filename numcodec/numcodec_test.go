package numcodec

import "testing"

func TestToUnsignedBinary(t *testing.T) {
	tests := []struct {
		n    int64
		bits int
		want string
	}{
		{5, 8, "00000101"},
		{-1, 8, "11111111"},
		{-1, 4, "1111"},
		{256, 8, "00000000"}, // wraps modulo 2^8
		{0, 1, "0"},
	}
	for _, tt := range tests {
		got := ToUnsignedBinary(tt.n, tt.bits)
		if got != tt.want {
			t.Errorf("ToUnsignedBinary(%d, %d) = %q, want %q", tt.n, tt.bits, got, tt.want)
		}
	}
}

func TestFromTwosComplementBinary(t *testing.T) {
	tests := []struct {
		s    string
		want int64
	}{
		{"00000101", 5},
		{"11111111", -1},
		{"1000", -8},
		{"0111", 7},
	}
	for _, tt := range tests {
		got, err := FromTwosComplementBinary(tt.s)
		if err != nil {
			t.Fatalf("FromTwosComplementBinary(%q) error: %v", tt.s, err)
		}
		if got != tt.want {
			t.Errorf("FromTwosComplementBinary(%q) = %d, want %d", tt.s, got, tt.want)
		}
	}
}

func TestFromTwosComplementBinaryInvalid(t *testing.T) {
	if _, err := FromTwosComplementBinary("102"); err == nil {
		t.Fatal("expected error for non-binary digit")
	}
	if _, err := FromTwosComplementBinary(""); err == nil {
		t.Fatal("expected error for empty string")
	}
}

func TestHexToBinary(t *testing.T) {
	tests := []struct {
		s    string
		bits int
		want string
	}{
		{"0x5", 0, "101"},
		{"5", 8, "00000101"},
		{"0xFF", 4, "1111"}, // truncated from the left, keeping low bits
		{"0x0", 8, "00000000"},
	}
	for _, tt := range tests {
		got, err := HexToBinary(tt.s, tt.bits)
		if err != nil {
			t.Fatalf("HexToBinary(%q, %d) error: %v", tt.s, tt.bits, err)
		}
		if got != tt.want {
			t.Errorf("HexToBinary(%q, %d) = %q, want %q", tt.s, tt.bits, got, tt.want)
		}
	}
}

func TestHexToBinaryInvalid(t *testing.T) {
	if _, err := HexToBinary("0xZZ", 8); err == nil {
		t.Fatal("expected error for invalid hex digit")
	}
}

func TestBinaryToHex(t *testing.T) {
	tests := []struct {
		s      string
		digits int
		want   string
	}{
		{"101", 0, "5"},
		{"00000101", 2, "05"},
		{"11111111", 8, "000000ff"},
	}
	for _, tt := range tests {
		got, err := BinaryToHex(tt.s, tt.digits)
		if err != nil {
			t.Fatalf("BinaryToHex(%q, %d) error: %v", tt.s, tt.digits, err)
		}
		if got != tt.want {
			t.Errorf("BinaryToHex(%q, %d) = %q, want %q", tt.s, tt.digits, got, tt.want)
		}
	}
}

func TestBinaryToHexInvalid(t *testing.T) {
	if _, err := BinaryToHex("012", 0); err == nil {
		t.Fatal("expected error for non-binary digit")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 42, -42, 2147483647, -2147483648} {
		s := ToTwosComplementBinary(n, 32)
		got, err := FromTwosComplementBinary(s)
		if err != nil {
			t.Fatalf("round trip %d failed: %v", n, err)
		}
		if got != n {
			t.Errorf("round trip %d -> %q -> %d", n, s, got)
		}
	}
}

func TestSignExtend(t *testing.T) {
	if got := SignExtend(0x3FF, 10); got != -1 {
		t.Errorf("SignExtend(0x3FF,10) = %d, want -1", got)
	}
	if got := SignExtend(0x1FF, 10); got != 511 {
		t.Errorf("SignExtend(0x1FF,10) = %d, want 511", got)
	}
}
