package isa

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRegister resolves a register operand (with leading '%') to its
// numeric index 0-31. Accepts %r0-%r31 and the window aliases %g0-%g7,
// %o0-%o7, %l0-%l7, %i0-%i7, plus %sp (alias for %o6) and %fp (alias for
// %i6).
func ParseRegister(tok string) (int, error) {
	s := strings.TrimPrefix(tok, "%")
	s = strings.ToLower(s)

	switch s {
	case "sp":
		return 14, nil
	case "fp":
		return 30, nil
	}

	if len(s) >= 2 {
		base := -1
		switch s[0] {
		case 'g':
			base = 0
		case 'o':
			base = 8
		case 'l':
			base = 16
		case 'i':
			base = 24
		}
		if base >= 0 {
			n, err := strconv.Atoi(s[1:])
			if err != nil || n < 0 || n > 7 {
				return 0, fmt.Errorf("invalid register: %%%s", s)
			}
			return base + n, nil
		}
	}

	if strings.HasPrefix(s, "r") {
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 0 || n > 31 {
			return 0, fmt.Errorf("invalid register: %%%s", s)
		}
		return n, nil
	}

	return 0, fmt.Errorf("invalid register: %%%s", s)
}

// IsPSR reports whether tok names the processor state register (%psr).
func IsPSR(tok string) bool {
	return strings.EqualFold(strings.TrimPrefix(tok, "%"), "psr")
}

// RegisterName renders register index n in canonical %rN form.
func RegisterName(n int) string {
	return fmt.Sprintf("%%r%d", n)
}
