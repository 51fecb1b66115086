package shell

import (
	"fmt"
	"strconv"
	"strings"

	"nvcgo/internal/kernel"
)

// unitScale maps a VHDL time-literal unit to its femtosecond multiplier
// (§3's Time is 64-bit femtoseconds), for parsing `run`/`wait for`
// arguments typed at the shell the same way they appear in source.
var unitScale = map[string]int64{
	"fs":  1,
	"ps":  1_000,
	"ns":  1_000_000,
	"us":  1_000_000_000,
	"ms":  1_000_000_000_000,
	"sec": 1_000_000_000_000_000,
}

// ParseDuration parses a two-token VHDL time literal such as "10 ns" or
// "1ns" into a kernel.Time delta.
func ParseDuration(s string) (kernel.Time, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && (s[i] == '-' || s[i] == '+' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("shell: %q is not a time literal", s)
	}
	numPart := s[:i]
	unitPart := strings.TrimSpace(s[i:])
	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("shell: %q is not a time literal: %w", s, err)
	}
	scale, ok := unitScale[strings.ToLower(unitPart)]
	if !ok {
		return 0, fmt.Errorf("shell: unknown time unit %q", unitPart)
	}
	return kernel.Time(n * scale), nil
}
