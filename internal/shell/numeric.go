package shell

import (
	"strconv"

	"nvcgo/internal/kernel"
)

// formatValue and parseValue give `examine`/`force` a human-typeable
// decimal rendering of a signal's bytes, little-endian two's complement —
// the same convention internal/jit and internal/elab use internally, so a
// value echoed back here round-trips into a process's own arithmetic
// exactly (duplicated rather than exported from jit, per that package's
// decision to keep its numeric helpers unexported).

func formatValue(v kernel.Value) string {
	var x int64
	for i := len(v) - 1; i >= 0; i-- {
		x = x<<8 | int64(v[i])
	}
	if len(v) > 0 && len(v) < 8 && v[len(v)-1]&0x80 != 0 {
		x |= -1 << (uint(len(v)) * 8)
	}
	return strconv.FormatInt(x, 10)
}

func parseValue(s string, width int) (kernel.Value, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	if width <= 0 {
		width = 4
	}
	out := make(kernel.Value, width)
	for i := 0; i < width; i++ {
		out[i] = byte(n)
		n >>= 8
	}
	return out, nil
}
