package abi

// WriteError writes a NUL-terminated diagnostic for err into the
// caller-owned slot dst, truncating to capacity. It returns the number of
// message bytes written (excluding the terminator). A nil err or an empty
// dst writes nothing; dst is only ever touched on failure.
func WriteError(dst []byte, err error) int {
	if err == nil || len(dst) == 0 {
		return 0
	}

	msg := err.Error()
	n := len(msg)
	if n > len(dst)-1 {
		n = len(dst) - 1
	}
	copy(dst, msg[:n])
	dst[n] = 0
	return n
}

// ErrorString reads a diagnostic previously written by WriteError,
// stopping at the NUL terminator. An untouched or empty slot reads as "".
func ErrorString(buf []byte) string {
	for i, c := range buf {
		if c == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
