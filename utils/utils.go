package utils

import "os"

///////////////////////////////////////////////////////////////////////////////
// Number Formatting — No fmt, No strconv
///////////////////////////////////////////////////////////////////////////////

// Utoa renders an unsigned integer in decimal.
//
//go:nosplit
func Utoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Itoa renders a signed integer in decimal.
//
//go:nosplit
func Itoa(n int) string {
	if n < 0 {
		return "-" + Utoa(uint64(-int64(n)))
	}
	return Utoa(uint64(n))
}

const hexDigits = "0123456789abcdef"

// Hex64 renders v as 0x-prefixed lowercase hex without leading zeros.
//
//go:nosplit
func Hex64(v uint64) string {
	if v == 0 {
		return "0x0"
	}
	var buf [18]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = hexDigits[v&0xF]
		v >>= 4
	}
	i--
	buf[i] = 'x'
	i--
	buf[i] = '0'
	return string(buf[i:])
}

///////////////////////////////////////////////////////////////////////////////
// Raw Output — Unbuffered, Unformatted
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg to stderr as-is.
//
//go:nosplit
//go:inline
func PrintWarning(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// PrintInfo writes msg to stdout as-is.
//
//go:nosplit
//go:inline
func PrintInfo(msg string) {
	_, _ = os.Stdout.WriteString(msg)
}
