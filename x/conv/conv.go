// Package conv formats numbers into caller-owned byte slices without fmt.
package conv

const hexDigits = "0123456789abcdef"

// AppendUint appends the decimal form of n to dst.
func AppendUint(dst []byte, n uint64) []byte {
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return append(dst, tmp[i:]...)
}

// AppendInt appends the decimal form of n to dst, with a leading '-' when
// negative. The most negative int64 is handled.
func AppendInt(dst []byte, n int64) []byte {
	if n < 0 {
		dst = append(dst, '-')
		return AppendUint(dst, uint64(-(n+1))+1)
	}
	return AppendUint(dst, uint64(n))
}

// AppendHex8 appends b as "0x" and two lowercase hex digits.
func AppendHex8(dst []byte, b byte) []byte {
	return append(dst, '0', 'x', hexDigits[b>>4], hexDigits[b&0x0F])
}

// Hex8 returns AppendHex8 as a string, for println.
func Hex8(b byte) string {
	var buf [4]byte
	return string(AppendHex8(buf[:0], b))
}
