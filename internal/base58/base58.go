// Package base58 encodes and decodes non-negative integers using the
// Bitcoin-style 58-character alphabet. Digit '0' and the letters 'O', 'I',
// 'l' are omitted to avoid visual ambiguity in printed patches.
package base58

import "fmt"

// Alphabet is the ordered set of symbols used for encoding. Index 0 maps to
// the value zero.
const Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const base = uint64(len(Alphabet))

var decodeTable [256]int8

func init() {
	for i := range decodeTable {
		decodeTable[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		decodeTable[Alphabet[i]] = int8(i)
	}
}

// Encode returns the base58 representation of n. Encode is a total function:
// every non-negative integer has a representation, and n == 0 encodes to the
// first alphabet character rather than the empty string.
func Encode(n uint64) string {
	if n == 0 {
		return Alphabet[0:1]
	}
	var buf [16]byte // ceil(64 / log2(58)) fits comfortably
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = Alphabet[n%base]
		n /= base
	}
	return string(buf[i:])
}

// Decode reconstructs the integer encoded by s using left-to-right Horner
// evaluation. It returns an error if s is empty or contains a character
// outside the alphabet.
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("base58: empty string")
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		d := decodeTable[s[i]]
		if d < 0 {
			return 0, fmt.Errorf("base58: invalid character %q at index %d in %q", s[i], i, s)
		}
		n = n*base + uint64(d)
	}
	return n, nil
}

// MustEncode is a convenience wrapper for call sites that only ever pass
// non-negative integers already in range (Encode never errors, so this just
// documents the int -> uint64 narrowing at the call site).
func MustEncode(n int) string {
	if n < 0 {
		panic(fmt.Sprintf("base58: negative value %d", n))
	}
	return Encode(uint64(n))
}

// DecodeInt decodes s into a non-negative int, for call sites that work with
// Go's native int rather than uint64 coordinates.
func DecodeInt(s string) (int, error) {
	n, err := Decode(s)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
