package domain

import "math/bits"

// IsPowerOfTwo reports whether n is an exact power of two (n >= 1).
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// LargestPowerOfTwo returns the largest power of two <= n, or 0 when n < 1.
func LargestPowerOfTwo(n int) int {
	if n < 1 {
		return 0
	}
	return 1 << (bits.Len(uint(n)) - 1)
}

// Log2 returns floor(log2(n)) for n >= 1 and 0 otherwise.
func Log2(n int) int {
	if n < 1 {
		return 0
	}
	return bits.Len(uint(n)) - 1
}

// PairUp pairs degrees consecutively (0-1, 2-3, ...). An odd trailing degree is returned
// as leftover rather than dropped.
func PairUp(degrees []Degree) (matches []Match, leftover []Degree) {
	matches = make([]Match, 0, len(degrees)/2)
	for i := 0; i+1 < len(degrees); i += 2 {
		matches = append(matches, Match{A: degrees[i], B: degrees[i+1]})
	}
	if len(degrees)%2 == 1 {
		leftover = []Degree{degrees[len(degrees)-1]}
	}
	return matches, leftover
}

// IndexOf returns the position of the degree with the given id, or -1.
func IndexOf(degrees []Degree, id string) int {
	for i, d := range degrees {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// InsertAt returns degrees with d spliced in at index, clamped to [0, len(degrees)].
func InsertAt(degrees []Degree, index int, d Degree) []Degree {
	if index < 0 {
		index = 0
	}
	if index > len(degrees) {
		index = len(degrees)
	}
	out := make([]Degree, 0, len(degrees)+1)
	out = append(out, degrees[:index]...)
	out = append(out, d)
	return append(out, degrees[index:]...)
}

// RemoveAt returns degrees without the entry at index.
func RemoveAt(degrees []Degree, index int) []Degree {
	out := make([]Degree, 0, len(degrees))
	out = append(out, degrees[:index]...)
	return append(out, degrees[index+1:]...)
}
