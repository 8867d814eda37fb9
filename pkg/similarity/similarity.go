// Package similarity implements the closed-form string metric used to score
// how closely an activity's wording resembles a product's name.
package similarity

// WinklerPrefixScale is the boost applied per shared leading rune.
const WinklerPrefixScale = 0.1

// WinklerMaxPrefix caps the shared prefix considered by the Winkler boost.
const WinklerMaxPrefix = 4

// JaroWinkler returns the Jaro-Winkler similarity of a and b in [0,1].
// Identical strings score 1; a comparison against an empty string scores 0.
// The result is symmetric bit for bit.
func JaroWinkler(a, b string) float64 {
	if a == b {
		return 1
	}
	if b < a {
		a, b = b, a
	}
	r1, r2 := []rune(a), []rune(b)

	dj := jaro(r1, r2)
	if dj == 0 {
		return 0
	}

	l := 0
	for l < WinklerMaxPrefix && l < len(r1) && l < len(r2) && r1[l] == r2[l] {
		l++
	}
	return dj + float64(l)*WinklerPrefixScale*(1-dj)
}

// Jaro returns the plain Jaro similarity of a and b.
func Jaro(a, b string) float64 {
	if a == b {
		return 1
	}
	if b < a {
		a, b = b, a
	}
	return jaro([]rune(a), []rune(b))
}

func jaro(r1, r2 []rune) float64 {
	len1, len2 := len(r1), len(r2)
	if len1 == 0 || len2 == 0 {
		return 0
	}

	// Negative when both inputs are single runes, which then never match.
	window := max(len1, len2)/2 - 1

	matched1 := make([]bool, len1)
	matched2 := make([]bool, len2)
	m := 0
	for i := 0; i < len1; i++ {
		start := max(0, i-window)
		end := min(i+window+1, len2)
		for j := start; j < end; j++ {
			if matched2[j] || r1[i] != r2[j] {
				continue
			}
			matched1[i] = true
			matched2[j] = true
			m++
			break
		}
	}
	if m == 0 {
		return 0
	}

	t := 0
	k := 0
	for i := 0; i < len1; i++ {
		if !matched1[i] {
			continue
		}
		for !matched2[k] {
			k++
		}
		if r1[i] != r2[k] {
			t++
		}
		k++
	}

	mf := float64(m)
	return (mf/float64(len1) + mf/float64(len2) + (mf-float64(t)/2)/mf) / 3
}
