package taxonomy

import "sort"

// Index is a run-scoped lookup of catalog entries by code. It is created
// per repair or match run and updated in place as synthetic nodes appear,
// so later entries in the same run see ancestors created earlier.
type Index[T any] struct {
	byCode map[string]T
}

// NewIndex creates an empty index sized for n entries.
func NewIndex[T any](n int) *Index[T] {
	return &Index[T]{byCode: make(map[string]T, n)}
}

// Put stores v under code, replacing any previous entry.
func (ix *Index[T]) Put(code string, v T) {
	ix.byCode[code] = v
}

// Add stores v under code unless the code is already present.
// It reports whether v was stored.
func (ix *Index[T]) Add(code string, v T) bool {
	if _, ok := ix.byCode[code]; ok {
		return false
	}
	ix.byCode[code] = v
	return true
}

// Get returns the entry for code.
func (ix *Index[T]) Get(code string) (T, bool) {
	v, ok := ix.byCode[code]
	return v, ok
}

// Has reports whether code is present.
func (ix *Index[T]) Has(code string) bool {
	_, ok := ix.byCode[code]
	return ok
}

// Len returns the number of entries.
func (ix *Index[T]) Len() int {
	return len(ix.byCode)
}

// Codes returns all codes in ascending order.
func (ix *Index[T]) Codes() []string {
	codes := make([]string, 0, len(ix.byCode))
	for c := range ix.byCode {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// FirstOf returns the first of codes present in the index.
func (ix *Index[T]) FirstOf(codes []string) (string, T, bool) {
	for _, c := range codes {
		if v, ok := ix.byCode[c]; ok {
			return c, v, true
		}
	}
	var zero T
	return "", zero, false
}
