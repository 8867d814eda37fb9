package taxonomy

import (
	"fmt"
	"strconv"
	"strings"
)

// ProductLevel is the depth of a product/service code, encoded by zero padding.
type ProductLevel string

// Product levels.
const (
	LevelDivision ProductLevel = "DIVISION" // NN000000
	LevelGroup    ProductLevel = "GROUP"    // NNNN0000
	LevelClass    ProductLevel = "CLASS"    // NNNNNN00
	LevelProduct  ProductLevel = "PRODUCT"  // NNNNNNNN
)

// ProductCodeLength is the fixed width of every product/service code.
const ProductCodeLength = 8

// SyntheticPrefix marks placeholder names of generated product nodes.
const SyntheticPrefix = "[SYNTHETIC]"

// String returns the string representation of the level.
func (l ProductLevel) String() string {
	return string(l)
}

// ParseProductLevel parses a level name, case-insensitively.
func ParseProductLevel(s string) (ProductLevel, error) {
	switch l := ProductLevel(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelDivision, LevelGroup, LevelClass, LevelProduct:
		return l, nil
	}
	return "", fmt.Errorf("unknown product level %q", s)
}

// Product is an entry of the products/services catalog.
type Product struct {
	Code        string         `json:"code" yaml:"code"`
	Name        string         `json:"name" yaml:"name"`
	Level       ProductLevel   `json:"level" yaml:"level"`
	ParentCode  string         `json:"parent_code,omitempty" yaml:"parent_code,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Division returns the 2-digit division prefix of the product code.
func (p Product) Division() string {
	return Division(p.Code)
}

// Division returns the 2-digit division prefix of a product code.
func Division(code string) string {
	if len(code) < 2 {
		return code
	}
	return code[:2]
}

// IsServiceDivision reports whether a division number denotes services.
func IsServiceDivision(division string, floor int) bool {
	n, err := strconv.Atoi(division)
	if err != nil {
		return false
	}
	return n >= floor
}

// ProductPosition is the place of a code in the fixed product scheme.
type ProductPosition struct {
	Level  ProductLevel
	Parent string // empty for divisions
	// Ancestors are the strict ancestors, root first, without duplicates.
	Ancestors []string
}

// ValidateProductCode checks that code is a well-formed product code.
func ValidateProductCode(code string) error {
	if len(code) != ProductCodeLength {
		return codeError(Products, code, fmt.Sprintf("length %d, want %d", len(code), ProductCodeLength))
	}
	if !isDigits(code) {
		return codeError(Products, code, "code must contain only digits")
	}
	if code[:2] == "00" {
		return codeError(Products, code, "division 00 does not exist")
	}
	return nil
}

// ProductAncestors returns l1, l2 and l3 for an 8-digit code.
func ProductAncestors(code string) (l1, l2, l3 string) {
	return code[:2] + "000000", code[:4] + "0000", code[:6] + "00"
}

// ClassifyProduct derives the level, direct parent and ancestor chain of a code.
func ClassifyProduct(code string) (ProductPosition, error) {
	if err := ValidateProductCode(code); err != nil {
		return ProductPosition{}, err
	}
	l1, l2, l3 := ProductAncestors(code)
	switch code {
	case l1:
		return ProductPosition{Level: LevelDivision}, nil
	case l2:
		return ProductPosition{Level: LevelGroup, Parent: l1, Ancestors: []string{l1}}, nil
	case l3:
		return ProductPosition{Level: LevelClass, Parent: l2, Ancestors: dedupe(l1, l2)}, nil
	}
	return ProductPosition{Level: LevelProduct, Parent: l3, Ancestors: dedupe(l1, l2, l3)}, nil
}

// dedupe drops repeated codes, keeping the first occurrence. A class such as
// 10000100 has l2 == l1, which must be synthesized once.
func dedupe(codes ...string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if len(out) > 0 && out[len(out)-1] == c {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SyntheticProductName is the placeholder name of a generated product node.
func SyntheticProductName(level ProductLevel, code string) string {
	return fmt.Sprintf("%s %s - %s", SyntheticPrefix, level, code)
}

// IsSyntheticName reports whether name is a generated placeholder.
func IsSyntheticName(name string) bool {
	return strings.HasPrefix(name, SyntheticPrefix)
}

// ProductUpdate is a level/parent correction for one product.
type ProductUpdate struct {
	Code       string       `json:"code" yaml:"code"`
	Level      ProductLevel `json:"level" yaml:"level"`
	ParentCode string       `json:"parent_code,omitempty" yaml:"parent_code,omitempty"`
}

// Rename replaces the name of one product node.
type Rename struct {
	Code string `json:"code" yaml:"code"`
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}
