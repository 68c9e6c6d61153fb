package enums

import "fmt"

// PointTransactionType classifies entries in the append-only points log.
type PointTransactionType string

const (
	PointTransactionTypeEarned PointTransactionType = "earned"
)

var validPointTransactionTypes = []PointTransactionType{
	PointTransactionTypeEarned,
}

// String implements fmt.Stringer.
func (p PointTransactionType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PointTransactionType.
func (p PointTransactionType) IsValid() bool {
	for _, candidate := range validPointTransactionTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePointTransactionType converts raw input into a PointTransactionType.
func ParsePointTransactionType(value string) (PointTransactionType, error) {
	for _, candidate := range validPointTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid point transaction type %q", value)
}
