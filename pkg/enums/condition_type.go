package enums

import "fmt"

// ConditionType grades the wear of a secondhand item.
type ConditionType string

const (
	ConditionNew       ConditionType = "new"
	ConditionLikeNew   ConditionType = "like_new"
	ConditionGood      ConditionType = "good"
	ConditionFair      ConditionType = "fair"
	ConditionForRepair ConditionType = "for_repair"
)

var validConditionTypes = []ConditionType{
	ConditionNew,
	ConditionLikeNew,
	ConditionGood,
	ConditionFair,
	ConditionForRepair,
}

// String implements fmt.Stringer.
func (c ConditionType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ConditionType.
func (c ConditionType) IsValid() bool {
	for _, candidate := range validConditionTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseConditionType converts raw input into a ConditionType.
func ParseConditionType(value string) (ConditionType, error) {
	for _, candidate := range validConditionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid condition type %q", value)
}
