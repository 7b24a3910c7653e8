package enums

import "fmt"

// ChatStatus marks whether a buyer-seller conversation is still open.
type ChatStatus string

const (
	ChatActive   ChatStatus = "active"
	ChatArchived ChatStatus = "archived"
	ChatClosed   ChatStatus = "closed"
)

var validChatStatuses = []ChatStatus{ChatActive, ChatArchived, ChatClosed}

// String implements fmt.Stringer.
func (s ChatStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ChatStatus.
func (s ChatStatus) IsValid() bool {
	for _, candidate := range validChatStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseChatStatus converts raw input into a ChatStatus.
func ParseChatStatus(value string) (ChatStatus, error) {
	for _, candidate := range validChatStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid chat status %q", value)
}

// SenderType identifies which side of a chat authored a message.
type SenderType string

const (
	SenderBuyer  SenderType = "buyer"
	SenderSeller SenderType = "seller"
)

// String implements fmt.Stringer.
func (s SenderType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SenderType.
func (s SenderType) IsValid() bool {
	return s == SenderBuyer || s == SenderSeller
}

// ParseSenderType converts raw input into a SenderType.
func ParseSenderType(value string) (SenderType, error) {
	switch SenderType(value) {
	case SenderBuyer, SenderSeller:
		return SenderType(value), nil
	default:
		return "", fmt.Errorf("invalid sender type %q", value)
	}
}
