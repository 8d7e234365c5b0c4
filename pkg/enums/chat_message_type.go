package enums

import "fmt"

// ChatMessageType distinguishes user text from lifecycle notices.
type ChatMessageType string

const (
	ChatMessageTypeText    ChatMessageType = "text"
	ChatMessageTypeSystem  ChatMessageType = "system"
	ChatMessageTypePayment ChatMessageType = "payment"
	ChatMessageTypeJoin    ChatMessageType = "join"
	ChatMessageTypeLeave   ChatMessageType = "leave"
)

var validChatMessageTypes = []ChatMessageType{
	ChatMessageTypeText,
	ChatMessageTypeSystem,
	ChatMessageTypePayment,
	ChatMessageTypeJoin,
	ChatMessageTypeLeave,
}

// String implements fmt.Stringer.
func (c ChatMessageType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChatMessageType.
func (c ChatMessageType) IsValid() bool {
	for _, candidate := range validChatMessageTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChatMessageType converts raw input into a ChatMessageType.
func ParseChatMessageType(value string) (ChatMessageType, error) {
	for _, candidate := range validChatMessageTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid chat message type %q", value)
}
