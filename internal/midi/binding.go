package midi

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gitlab.com/gomidi/midi/v2"
)

// MessageType is the kind of controller message a widget emits
type MessageType string

const (
	MessageTypeCC   MessageType = "CC"
	MessageTypeRPN  MessageType = "RPN"
	MessageTypeNRPN MessageType = "NRPN"
)

// ErrInvalidBinding is returned when a binding cannot be encoded
var ErrInvalidBinding = errors.New("invalid MIDI binding")

// Controller numbers used to address registered and non-registered parameters
const (
	ccDataEntryMSB = 6
	ccDataEntryLSB = 38
	ccNRPNLSB      = 98
	ccNRPNMSB      = 99
	ccRPNLSB       = 100
	ccRPNMSB       = 101
)

// Binding describes the message a widget sends
type Binding struct {
	MessageType   MessageType `json:"messageType"`
	MessageNumber int         `json:"messageNumber"`
	MessageValue  int         `json:"messageValue"`
	MessageMin    int         `json:"messageMin"`
	MessageMax    int         `json:"messageMax"`
}

// DefaultBinding returns CC 1 with value 0 over the full 7-bit range
func DefaultBinding() Binding {
	return Binding{
		MessageType:   MessageTypeCC,
		MessageNumber: 1,
		MessageValue:  0,
		MessageMin:    0,
		MessageMax:    127,
	}
}

// ParseMessageType converts a tag into a MessageType
func ParseMessageType(s string) (MessageType, error) {
	switch t := MessageType(s); t {
	case MessageTypeCC, MessageTypeRPN, MessageTypeNRPN:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown message type %q", ErrInvalidBinding, s)
}

// Limit returns the largest number or value the message type can carry
func (t MessageType) Limit() int {
	if t == MessageTypeCC {
		return 127
	}
	return 16383
}

// ValidateMessage checks the type, number and value fit the message type.
// The range fields are not inspected.
func (b Binding) ValidateMessage() error {
	limit := b.MessageType.Limit()
	err := validation.ValidateStruct(&b,
		validation.Field(&b.MessageType, validation.Required,
			validation.In(MessageTypeCC, MessageTypeRPN, MessageTypeNRPN)),
		validation.Field(&b.MessageNumber, validation.Min(0), validation.Max(limit)),
		validation.Field(&b.MessageValue, validation.Min(0), validation.Max(limit)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBinding, err)
	}
	return nil
}

// Validate checks every field fits the message type and min <= max.
// The value is not required to lie within [MessageMin, MessageMax].
func (b Binding) Validate() error {
	if err := b.ValidateMessage(); err != nil {
		return err
	}
	limit := b.MessageType.Limit()
	err := validation.ValidateStruct(&b,
		validation.Field(&b.MessageMin, validation.Min(0), validation.Max(limit)),
		validation.Field(&b.MessageMax, validation.Min(0), validation.Max(limit)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBinding, err)
	}
	if b.MessageMin > b.MessageMax {
		return fmt.Errorf("%w: min %d above max %d", ErrInvalidBinding, b.MessageMin, b.MessageMax)
	}
	return nil
}

func (b Binding) String() string {
	return fmt.Sprintf("%s %d=%d [%d..%d]", b.MessageType, b.MessageNumber, b.MessageValue, b.MessageMin, b.MessageMax)
}

// Messages encodes the binding's current value as channel messages.
// Only the type, number and value need to be valid.
// CC sends a single control change. RPN and NRPN select the parameter
// number and then send the 14-bit value through data entry.
func (b Binding) Messages(channel uint8) ([]midi.Message, error) {
	if err := b.ValidateMessage(); err != nil {
		return nil, err
	}
	if channel > 15 {
		return nil, fmt.Errorf("%w: channel %d", ErrInvalidBinding, channel)
	}

	switch b.MessageType {
	case MessageTypeCC:
		return []midi.Message{
			midi.ControlChange(channel, uint8(b.MessageNumber), uint8(b.MessageValue)),
		}, nil
	case MessageTypeRPN:
		return parameterMessages(channel, ccRPNMSB, ccRPNLSB, b.MessageNumber, b.MessageValue), nil
	default:
		return parameterMessages(channel, ccNRPNMSB, ccNRPNLSB, b.MessageNumber, b.MessageValue), nil
	}
}

func parameterMessages(channel, msbCC, lsbCC uint8, number, value int) []midi.Message {
	return []midi.Message{
		midi.ControlChange(channel, msbCC, uint8(number>>7)),
		midi.ControlChange(channel, lsbCC, uint8(number&0x7F)),
		midi.ControlChange(channel, ccDataEntryMSB, uint8(value>>7)),
		midi.ControlChange(channel, ccDataEntryLSB, uint8(value&0x7F)),
	}
}
