package midi

import (
	"errors"
	"fmt"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver
	"go.uber.org/zap"
)

// ErrPortNotFound is returned when a named port is not connected
var ErrPortNotFound = errors.New("MIDI port not found")

// PortLister provides the names of the connected MIDI ports
type PortLister interface {
	ListInPorts() []string
	ListOutPorts() []string
}

// Manager handles MIDI port discovery and sending
type Manager struct {
	mu  sync.RWMutex
	log *zap.Logger
}

// NewManager creates a new MIDI manager
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log}
}

// Close cleans up the MIDI driver
func (m *Manager) Close() {
	midi.CloseDriver()
}

// ListInPorts returns the names of available MIDI input ports
func (m *Manager) ListInPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ins := midi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// ListOutPorts returns the names of available MIDI output ports
func (m *Manager) ListOutPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outs := midi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

// GetOutPort returns an output port by name
func (m *Manager) GetOutPort(name string) (drivers.Out, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.findOutPort(name)
	if out == nil {
		return nil, fmt.Errorf("%w: %s", ErrPortNotFound, name)
	}
	return out, nil
}

// Send writes msgs to the named output port in order
func (m *Manager) Send(outPortName string, msgs ...midi.Message) error {
	if outPortName == "" {
		return fmt.Errorf("%w: no output selected", ErrPortNotFound)
	}

	outPort, err := m.GetOutPort(outPortName)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	send, err := midi.SendTo(outPort)
	if err != nil {
		return fmt.Errorf("failed to create sender: %w", err)
	}

	for _, msg := range msgs {
		if err := send(msg); err != nil {
			return fmt.Errorf("send failed: %w", err)
		}
		m.log.Debug("sent", zap.String("port", outPortName), zap.String("msg", msg.String()))
	}
	return nil
}

// SendBinding encodes b on the given 1-based channel and sends it
func (m *Manager) SendBinding(outPortName string, channel int, b Binding) error {
	msgs, err := b.Messages(ChannelIndex(channel))
	if err != nil {
		return err
	}
	return m.Send(outPortName, msgs...)
}

// ChannelIndex converts a 1-16 channel to the 0-based wire value.
// Out of range channels fall back to channel 1.
func ChannelIndex(channel int) uint8 {
	if channel < 1 || channel > 16 {
		return 0
	}
	return uint8(channel - 1)
}

func (m *Manager) findOutPort(name string) drivers.Out {
	outs := midi.GetOutPorts()
	for _, out := range outs {
		if out.String() == name {
			return out
		}
	}
	return nil
}
