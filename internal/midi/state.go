package midi

import "slices"

// DeviceState holds the MIDI device selection shown to the user.
// It does not open ports itself.
type DeviceState struct {
	Enabled        bool
	SelectedInput  string
	SelectedOutput string
	InputDevices   []string
	OutputDevices  []string
}

// SetEnabled switches MIDI output on or off
func (s *DeviceState) SetEnabled(enabled bool) {
	s.Enabled = enabled
}

// SetSelectedInput selects the input device by name
func (s *DeviceState) SetSelectedInput(name string) {
	s.SelectedInput = name
}

// SetSelectedOutput selects the output device by name
func (s *DeviceState) SetSelectedOutput(name string) {
	s.SelectedOutput = name
}

// SetInputDevices replaces the input device list with a copy of names
func (s *DeviceState) SetInputDevices(names []string) {
	s.InputDevices = slices.Clone(names)
}

// SetOutputDevices replaces the output device list with a copy of names
func (s *DeviceState) SetOutputDevices(names []string) {
	s.OutputDevices = slices.Clone(names)
}

// Refresh replaces both device lists with what lister reports
func (s *DeviceState) Refresh(lister PortLister) {
	s.SetInputDevices(lister.ListInPorts())
	s.SetOutputDevices(lister.ListOutPorts())
}

// OutputAvailable reports whether the selected output is in the device list
func (s *DeviceState) OutputAvailable() bool {
	return s.SelectedOutput != "" && slices.Contains(s.OutputDevices, s.SelectedOutput)
}
