package midi

import (
	"slices"
	"testing"
)

type fakePorts struct {
	ins, outs []string
}

func (f fakePorts) ListInPorts() []string  { return f.ins }
func (f fakePorts) ListOutPorts() []string { return f.outs }

func TestDeviceStateRefresh(t *testing.T) {
	ports := fakePorts{
		ins:  []string{"Keystep"},
		outs: []string{"IAC Bus 1", "Synth"},
	}
	var s DeviceState
	s.Refresh(ports)

	if !slices.Equal(s.InputDevices, ports.ins) {
		t.Errorf("InputDevices: got %v, want %v", s.InputDevices, ports.ins)
	}
	if !slices.Equal(s.OutputDevices, ports.outs) {
		t.Errorf("OutputDevices: got %v, want %v", s.OutputDevices, ports.outs)
	}

	ports.outs[0] = "mutated"
	if s.OutputDevices[0] != "IAC Bus 1" {
		t.Error("DeviceState should copy the device lists")
	}
}

func TestDeviceStateOutputAvailable(t *testing.T) {
	s := DeviceState{OutputDevices: []string{"Synth"}}
	if s.OutputAvailable() {
		t.Error("no output selected")
	}
	s.SetSelectedOutput("Synth")
	if !s.OutputAvailable() {
		t.Error("selected output is connected")
	}
	s.SetSelectedOutput("Gone")
	if s.OutputAvailable() {
		t.Error("selected output is not in the list")
	}

	s.SetEnabled(true)
	s.SetSelectedInput("Keys")
	if !s.Enabled || s.SelectedInput != "Keys" {
		t.Errorf("setters not applied: %+v", s)
	}
}
