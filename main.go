package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/PixPMusic/gopher-tiles/internal/app"
	"github.com/PixPMusic/gopher-tiles/internal/config"
	"github.com/PixPMusic/gopher-tiles/internal/grid"
	"github.com/PixPMusic/gopher-tiles/internal/logging"
	"github.com/PixPMusic/gopher-tiles/internal/midi"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `usage: gopher-tiles [--config-dir DIR] <command> [args]

commands:
  list                                  show the widgets on the grid
  add TYPE COL ROW [--size WxH] [--at N]
  drop JSON --tile N                    place a widget from a drag transfer
  move INDEX COL ROW WIDTH HEIGHT
  bind INDEX CC|RPN|NRPN NUMBER VALUE
  title INDEX TEXT
  delete INDEX
  rows N                                set the number of grid rows
  devices [--enable|--disable] [--in NAME] [--out NAME]
  send INDEX                            emit the widget's MIDI message
`

func main() {
	flag.CommandLine.SetInterspersed(false)
	configDir := flag.StringP("config-dir", "c", "", "config directory (default: user config dir)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	dir := *configDir
	if dir == "" {
		d, err := config.Dir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to resolve config dir: %v\n", err)
			os.Exit(1)
		}
		dir = d
	}

	settings, err := config.LoadFrom(config.SettingsPath(dir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}

	log := logging.Nop()
	if logs, err := logging.NewManager(settings.Logging(dir)); err == nil {
		defer logs.Close()
		log = logs.For("app")
	} else {
		fmt.Fprintf(os.Stderr, "Logging disabled: %v\n", err)
	}

	midiManager := midi.NewManager(log.Named("midi"))
	defer midiManager.Close()

	a, err := app.Open(dir, midiManager, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open layout: %v\n", err)
		os.Exit(1)
	}

	runErr := run(a, flag.Arg(0), flag.Args()[1:])
	if err := a.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to save layout: %w", err)
	}
	if runErr != nil {
		log.Warn("command failed", zap.String("command", flag.Arg(0)), zap.Error(runErr))
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

func run(a *app.App, cmd string, args []string) error {
	switch cmd {
	case "list":
		return listWidgets(a)
	case "add":
		return addWidget(a, args)
	case "drop":
		return dropWidget(a, args)
	case "move":
		return moveWidget(a, args)
	case "bind":
		return bindWidget(a, args)
	case "title":
		return retitleWidget(a, args)
	case "delete":
		return deleteWidget(a, args)
	case "rows":
		return setRows(a, args)
	case "devices":
		return devices(a, args)
	case "send":
		return sendWidget(a, args)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func listWidgets(a *app.App) error {
	g := a.Grid.Geometry()
	fmt.Printf("grid %dx%d, tiles %dx%dpx\n", g.HorizontalTiles, g.VerticalTiles, g.TileWidth, g.TileHeight)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tTYPE\tTITLE\tCOL\tROW\tSIZE\tMIDI")
	for i, w := range a.Grid.Widgets() {
		if w == nil {
			fmt.Fprintf(tw, "%d\t-\t(empty)\t\t\t\t\n", i)
			continue
		}
		p := w.Position
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%dx%d\t%s\n",
			i, w.WidgetType, w.WidgetTitle, p.ColumnStart, p.RowStart, p.ColumnLength, p.RowLength, w.Midi)
	}
	return tw.Flush()
}

func addWidget(a *app.App, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	size := fs.String("size", "", "footprint in tiles, e.g. 2x4 (default: per widget type)")
	at := fs.Int("at", -1, "positional index (default: append)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return errors.New("add needs TYPE COL ROW")
	}

	widgetType, err := grid.ParseWidgetType(fs.Arg(0))
	if err != nil {
		return err
	}
	ints, err := atois(fs.Args()[1:])
	if err != nil {
		return err
	}
	cols, rows := widgetType.DefaultSize()
	if *size != "" {
		if cols, rows, err = parseSize(*size); err != nil {
			return err
		}
	}
	index := *at
	if index < 0 {
		index = a.Grid.NewPositionIndex()
	}

	w, err := a.Grid.Create(grid.NewWidgetData{
		WidgetType: widgetType,
		Position: grid.WidgetPosition{
			ColumnStart:  ints[0],
			RowStart:     ints[1],
			ColumnLength: cols,
			RowLength:    rows,
		},
		PositionIndex: index,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %q at index %d\n", w.WidgetTitle, index)
	return nil
}

func dropWidget(a *app.App, args []string) error {
	fs := flag.NewFlagSet("drop", flag.ContinueOnError)
	tile := fs.Int("tile", 0, "1-based linear tile the widget was dropped on")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("drop needs a JSON drag transfer")
	}

	transfer, err := grid.DecodeDragTransfer([]byte(fs.Arg(0)))
	if err != nil {
		return err
	}
	w, err := a.Grid.Drop(transfer, *tile)
	if err != nil {
		return err
	}
	p := w.Position
	fmt.Printf("created %q at index %d (%d,%d %dx%d)\n",
		w.WidgetTitle, transfer.PositionIndex, p.ColumnStart, p.RowStart, p.ColumnLength, p.RowLength)
	return nil
}

func moveWidget(a *app.App, args []string) error {
	if len(args) != 5 {
		return errors.New("move needs INDEX COL ROW WIDTH HEIGHT")
	}
	ints, err := atois(args)
	if err != nil {
		return err
	}
	return a.Grid.UpdatePosition(ints[0], grid.WidgetPosition{
		ColumnStart:  ints[1],
		RowStart:     ints[2],
		ColumnLength: ints[3],
		RowLength:    ints[4],
	})
}

func bindWidget(a *app.App, args []string) error {
	if len(args) != 4 {
		return errors.New("bind needs INDEX TYPE NUMBER VALUE")
	}
	msgType, err := midi.ParseMessageType(strings.ToUpper(args[1]))
	if err != nil {
		return err
	}
	ints, err := atois([]string{args[0], args[2], args[3]})
	if err != nil {
		return err
	}
	return a.Grid.UpdateMidi(ints[0], midi.Binding{
		MessageType:   msgType,
		MessageNumber: ints[1],
		MessageValue:  ints[2],
	})
}

func retitleWidget(a *app.App, args []string) error {
	if len(args) < 2 {
		return errors.New("title needs INDEX TEXT")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}
	w, err := a.Grid.Widget(index)
	if err != nil {
		return err
	}
	w.WidgetTitle = strings.Join(args[1:], " ")
	return a.Grid.Replace(index, w)
}

func deleteWidget(a *app.App, args []string) error {
	if len(args) != 1 {
		return errors.New("delete needs INDEX")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}
	return a.Grid.Delete(index)
}

func setRows(a *app.App, args []string) error {
	if len(args) != 1 {
		return errors.New("rows needs N")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid row count %q", args[0])
	}
	if err := a.Grid.SetVerticalGridCount(n); err != nil {
		return err
	}
	return a.SaveSettings()
}

func devices(a *app.App, args []string) error {
	fs := flag.NewFlagSet("devices", flag.ContinueOnError)
	enable := fs.Bool("enable", false, "enable MIDI output")
	disable := fs.Bool("disable", false, "disable MIDI output")
	in := fs.String("in", "", "select input device")
	out := fs.String("out", "", "select output device")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.RefreshDevices()
	changed := false
	if *enable || *disable {
		a.Devices.SetEnabled(*enable && !*disable)
		changed = true
	}
	if fs.Changed("in") {
		a.Devices.SetSelectedInput(*in)
		changed = true
	}
	if fs.Changed("out") {
		a.Devices.SetSelectedOutput(*out)
		changed = true
	}
	if changed {
		if err := a.SaveSettings(); err != nil {
			return err
		}
	}

	d := a.Devices
	fmt.Printf("MIDI enabled: %v\n", d.Enabled)
	printPorts("inputs", d.InputDevices, d.SelectedInput)
	printPorts("outputs", d.OutputDevices, d.SelectedOutput)
	if d.SelectedOutput != "" && !d.OutputAvailable() {
		fmt.Printf("warning: output %q is not connected\n", d.SelectedOutput)
	}
	return nil
}

func printPorts(label string, names []string, selected string) {
	fmt.Printf("%s:\n", label)
	for _, name := range names {
		marker := " "
		if name == selected {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, name)
	}
}

func sendWidget(a *app.App, args []string) error {
	if len(args) != 1 {
		return errors.New("send needs INDEX")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}
	a.RefreshDevices()
	return a.Send(index)
}

func atois(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, s := range args {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", s)
		}
		out[i] = n
	}
	return out, nil
}

func parseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", s)
	}
	ints, err := atois([]string{w, h})
	if err != nil {
		return 0, 0, err
	}
	return ints[0], ints[1], nil
}
