package grid

import (
	"fmt"
	"sync"

	"github.com/PixPMusic/gopher-tiles/internal/midi"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewWidgetData is the input to Create
type NewWidgetData struct {
	WidgetType    WidgetType
	Position      WidgetPosition
	PositionIndex int
}

// Listener receives a snapshot of the widget slots after every mutation
type Listener func(widgets []*Widget)

// Store owns the ordered widget slots and the grid geometry.
// A widget's positional index is its slot; deleting a widget shifts every
// later widget down by one. Widget.ID stays stable across such shifts.
// Empty slots (holes) are nil.
//
// Mutations are serialized together with their listener calls, so listeners
// see snapshots in mutation order. A listener must not mutate the store.
type Store struct {
	writeMu   sync.Mutex
	mu        sync.RWMutex
	slots     []*Widget
	geometry  Geometry
	listeners map[int]Listener
	nextSub   int
	log       *zap.Logger
}

// NewStore creates an empty store for the given grid
func NewStore(geometry Geometry, log *zap.Logger) (*Store, error) {
	if err := geometry.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		slots:     []*Widget{},
		geometry:  geometry,
		listeners: make(map[int]Listener),
		log:       log,
	}, nil
}

// NewPositionIndex returns the index an appended widget will occupy
func (s *Store) NewPositionIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

// Len returns the number of slots, holes included
func (s *Store) Len() int {
	return s.NewPositionIndex()
}

// Geometry returns the current grid geometry
func (s *Store) Geometry() Geometry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.geometry
}

// SetVerticalGridCount replaces the number of rows.
// Existing widgets are not re-validated against the new bounds.
func (s *Store) SetVerticalGridCount(n int) error {
	return s.setGeometry(func(g *Geometry) { g.VerticalTiles = n })
}

// SetHorizontalGridCount replaces the number of columns
func (s *Store) SetHorizontalGridCount(n int) error {
	return s.setGeometry(func(g *Geometry) { g.HorizontalTiles = n })
}

// SetTileSize replaces the pixel size of one tile
func (s *Store) SetTileSize(width, height int) error {
	return s.setGeometry(func(g *Geometry) {
		g.TileWidth = width
		g.TileHeight = height
	})
}

func (s *Store) setGeometry(apply func(*Geometry)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next := s.geometry
	apply(&next)
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.geometry = next
	s.mu.Unlock()

	s.log.Debug("geometry changed",
		zap.Int("columns", next.HorizontalTiles),
		zap.Int("rows", next.VerticalTiles))
	return nil
}

// Create stores a new widget at data.PositionIndex, overwriting whatever is
// there. Slots between the current end and the target index become holes.
// The title is derived from the slot count at call time, not the target index.
func (s *Store) Create(data NewWidgetData) (Widget, error) {
	if data.PositionIndex < 0 {
		return Widget{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, data.PositionIndex)
	}
	if _, err := ParseWidgetType(string(data.WidgetType)); err != nil {
		return Widget{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if err := s.checkSlot(data.PositionIndex); err != nil {
		s.mu.Unlock()
		return Widget{}, err
	}
	if err := data.Position.Fits(s.geometry); err != nil {
		s.mu.Unlock()
		return Widget{}, err
	}
	w := NewWidget(data.WidgetType, fmt.Sprintf("New %d", len(s.slots)), data.Position)
	s.put(data.PositionIndex, &w)
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.log.Debug("widget created",
		zap.Int("index", data.PositionIndex),
		zap.String("id", w.ID),
		zap.String("type", string(w.WidgetType)))
	s.notify(snapshot)
	return w, nil
}

// UpdatePosition replaces all four position fields of the widget at index
func (s *Store) UpdatePosition(index int, pos WidgetPosition) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	w, err := s.at(index)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := pos.Fits(s.geometry); err != nil {
		s.mu.Unlock()
		return err
	}
	updated := *w
	updated.Position = pos
	s.slots[index] = &updated
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.log.Debug("widget moved", zap.Int("index", index), zap.String("id", updated.ID))
	s.notify(snapshot)
	return nil
}

// UpdateMidi copies the message type, number and value of b onto the widget
// at index. The widget's min and max are left untouched and are not checked
// against the new message type.
func (s *Store) UpdateMidi(index int, b midi.Binding) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	w, err := s.at(index)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	updated := *w
	updated.Midi.MessageType = b.MessageType
	updated.Midi.MessageNumber = b.MessageNumber
	updated.Midi.MessageValue = b.MessageValue
	if err := updated.Midi.ValidateMessage(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.slots[index] = &updated
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.log.Debug("widget rebound",
		zap.Int("index", index),
		zap.String("id", updated.ID),
		zap.Stringer("midi", updated.Midi))
	s.notify(snapshot)
	return nil
}

// Replace stores w at index as given, creating the slot if needed.
// A missing ID is generated.
func (s *Store) Replace(index int, w Widget) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if _, err := ParseWidgetType(string(w.WidgetType)); err != nil {
		return err
	}
	if err := w.Midi.Validate(); err != nil {
		return err
	}
	if w.ID == "" {
		w.ID = uuid.New().String()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if err := s.checkSlot(index); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := w.Position.Fits(s.geometry); err != nil {
		s.mu.Unlock()
		return err
	}
	s.put(index, &w)
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.log.Debug("widget replaced", zap.Int("index", index), zap.String("id", w.ID))
	s.notify(snapshot)
	return nil
}

// Delete removes the slot at index. Every later widget moves down one index.
func (s *Store) Delete(index int) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if index < 0 || index >= len(s.slots) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	var id string
	if w := s.slots[index]; w != nil {
		id = w.ID
	}
	s.slots = append(s.slots[:index], s.slots[index+1:]...)
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.log.Debug("widget deleted", zap.Int("index", index), zap.String("id", id))
	s.notify(snapshot)
	return nil
}

// SetWidgets replaces every slot, typically when hydrating persisted state.
// Stored positions are accepted as-is; widgets without an ID get one.
func (s *Store) SetWidgets(widgets []*Widget) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	slots := make([]*Widget, len(widgets))
	for i, w := range widgets {
		if w == nil {
			continue
		}
		c := *w
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		slots[i] = &c
	}

	s.mu.Lock()
	s.slots = slots
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.log.Debug("widgets replaced", zap.Int("count", len(slots)))
	s.notify(snapshot)
}

// Widget returns a copy of the widget at index
func (s *Store) Widget(index int) (Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, err := s.at(index)
	if err != nil {
		return Widget{}, err
	}
	return *w, nil
}

// Widgets returns a copy of every slot; holes are nil
func (s *Store) Widgets() []*Widget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// IndexOf resolves a stable widget ID to its current positional index
func (s *Store) IndexOf(id string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, w := range s.slots {
		if w != nil && w.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
}

// Subscribe registers fn to be called after every successful mutation.
// fn runs while the mutation still holds the write lock and must not call
// back into a mutating method. The returned func removes the subscription.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(snapshot []*Widget) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// at must be called with the lock held
func (s *Store) at(index int) (*Widget, error) {
	if index < 0 || index >= len(s.slots) || s.slots[index] == nil {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return s.slots[index], nil
}

// checkSlot rejects write targets past the end of the slots plus one grid
// worth of holes. Must be called with the lock held.
func (s *Store) checkSlot(index int) error {
	limit := len(s.slots) + s.geometry.HorizontalTiles*s.geometry.VerticalTiles
	if index < 0 || index > limit {
		return fmt.Errorf("%w: %d exceeds %d", ErrIndexOutOfRange, index, limit)
	}
	return nil
}

// put must be called with the write lock held
func (s *Store) put(index int, w *Widget) {
	if n := index + 1 - len(s.slots); n > 0 {
		s.slots = append(s.slots, make([]*Widget, n)...)
	}
	s.slots[index] = w
}

// snapshot must be called with the lock held
func (s *Store) snapshot() []*Widget {
	out := make([]*Widget, len(s.slots))
	for i, w := range s.slots {
		if w != nil {
			c := *w
			out[i] = &c
		}
	}
	return out
}
