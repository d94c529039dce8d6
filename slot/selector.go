package slot

// Selection is a half-open hour range [Start, End). The zero value is empty.
type Selection struct {
	Start int
	End   int
	set   bool
}

func Range(start int, end int) Selection {
	return Selection{Start: start, End: end, set: true}
}

func (s Selection) Empty() bool {
	return !s.set
}

// Contains reports whether hour h lies inside the selection.
func (s Selection) Contains(h int) bool {
	return s.set && h >= s.Start && h < s.End
}

// Hours is the session length; zero when nothing is selected.
func (s Selection) Hours() int {
	if !s.set {
		return 0
	}
	return s.End - s.Start
}

func (s Selection) String() string {
	if !s.set {
		return "no selection"
	}
	return Label(s.Start) + " - " + Label(s.End)
}

type CellState int

const (
	CellAvailable CellState = iota
	CellSelected
	CellBooked
)

func (c CellState) String() string {
	switch c {
	case CellBooked:
		return "booked"
	case CellSelected:
		return "selected"
	default:
		return "available"
	}
}

// Cell is one rendered hour of the picker.
type Cell struct {
	Hour  int
	State CellState
}

func (c Cell) Interactive() bool {
	return c.State != CellBooked
}

// Selector holds the picker state for one court on one day.
type Selector struct {
	window    Window
	booked    BookedHours
	selection Selection
}

func NewSelector(window Window, booked BookedHours) *Selector {
	s := &Selector{}
	s.Reset(window, booked)
	return s
}

// Reset clears the selection and installs a new window and booked set. It is
// called whenever the court or date changes upstream.
func (s *Selector) Reset(window Window, booked BookedHours) {
	s.window = window.normalized()
	s.booked = booked
	if s.booked == nil {
		s.booked = BookedHours{}
	}
	s.selection = Selection{}
}

// SetBooked replaces the booked set for the current court and day. A
// selection that now covers a booked hour is dropped.
func (s *Selector) SetBooked(booked BookedHours) {
	if booked == nil {
		booked = BookedHours{}
	}
	s.booked = booked
	if s.selection.set && s.booked.AnyIn(s.selection.Start, s.selection.End) {
		s.selection = Selection{}
	}
}

func (s *Selector) Window() Window             { return s.window }
func (s *Selector) Booked() BookedHours        { return s.booked }
func (s *Selector) Selection() Selection       { return s.selection }
func (s *Selector) Hours() int                 { return s.selection.Hours() }
func (s *Selector) Price(rate float64) float64 { return float64(s.selection.Hours()) * rate }

// Clear drops the current selection.
func (s *Selector) Clear() {
	s.selection = Selection{}
}

// Click applies a click on hour h and returns the resulting selection.
func (s *Selector) Click(h int) Selection {
	if s.booked.Has(h) {
		return s.selection
	}

	cur := s.selection
	switch {
	case cur.set && cur.Start == h && cur.End == h+1:
		s.selection = Selection{}
	case !cur.set:
		s.selection = Range(h, h+1)
	case h > cur.Start:
		if s.booked.AnyIn(cur.Start, h) {
			s.selection = Range(h, h+1)
		} else {
			s.selection = Range(cur.Start, h+1)
		}
	default:
		s.selection = Range(h, h+1)
	}
	return s.selection
}

// Cell derives the display state of hour h. Booked wins over selected.
func (s *Selector) Cell(h int) Cell {
	switch {
	case s.booked.Has(h):
		return Cell{Hour: h, State: CellBooked}
	case s.selection.Contains(h):
		return Cell{Hour: h, State: CellSelected}
	default:
		return Cell{Hour: h, State: CellAvailable}
	}
}

// Cells lists the display state of every hour in the window.
func (s *Selector) Cells() []Cell {
	hours := s.window.Hours()
	cells := make([]Cell, 0, len(hours))
	for _, h := range hours {
		cells = append(cells, s.Cell(h))
	}
	return cells
}
