package state

// List holds the rendered queue rows together with the filter, cursor and
// viewport. Cursor is a position in Rows, not a registry index.
type List struct {
	Rows           []Row
	Full           []Row
	Filter         string
	FilterCursor   int
	Cursor         int
	ViewportOffset int
}

func NewList() *List {
	return &List{}
}

// UpdateRows replaces the full row set and reapplies the filter.
func (l *List) UpdateRows(rows []Row) {
	prevOffset := l.ViewportOffset
	l.Full = CloneRows(rows)
	l.applyFilter()
	if len(l.Rows) == 0 {
		l.ViewportOffset = 0
		return
	}
	if prevOffset < 0 || prevOffset > len(l.Rows)-1 {
		prevOffset = 0
	}
	l.ViewportOffset = prevOffset
}

// PositionOf returns the visible position of the row for registry index idx,
// or -1 when the row is filtered out.
func (l *List) PositionOf(idx int) int {
	for pos, row := range l.Rows {
		if row.Index == idx {
			return pos
		}
	}
	return -1
}

// RowAt returns the visible row at pos.
func (l *List) RowAt(pos int) (Row, bool) {
	if pos < 0 || pos >= len(l.Rows) {
		return Row{}, false
	}
	return l.Rows[pos], true
}

// Current returns the row under the cursor.
func (l *List) Current() (Row, bool) {
	return l.RowAt(l.Cursor)
}

// SyncCursor moves the cursor onto the row for registry index idx. It
// reports false when that row is not visible.
func (l *List) SyncCursor(idx int) bool {
	pos := l.PositionOf(idx)
	if pos < 0 {
		return false
	}
	l.Cursor = pos
	return true
}
