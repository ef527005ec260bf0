package utils

// DynBuffer is a growable message queue used by MailBox.
type DynBuffer[T any] struct {
	cells []T
}

func NewDynBuffer[T any](capacity int) *DynBuffer[T] {
	return &DynBuffer[T]{cells: make([]T, 0, capacity)}
}

func (db *DynBuffer[T]) Add(val T) { db.cells = append(db.cells, val) }

func (db *DynBuffer[T]) Cells() []T { return db.cells }

func (db *DynBuffer[T]) Len() int { return len(db.cells) }

// RemoveAt drops cell i, keeping the order of the rest.
func (db *DynBuffer[T]) RemoveAt(i int) {
	copy(db.cells[i:], db.cells[i+1:])
	var zero T
	db.cells[len(db.cells)-1] = zero
	db.cells = db.cells[:len(db.cells)-1]
}

// Reset empties the buffer but keeps its storage.
func (db *DynBuffer[T]) Reset() {
	var zero T
	for i := range db.cells {
		db.cells[i] = zero
	}
	db.cells = db.cells[:0]
}
