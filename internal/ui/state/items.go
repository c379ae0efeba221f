package state

import "github.com/atomicstack/sqs-admin-tui/internal/sqs"

// Row is one rendered queue entry. Index is the queue's position in the
// registry, so a click or key press never has to infer it from layout.
type Row struct {
	Index int
	Label string
	URL   string
	FIFO  bool
}

// RowsFromQueues builds one row per queue in registry order.
func RowsFromQueues(queues []sqs.Queue) []Row {
	rows := make([]Row, len(queues))
	for i, q := range queues {
		rows[i] = Row{Index: i, Label: q.Label(), URL: q.QueueUrl, FIFO: q.IsFIFO()}
	}
	return rows
}

// CloneRows produces a shallow copy of the provided rows.
func CloneRows(rows []Row) []Row {
	dup := make([]Row, len(rows))
	copy(dup, rows)
	return dup
}
