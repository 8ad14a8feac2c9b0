package model

import "time"

// TodoStatus records what the operator did with a recommended task.
type TodoStatus string

const (
	TodoDone TodoStatus = "DONE"
	TodoSkip TodoStatus = "SKIP"
)

// TodoEvent is one completion or skip of a recommended task group.
type TodoEvent struct {
	ID         int64      `json:"id" db:"id"`
	EntityID   int64      `json:"entity_id" db:"entity_id"`
	OperatorID string     `json:"operator_id" db:"operator_id"`
	Group      string     `json:"group" db:"todo_group"`
	Text       string     `json:"text" db:"todo_text"`
	Status     TodoStatus `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// HistoryEntry is one generated text kept for the operator.
type HistoryEntry struct {
	ID         int64     `json:"id" db:"id"`
	EntityID   int64     `json:"entity_id" db:"entity_id"`
	OperatorID string    `json:"operator_id" db:"operator_id"`
	Feature    string    `json:"feature" db:"feature"`
	Title      string    `json:"title" db:"title"`
	Input      string    `json:"input" db:"input_text"`
	Output     string    `json:"output" db:"output_text"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
