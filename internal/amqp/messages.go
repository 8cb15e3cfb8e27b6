package amqp

import (
	"encoding/json"
	"time"
)

// SyncOp tells the worker what happened to the transaction.
type SyncOp string

const (
	OpUpsert SyncOp = "upsert"
	OpDelete SyncOp = "delete"
)

// TransactionSyncMessage is a lightweight notification that a
// transaction changed. For upserts the worker fetches the current row
// from the database; for deletes the row is gone, so the message
// carries enough to locate the spreadsheet entry.
type TransactionSyncMessage struct {
	Op        SyncOp    `json:"op"`
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Year      int       `json:"year,omitempty"`
	Month     int       `json:"month,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUpsertMessage creates a sync message for a created or updated
// transaction.
func NewUpsertMessage(id, userID int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Op:        OpUpsert,
		ID:        id,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

// NewDeleteMessage creates a sync message for a deleted transaction.
// Year and month name the workbook the row lives in.
func NewDeleteMessage(id, userID int64, year, month int) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Op:        OpDelete,
		ID:        id,
		UserID:    userID,
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
