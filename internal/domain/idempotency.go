package domain

import "time"

// Idempotency records the response of a completed analysis keyed by
// (nickname, key) so a retried request replays it instead of calling the
// model again and consuming another demo token.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Nickname  string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_nickname_key,priority:1"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_nickname_key,priority:2"`
	RecordID  int       `gorm:"type:INTEGER NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	Response  string    `gorm:"type:TEXT NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
