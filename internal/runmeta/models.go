// Package runmeta stores small pieces of cross-run state as key/value rows.
// Its one current tenant is the alert sweep's last-run timestamp.
package runmeta

import "time"

// LastAlertsRunKey holds the start time of the most recent alert sweep.
const LastAlertsRunKey = "last-alerts-run"

// TimeFormat is the layout for timestamp values stored in metadata rows.
const TimeFormat = "2006-01-02 15:04:05.999999999"

// Metadata keys live in the meta_key column: "key" is a reserved word on
// MySQL, and a primary key column needs a bounded type there.
type Metadata struct {
	Key   string `json:"key" gorm:"column:meta_key;primaryKey;type:varchar(191)"`
	Value string `json:"value" gorm:"type:text;not null"`
}

// TableName sets the database table name.
func (Metadata) TableName() string { return "metadata" }

// FormatTime renders t for storage in a metadata value.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime reads a metadata timestamp value back.
func ParseTime(value string) (time.Time, error) {
	return time.Parse(TimeFormat, value)
}
