package model

// RecordStatus replaces a nullable deleted_at column.  Every read path
// compares against StatusActive explicitly; rows are never physically
// removed while a booking still references them.
type RecordStatus string

const (
    StatusActive  RecordStatus = "ACTIVE"
    StatusDeleted RecordStatus = "DELETED"
)

// IsActive reports whether the record is visible to read paths.
func (s RecordStatus) IsActive() bool { return s == StatusActive }
