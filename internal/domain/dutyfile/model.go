package dutyfile

import "errors"

// Duty-schedule scopes.
const (
	ScopeHospital   = "hospital"
	ScopeDepartment = "department"
)

var (
	ErrNotFound     = errors.New("duty file not found")
	ErrInvalidScope = errors.New("scope must be hospital or department")
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
)

// MaxFileSize caps uploaded duty schedules at 20 MB.
const MaxFileSize = 20 * 1024 * 1024

// Record is one registered duty-schedule upload. The latest record per
// scope is the current schedule.
type Record struct {
	ID           int64  `db:"id" json:"id"`
	Scope        string `db:"scope" json:"scope"`
	OriginalName string `db:"original_name" json:"original_name"`
	MimeType     string `db:"mime_type" json:"mime_type"`
	StoragePath  string `db:"storage_path" json:"-"`
	UploadedAt   string `db:"uploaded_at" json:"uploaded_at"`
}

// ValidScope reports whether s is a known duty-schedule scope.
func ValidScope(s string) bool {
	return s == ScopeHospital || s == ScopeDepartment
}
