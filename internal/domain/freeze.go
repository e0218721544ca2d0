package domain

import "time"

// SystemFreeze is the single process-wide freeze record. While Frozen is set,
// every write-class action is denied for every role except SUPER_ADMIN.
type SystemFreeze struct {
	Frozen bool
	Reason string
	SetBy  string
	SetAt  *time.Time
}
