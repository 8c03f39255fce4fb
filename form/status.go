package form

//go:generate go run golang.org/x/tools/cmd/stringer -type=Status
type Status int

const (
	Idle Status = iota
	Submitting
	Submitted
)
