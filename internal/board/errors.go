package board

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrDuplicateMember = errors.New("member already in roster")
	ErrNoFields        = errors.New("no fields to update")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrEmptyTitle      = errors.New("empty title")
)
