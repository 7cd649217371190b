package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound is returned when a job cannot be found in the database
	ErrJobNotFound = errors.New("job not found")

	// ErrTemplateNotFound is returned when a template cannot be found
	ErrTemplateNotFound = errors.New("template not found")

	// ErrRoleConfigNotFound is returned when a role config cannot be found
	ErrRoleConfigNotFound = errors.New("role config not found")

	// ErrAlreadySent is returned when a send is requested for a job in SENT status
	ErrAlreadySent = errors.New("job already sent")

	// ErrInvalidStatus is returned for an unknown status or a status that cannot be sent
	ErrInvalidStatus = errors.New("invalid job status")

	// ErrTransport marks a rejected or failed delivery by the mail provider
	ErrTransport = errors.New("mail transport failure")

	// ErrPersistence marks a failed write to the record store
	ErrPersistence = errors.New("persistence failure")

	// ErrTemplateInUse is matched by TemplateInUseError
	ErrTemplateInUse = errors.New("template in use")
)

// TemplateInUseError is returned when deleting a template that jobs still reference
type TemplateInUseError struct {
	TemplateID string
	JobCount   int
}

func (e *TemplateInUseError) Error() string {
	return fmt.Sprintf("cannot delete template: it is being used by %d job(s)", e.JobCount)
}

func (e *TemplateInUseError) Unwrap() error {
	return ErrTemplateInUse
}
