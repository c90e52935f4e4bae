package service

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveEmployees  = errors.New("no active employees")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrInvalidPeriod      = errors.New("invalid report period")
	ErrAttachmentNotFound = errors.New("attachment not found")
)

// NoActiveEmployeesError aborts a report for a company without active
// employees. Its message is shown to the user as is.
type NoActiveEmployeesError struct {
	Company string
}

func (e *NoActiveEmployeesError) Error() string {
	return fmt.Sprintf("No se encontraron empleados activos en la compañía %s.", e.Company)
}

func (e *NoActiveEmployeesError) Is(target error) bool {
	return target == ErrNoActiveEmployees
}
