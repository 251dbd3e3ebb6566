package errors

import (
	"sync"
	"time"
)

// Collected is an error recorded by an ErrorCollector.
type Collected struct {
	Err       error
	Timestamp time.Time
}

// ErrorCollector accumulates soft errors, such as skipped mixin targets,
// so a batch can report partial success.
type ErrorCollector struct {
	errors []Collected
	mutex  sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		errors: make([]Collected, 0),
	}
}

// AddError records err. Nil errors are ignored.
func (ec *ErrorCollector) AddError(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, Collected{Err: err, Timestamp: time.Now()})
}

// GetErrors returns a copy of the collected errors in insertion order.
func (ec *ErrorCollector) GetErrors() []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	result := make([]error, len(ec.errors))
	for i, c := range ec.errors {
		result[i] = c.Err
	}
	return result
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors) > 0
}

// Len returns the number of collected errors.
func (ec *ErrorCollector) Len() int {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors)
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = ec.errors[:0]
}

// GetErrorsByCode returns the collected ChassisErrors carrying code.
func (ec *ErrorCollector) GetErrorsByCode(code string) []*ChassisError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	var out []*ChassisError
	for _, c := range ec.errors {
		if ce, ok := c.Err.(*ChassisError); ok && ce.Code == code {
			out = append(out, ce)
		}
	}
	return out
}
