// Package printer delivers receipt instructions to thermal printers over
// ESC/POS. Every dispatch is a single best-effort attempt on a fresh
// connection.
package printer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"RestaurantPos/app/receipt"

	"github.com/google/uuid"
)

// DefaultTimeout bounds connecting to and writing to a printer
const DefaultTimeout = 5 * time.Second

// ErrTargetUnconfigured is returned when a station has no printer address
var ErrTargetUnconfigured = errors.New("print target not configured")

// TransportError reports a failure to reach or write to a printer
type TransportError struct {
	Station string
	Address string
	Index   int // Instruction that failed, -1 when connecting
	Err     error
}

func (e *TransportError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("printer %s (%s): %v", e.Station, e.Address, e.Err)
	}
	return fmt.Sprintf("printer %s (%s): instruction %d: %v", e.Station, e.Address, e.Index, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Logger is the subset of the application logger used here
type Logger interface {
	LogInfo(message string, details ...string)
	LogError(message string, err error, details ...string)
}

// Dispatcher sends instruction sequences to printers
type Dispatcher struct {
	Timeout time.Duration
	logger  Logger
}

// NewDispatcher creates a dispatcher with the default timeout. logger may be nil.
func NewDispatcher(logger Logger) *Dispatcher {
	return &Dispatcher{
		Timeout: DefaultTimeout,
		logger:  logger,
	}
}

// Dispatch prints instrs on target and reports success. It never panics and
// never returns an error: failures are logged and reported as false.
func (d *Dispatcher) Dispatch(ctx context.Context, instrs []receipt.Instruction, target Target) (ok bool) {
	jobID := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			d.logError("Print job panicked", fmt.Errorf("%v", r), jobID, target)
			ok = false
		}
	}()

	if err := d.Send(ctx, instrs, target); err != nil {
		d.logError("Print job failed", err, jobID, target)
		return false
	}
	if d.logger != nil {
		d.logger.LogInfo("Print job completed", fmt.Sprintf("job=%s station=%s instructions=%d", jobID, target.Station, len(instrs)))
	}
	return true
}

func (d *Dispatcher) logError(message string, err error, jobID string, target Target) {
	if d.logger == nil {
		return
	}
	d.logger.LogError(message, err, fmt.Sprintf("job=%s station=%s target=%s", jobID, target.Station, target))
}

// Send prints instrs on target in order. The first failing write aborts the
// rest of the sequence.
func (d *Dispatcher) Send(ctx context.Context, instrs []receipt.Instruction, target Target) error {
	if !target.Configured() {
		return fmt.Errorf("%w: station %q", ErrTargetUnconfigured, target.Station)
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := connect(ctx, target, timeout)
	if err != nil {
		return &TransportError{Station: target.Station, Address: target.String(), Index: -1, Err: err}
	}
	defer conn.Close()

	enc := &Encoder{PaperWidth: target.PaperWidth}
	if _, err := conn.Write(enc.Preamble()); err != nil {
		return &TransportError{Station: target.Station, Address: target.String(), Index: -1, Err: err}
	}

	for i, in := range instrs {
		if err := ctx.Err(); err != nil {
			return &TransportError{Station: target.Station, Address: target.String(), Index: i, Err: err}
		}
		if in.Kind == receipt.KindCut && !target.AutoCut {
			continue
		}
		data, err := enc.Encode(in)
		if err != nil {
			return &TransportError{Station: target.Station, Address: target.String(), Index: i, Err: err}
		}
		if _, err := conn.Write(data); err != nil {
			return &TransportError{Station: target.Station, Address: target.String(), Index: i, Err: err}
		}
	}
	return nil
}
