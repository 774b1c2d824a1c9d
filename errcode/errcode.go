package errcode

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

const (
	OK             Code = "ok"
	Busy           Code = "busy"
	InvalidPayload Code = "invalid_payload"
	Unsupported    Code = "unsupported"

	// Motor health, in the priority order the motor reports them.
	NotInitialised Code = "not_initialised"
	DriverFault    Code = "driver_fault"
	EncoderFault   Code = "encoder_fault"

	IMUNotFound Code = "imu_not_found"
	Timeout     Code = "timeout"

	Error Code = "error" // generic fallback
)

// E carries a Code with the failing operation and an optional cause.
type E struct {
	C   Code
	Op  string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
