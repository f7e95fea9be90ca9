package wts

import "fmt"

// Reason is a symbolic failure reason derived from the numeric error code
// the OS reports after a failing call. The set is closed: any code outside
// it is surfaced as an UnmappedError instead of a guessed meaning.
type Reason int

const (
	ReasonNotSupported        Reason = iota // ERROR_ACCESS_DENIED (5)
	ReasonInvalidHandle                     // ERROR_INVALID_HANDLE (6)
	ReasonInvalidParameter                  // ERROR_INVALID_PARAMETER (87)
	ReasonProcedureNotFound                 // ERROR_PROC_NOT_FOUND (127)
	ReasonNoAccess                          // ERROR_NOACCESS (998)
	ReasonClassNotFound                     // ERROR_CANNOT_FIND_WND_CLASS (1407)
	ReasonWindowOfOtherThread               // ERROR_WINDOW_OF_OTHER_THREAD (1408)
)

var reasonNames = map[Reason]string{
	ReasonNotSupported:        "not supported",
	ReasonInvalidHandle:       "invalid handle",
	ReasonInvalidParameter:    "invalid parameter",
	ReasonProcedureNotFound:   "procedure not found",
	ReasonNoAccess:            "no access",
	ReasonClassNotFound:       "window class not found",
	ReasonWindowOfOtherThread: "window belongs to another thread",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "unknown reason"
}

// Error makes Reason usable directly as an error value.
func (r Reason) Error() string {
	return r.String()
}

// UnmappedError reports an OS error code outside the recognized set.
// Callers treat it as fatal rather than continuing on a guess.
type UnmappedError struct {
	Code uint32
}

func (e *UnmappedError) Error() string {
	return fmt.Sprintf("unmapped OS error code %d", e.Code)
}

// MapError translates the numeric code fetched immediately after a failing
// OS call into its symbolic reason. It must be invoked before any other OS
// call can overwrite the calling thread's last-error slot.
func MapError(code uint32) error {
	switch code {
	case 5:
		return ReasonNotSupported
	case 6:
		return ReasonInvalidHandle
	case 87:
		return ReasonInvalidParameter
	case 127:
		return ReasonProcedureNotFound
	case 998:
		return ReasonNoAccess
	case 1407:
		return ReasonClassNotFound
	case 1408:
		return ReasonWindowOfOtherThread
	default:
		return &UnmappedError{Code: code}
	}
}
