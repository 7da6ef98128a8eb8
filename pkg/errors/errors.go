package errors

import "errors"

// ErrConcurrentSubmission another transaction touched the same shifts; the
// submission was rolled back and can be retried
var ErrConcurrentSubmission = errors.New("prenotazione concorrente in corso, riprovare")
