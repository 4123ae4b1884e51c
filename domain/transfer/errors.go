package transfer

import "errors"

// ErrTransfer indicates a local I/O failure while materializing a
// download: the destination directory could not be created, the target
// file could not be opened, or the byte copy failed mid-stream.
var ErrTransfer = errors.New("transfer failed")
