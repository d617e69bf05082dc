package contracts

// Native status codes, as returned by Rekey and LastErrorCode. StatusOK is
// the single success sentinel; all others are failure variants whose
// human-readable message is fetched separately. Extended codes returned by
// LastErrorCode carry one of these in their low byte.
const (
	StatusOK       = 0
	StatusError    = 1
	StatusInternal = 2
	StatusPerm     = 3
	StatusAbort    = 4
	StatusBusy     = 5
	StatusLocked   = 6
	StatusNoMem    = 7
	StatusReadOnly = 8
	StatusIOErr    = 10
	StatusCorrupt  = 11
	StatusFull     = 13
	StatusCantOpen = 14
	StatusMisuse   = 21
	StatusAuth     = 23
	StatusNotADB   = 26
)

// PrimaryStatus strips the extended-code high bytes, leaving the primary
// status a code belongs to.
func PrimaryStatus(code int) int {
	return code & 0xff
}
