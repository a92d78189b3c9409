package types

// Stats is a point-in-time view of a log file's bookkeeping.
type Stats struct {
	Path              string
	Size              int64
	Lines             int
	BytesWrittenTotal int64
	WriteOps          uint64
	Truncations       uint64
	Pending           int
	Opened            bool
}
