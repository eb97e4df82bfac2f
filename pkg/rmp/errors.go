package rmp

// ErrorKind classifies recoverable pipeline errors for the audit log.
type ErrorKind string

const (
	// FileParseError marks a filename that does not decompose into
	// name and id segments. The file is skipped, the run continues.
	FileParseError ErrorKind = "FILE_PARSE_ERROR"

	// FileReadError marks file content that is not valid JSON.
	// The file is skipped, the run continues.
	FileReadError ErrorKind = "FILE_READ_ERROR"

	// TeacherIDInconsistent marks a teacher_id whose file-derived name
	// or department varies across files. Resolution still proceeds with
	// the first observed combination.
	TeacherIDInconsistent ErrorKind = "TID_INCONSISTENT_NAME_DEPT"
)

// ErrorRecord is one row of the append-only error log:
// (error_kind, subject, detail...). Every recoverable error produces
// exactly one record; a recorded error is a recovered-from error.
type ErrorRecord struct {
	Kind    ErrorKind
	Subject string
	Detail  []string
}

// Collector accumulates error records during a pipeline stage. It is
// passed in explicitly (never a process-wide singleton) so repeated or
// concurrent invocations cannot cross-contaminate error state. A zero
// Collector is ready to use. Collectors are not safe for concurrent use;
// concurrent walkers each get their own and merge afterwards.
type Collector struct {
	records []ErrorRecord
}

// Add appends one error record.
func (c *Collector) Add(rec ErrorRecord) {
	c.records = append(c.records, rec)
}

// Merge appends all records of another collector.
func (c *Collector) Merge(other *Collector) {
	c.records = append(c.records, other.records...)
}

// Records returns the accumulated records in insertion order.
func (c *Collector) Records() []ErrorRecord {
	return c.records
}

// Len reports the number of accumulated records.
func (c *Collector) Len() int {
	return len(c.records)
}
