package domain

import "time"

// IndexOptions configures one index build.
type IndexOptions struct {
	// Workers is the size of the extraction pool. Zero means one worker
	// per CPU.
	Workers int
}

// IndexSummary reports what one build pass did.
type IndexSummary struct {
	// MessagesSeen counts messages streamed out of the archive.
	MessagesSeen int

	// Failed counts messages that could not be extracted.
	Failed int

	// Records counts canonical records after merging.
	Records int

	// Vectors counts embedded full texts added to the vector index.
	Vectors int
}

// IndexRun is one completed build pass, kept for bookkeeping.
type IndexRun struct {
	StartedAt time.Time
	EndedAt   time.Time
	Summary   IndexSummary
}
