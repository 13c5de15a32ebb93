package domain

import "net/mail"

// RawMail is one message lifted out of an archive, headers parsed but
// body still transfer-encoded. Read-only from the pipeline's point of
// view.
type RawMail struct {
	// Path is the archive file the message came from.
	Path string

	// Seq is the ordinal position within the archive walk. Merge order
	// follows Seq, so parallel extraction cannot reorder records.
	Seq int

	// Header holds the parsed top-level headers.
	Header mail.Header

	// Body is the raw message body, still MIME- and transfer-encoded.
	Body []byte
}
