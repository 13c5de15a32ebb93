// Package connectors holds the mail archive sources that feed the index.
// Each sub-package knows how to stream raw messages out of one archive
// layout; mbox covers both mbox files and Maildir trees.
//
// Sources implement the driven.MailSource port and never parse message
// content beyond the container framing. Header decoding and body
// extraction belong to internal/extract.
package connectors
