package parts

// Context is the temporal context a block is converted in.
type Context uint8

const (
	StreamStart Context = iota + 1
	StreamDelta
	StreamEnd
	NonStream
)

// String returns the human-readable context name used in diagnostics.
func (c Context) String() string {
	switch c {
	case StreamStart:
		return "stream start"
	case StreamDelta:
		return "stream delta"
	case StreamEnd:
		return "stream end"
	case NonStream:
		return "non stream"
	default:
		return "unknown context"
	}
}

// Domain is the category of operation an ability serves. Only content blocks
// exist today; tool-level operations would get their own domain.
type Domain uint8

const (
	ContentBlock Domain = iota + 1
)

// String returns the wire-style domain name.
func (d Domain) String() string {
	switch d {
	case ContentBlock:
		return "content_block"
	default:
		return "unknown_domain"
	}
}
