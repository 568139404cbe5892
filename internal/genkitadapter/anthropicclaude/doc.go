// Package anthropicclaude serves genkit-style generate requests with Anthropic's
// Messages API.
//
// The runner handles:
//
//   - Request building: System messages are hoisted to Anthropic's System field
//     (optionally marked as a cache breakpoint). Tool messages become user messages
//     and consecutive messages of the same Anthropic role are merged.
//
//   - Content translation: Parts are converted to content block params by a fixed
//     precedence (reasoning, redacted thinking, text, media, tool request, tool
//     response). Thinking signatures must survive the round trip unchanged.
//
//   - Responses: Content blocks are decoded into parts.Block values and converted
//     by a parts.Registry, so new block kinds need an ability, not a runner change.
//
//   - Streaming: SSE events drive a parts.Assembler. Content chunks are yielded as
//     they arrive; the last chunk carries the complete response built from the
//     finalized blocks.
//
// # Adapters
//
// Runner: genkit Generate → Anthropic Messages
package anthropicclaude
