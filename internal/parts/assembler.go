package parts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// Assembler accumulates the blocks of one stream. It is owned by a single
// stream-consuming loop and must not be shared.
type Assembler struct {
	registry *Registry
	domain   Domain
	blocks   map[int]*pendingBlock
}

// pendingBlock is a block under construction plus its delta buffers.
type pendingBlock struct {
	block     Block
	text      strings.Builder
	inputJSON strings.Builder
	stopped   bool
}

// NewAssembler returns an Assembler dispatching through registry in the
// content block domain.
func NewAssembler(registry *Registry) *Assembler {
	return &Assembler{
		registry: registry,
		domain:   ContentBlock,
		blocks:   make(map[int]*pendingBlock),
	}
}

// OnBlockStart records the initial block at index and converts it in the
// stream start context.
func (a *Assembler) OnBlockStart(index int, block Block) (*types.Part, error) {
	if block == nil {
		return nil, fmt.Errorf("block %d started without content", index)
	}
	if _, exists := a.blocks[index]; exists {
		return nil, fmt.Errorf("block %d started twice", index)
	}

	pending := &pendingBlock{block: block}
	switch b := block.(type) {
	case TextBlock:
		pending.text.WriteString(b.Text)
	case ThinkingBlock:
		pending.text.WriteString(b.Thinking)
	}
	a.blocks[index] = pending

	return a.registry.Dispatch(StreamStart, a.domain, block)
}

// OnBlockDelta applies delta to the block at index and converts the delta in
// the stream delta context.
func (a *Assembler) OnBlockDelta(index int, delta Block) (*types.Part, error) {
	pending, ok := a.blocks[index]
	if !ok {
		return nil, fmt.Errorf("delta for unknown block %d", index)
	}
	if pending.stopped {
		return nil, fmt.Errorf("delta for stopped block %d", index)
	}

	part, err := a.registry.Dispatch(StreamDelta, a.domain, delta)
	if err != nil {
		return nil, err
	}

	switch d := delta.(type) {
	case TextBlock:
		pending.text.WriteString(d.Text)
	case ThinkingDelta:
		pending.text.WriteString(d.Thinking)
	case SignatureDelta:
		if tb, ok := pending.block.(ThinkingBlock); ok {
			tb.Signature = d.Signature
			pending.block = tb
		}
	case InputJSONDelta:
		pending.inputJSON.WriteString(d.PartialJSON)
	}
	return part, nil
}

// OnBlockStop finalizes the block at index. Streamed tool input is parsed
// here as one JSON document; a malformed document fails the stream with
// *MalformedToolInputError. The finalized block is converted in the stream
// end context only if an ability supports it; otherwise no part is returned.
func (a *Assembler) OnBlockStop(index int) (*types.Part, error) {
	pending, ok := a.blocks[index]
	if !ok {
		return nil, fmt.Errorf("stop for unknown block %d", index)
	}
	if pending.stopped {
		return nil, fmt.Errorf("block %d stopped twice", index)
	}

	block, err := pending.finalize(index)
	if err != nil {
		return nil, err
	}
	pending.block = block
	pending.stopped = true

	if !a.registry.Supports(block.Kind(), StreamEnd, a.domain) {
		return nil, nil
	}
	return a.registry.Dispatch(StreamEnd, a.domain, block)
}

// Blocks returns the finalized blocks in index order. Blocks that never
// stopped are left out.
func (a *Assembler) Blocks() []Block {
	indexes := make([]int, 0, len(a.blocks))
	for i, p := range a.blocks {
		if p.stopped {
			indexes = append(indexes, i)
		}
	}
	slices.Sort(indexes)

	blocks := make([]Block, 0, len(indexes))
	for _, i := range indexes {
		blocks = append(blocks, a.blocks[i].block)
	}
	return blocks
}

// Reset discards all accumulated state.
func (a *Assembler) Reset() {
	clear(a.blocks)
}

// finalize merges the accumulated deltas into the block.
func (p *pendingBlock) finalize(index int) (Block, error) {
	switch b := p.block.(type) {
	case TextBlock:
		b.Text = p.text.String()
		return b, nil
	case ThinkingBlock:
		b.Thinking = p.text.String()
		return b, nil
	case ToolUseBlock:
		input, err := p.parseInput(index, b.Input)
		if err != nil {
			return nil, err
		}
		b.Input = input
		return b, nil
	case ServerToolUseBlock:
		input, err := p.parseInput(index, b.Input)
		if err != nil {
			return nil, err
		}
		b.Input = input
		return b, nil
	default:
		return p.block, nil
	}
}

// parseInput returns the streamed input document, or the start input when no
// fragments arrived. An empty document stands for an empty object.
func (p *pendingBlock) parseInput(index int, startInput json.RawMessage) (json.RawMessage, error) {
	if p.inputJSON.Len() == 0 {
		return startInput, nil
	}

	raw := p.inputJSON.String()
	if strings.TrimSpace(raw) == "" {
		return json.RawMessage("{}"), nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return nil, &MalformedToolInputError{Index: index, Input: raw, Err: err}
	}
	return json.RawMessage(buf.Bytes()), nil
}
