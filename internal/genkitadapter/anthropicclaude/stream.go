package anthropicclaude

import (
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
	"github.com/florianilch/claudine-genkit/internal/parts"
)

var errStreamIncomplete = errors.New("anthropic stream ended before message_stop")

// streamState translates the events of one stream into chunks.
type streamState struct {
	registry  *parts.Registry
	assembler *parts.Assembler

	id         string
	stopReason anthropic.StopReason
	usage      types.Usage
	done       bool
}

func newStreamState(registry *parts.Registry) *streamState {
	return &streamState{
		registry:  registry,
		assembler: parts.NewAssembler(registry),
	}
}

// handle processes one event. It returns a chunk when the event produced
// content, or the final response on message_stop.
func (s *streamState) handle(event anthropic.MessageStreamEventUnion) (*types.GenerateChunk, error) {
	// AsAny() returns the concrete type for Anthropic SDK union discrimination.
	switch ev := event.AsAny().(type) {
	case anthropic.MessageStartEvent:
		s.id = ev.Message.ID
		s.usage = *toUsage(ev.Message.Usage)
		s.assembler.Reset()
		return nil, nil

	case anthropic.ContentBlockStartEvent:
		block, err := toBlock(ev.ContentBlock)
		if err != nil {
			return nil, fmt.Errorf("content block %d start: %w", ev.Index, err)
		}
		part, err := s.assembler.OnBlockStart(int(ev.Index), withToolUseID(block))
		if err != nil {
			return nil, err
		}
		return contentChunk(int(ev.Index), part), nil

	case anthropic.ContentBlockDeltaEvent:
		delta, err := toBlock(ev.Delta)
		if err != nil {
			return nil, fmt.Errorf("content block %d delta: %w", ev.Index, err)
		}
		part, err := s.assembler.OnBlockDelta(int(ev.Index), delta)
		if err != nil {
			return nil, err
		}
		return contentChunk(int(ev.Index), part), nil

	case anthropic.ContentBlockStopEvent:
		part, err := s.assembler.OnBlockStop(int(ev.Index))
		if err != nil {
			return nil, err
		}
		return contentChunk(int(ev.Index), part), nil

	case anthropic.MessageDeltaEvent:
		s.stopReason = ev.Delta.StopReason
		mergeDeltaUsage(&s.usage, ev.Usage)
		return nil, nil

	case anthropic.MessageStopEvent:
		content, err := convertBlocks(s.registry, s.assembler.Blocks())
		if err != nil {
			return nil, err
		}
		id := s.id
		if id == "" {
			id = newResponseID()
		}
		usage := s.usage
		s.done = true
		return &types.GenerateChunk{
			Role: types.RoleModel,
			Response: &types.GenerateResponse{
				ID:           id,
				Message:      &types.Message{Role: types.RoleModel, Content: content},
				FinishReason: toFinishReason(s.stopReason),
				Usage:        &usage,
			},
		}, nil

	default:
		// ping and unknown events carry no content.
		return nil, nil
	}
}

// contentChunk wraps part in a chunk, dropping parts without content.
func contentChunk(index int, part *types.Part) *types.GenerateChunk {
	if part.IsEmpty() {
		return nil
	}
	return &types.GenerateChunk{
		Index:   index,
		Role:    types.RoleModel,
		Content: []*types.Part{part},
	}
}
