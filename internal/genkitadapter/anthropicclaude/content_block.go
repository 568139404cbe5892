package anthropicclaude

import (
	"encoding/json"
	"fmt"

	"github.com/florianilch/claudine-genkit/internal/parts"
)

// rawUnion is implemented by the SDK's response union types.
type rawUnion interface {
	RawJSON() string
}

// toBlock decodes an SDK content block or delta union into a parts.Block.
// Unions built in code rather than decoded from the wire carry no raw JSON;
// those are re-encoded from their fields.
func toBlock(union rawUnion) (parts.Block, error) {
	data := []byte(union.RawJSON())
	if len(data) == 0 {
		var err error
		if data, err = json.Marshal(union); err != nil {
			return nil, fmt.Errorf("encode content block: %w", err)
		}
	}
	return parts.DecodeBlock(data)
}

// withToolUseID assigns a generated id to tool_use blocks that lack one, so
// the request part and any later tool response can be correlated.
func withToolUseID(block parts.Block) parts.Block {
	if b, ok := block.(parts.ToolUseBlock); ok && b.ID == "" {
		b.ID = newToolUseID()
		return b
	}
	return block
}
