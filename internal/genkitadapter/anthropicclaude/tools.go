package anthropicclaude

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// fromToolDefinitions transforms tool definitions to Anthropic format and
// appends the web search server tool when configured.
func fromToolDefinitions(
	defs []*types.ToolDefinition,
	webSearch *types.WebSearchConfig,
) ([]anthropic.ToolUnionParam, error) {
	if len(defs) == 0 && webSearch == nil {
		return nil, nil
	}

	tools := make([]anthropic.ToolUnionParam, 0, len(defs)+1)
	if webSearch != nil {
		tools = append(tools, webSearchTool(webSearch))
	}

	for i, def := range defs {
		if def == nil {
			return nil, invalidRequestf("tool %d is null", i)
		}
		if def.Name == "" {
			return nil, invalidRequestf("tool %d is missing a name", i)
		}
		if err := validateInputSchema(def.InputSchema); err != nil {
			return nil, invalidRequestf("tool %q input schema: %v", def.Name, err)
		}

		toolParam := anthropic.ToolParam{
			Name:        def.Name,
			InputSchema: anthropic.ToolInputSchemaParam{},
		}
		if def.Description != "" {
			toolParam.Description = anthropic.String(def.Description)
		}

		// Anthropic separates properties/required into distinct fields with
		// remaining schema keywords in ExtraFields.
		if params := def.InputSchema; params != nil {
			if props, ok := params["properties"]; ok {
				toolParam.InputSchema.Properties = props
			}

			switch req := params["required"].(type) {
			case []string:
				toolParam.InputSchema.Required = req
			case []any:
				var required []string
				for _, r := range req {
					if s, ok := r.(string); ok {
						required = append(required, s)
					}
				}
				toolParam.InputSchema.Required = required
			}

			// Preserve schema fields without dedicated Anthropic struct fields (e.g., additionalProperties).
			var extraFields map[string]any
			for key, value := range params {
				if key != "type" && key != "properties" && key != "required" {
					if extraFields == nil {
						extraFields = make(map[string]any)
					}
					extraFields[key] = value
				}
			}
			toolParam.InputSchema.ExtraFields = extraFields
		}

		tools = append(tools, anthropic.ToolUnionParam{OfTool: &toolParam})
	}

	return tools, nil
}

// validateInputSchema compiles schema so malformed tool schemas fail before
// the request is sent.
func validateInputSchema(schema map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	if t, ok := schema["type"]; ok && t != "object" {
		return fmt.Errorf("type must be \"object\", got %v", t)
	}

	// Round-trip through JSON so the compiler sees plain JSON values.
	data, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	var schemaDoc any
	if err := json.Unmarshal(data, &schemaDoc); err != nil {
		return fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaDoc); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	if _, err := c.Compile("schema.json"); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return nil
}

// webSearchTool returns the vendor-executed web search tool.
func webSearchTool(cfg *types.WebSearchConfig) anthropic.ToolUnionParam {
	tool := anthropic.WebSearchTool20250305Param{}
	if cfg.MaxUses > 0 {
		tool.MaxUses = anthropic.Int(int64(cfg.MaxUses))
	}
	return anthropic.ToolUnionParam{OfWebSearchTool20250305: &tool}
}

// fromToolChoice converts a tool choice to Anthropic ToolChoiceUnionParam.
// A nil choice leaves the field unset so Anthropic applies its default.
func fromToolChoice(choice *types.ToolChoice, defs []*types.ToolDefinition) (anthropic.ToolChoiceUnionParam, error) {
	if choice == nil {
		return anthropic.ToolChoiceUnionParam{}, nil
	}

	switch choice.Type {
	case "auto":
		return anthropic.ToolChoiceUnionParam{
			OfAuto: &anthropic.ToolChoiceAutoParam{},
		}, nil
	case "any":
		return anthropic.ToolChoiceUnionParam{
			OfAny: &anthropic.ToolChoiceAnyParam{},
		}, nil
	case "tool":
		if choice.Name == "" {
			return anthropic.ToolChoiceUnionParam{}, invalidRequestf("tool choice %q requires a tool name", choice.Type)
		}
		if !hasToolDefinition(defs, choice.Name) {
			return anthropic.ToolChoiceUnionParam{}, invalidRequestf("tool choice name %q does not match any tool", choice.Name)
		}
		return anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: choice.Name},
		}, nil
	default:
		return anthropic.ToolChoiceUnionParam{}, invalidRequestf("unsupported tool choice %q", choice.Type)
	}
}

func hasToolDefinition(defs []*types.ToolDefinition, name string) bool {
	for _, def := range defs {
		if def != nil && def.Name == name {
			return true
		}
	}
	return false
}

// newToolUseID generates an Anthropic-style tool use ID (format: toolu_<8-char-uuid>)
// for tool_use blocks that arrive without one.
func newToolUseID() string {
	return fmt.Sprintf("toolu_%s", uuid.New().String()[:8])
}
