package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func integerProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

// quadProps lists the eight corner coordinates, top-left first, clockwise.
func quadProps() map[string]interface{} {
	props := map[string]interface{}{}
	corners := []string{"top-left", "top-right", "bottom-right", "bottom-left"}
	for i, c := range corners {
		n := string(rune('1' + i))
		props["x"+n] = integerProp("X of the " + c + " corner")
		props["y"+n] = integerProp("Y of the " + c + " corner")
	}
	return props
}

var quadRequired = []string{"x1", "y1", "x2", "y2", "x3", "y3", "x4", "y4"}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	addProps := quadProps()
	addProps["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Path of the photo to add. It is hard-linked into the asset directory.",
	}

	filterProps := quadProps()
	filterProps["index"] = integerProp("Asset index. When set, path and corners come from the store.")
	filterProps["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Photo path, used with the corner coordinates when index is not given",
	}
	filterProps["params"] = map[string]interface{}{
		"type":        "object",
		"description": "Pipeline parameter overrides: blur_kernel, adaptive_block, adaptive_c, thresh_percent, min_area, crop_percent, work_width, work_height",
	}
	filterProps["output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Write the result here instead of returning base64 PNG",
	}
	filterProps["watermark"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Write the parameters onto the result",
		"default":     false,
	}

	return []Tool{
		// Asset store
		{
			Name:        "board_asset_list",
			Description: "List stored board photos with their corner quads.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "board_asset_add",
			Description: "Store a board photo together with the four corners of the board, top-left first, clockwise.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": addProps,
				"required":   append([]string{"path"}, quadRequired...),
			},
		},
		{
			Name:        "board_asset_delete",
			Description: "Remove a stored photo by index.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"index": integerProp("Asset index as reported by board_asset_list"),
				},
				"required": []string{"index"},
			},
		},
		{
			Name:        "board_asset_get",
			Description: "Get a stored photo's path, size and quad, with edge lengths, angles and the straightened output size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"index": integerProp("Asset index as reported by board_asset_list"),
				},
				"required": []string{"index"},
			},
		},

		// Pipeline
		{
			Name:        "board_filter",
			Description: "Straighten a board photo and reduce it to a black-on-white mask of what is written on it.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": filterProps,
			},
		},

		// Basic Image Information
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
