package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the floor plan (PDF, PNG, JPEG, GIF, TIFF or BMP)",
	}
}

func scaleProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Drawing scale as N:D, e.g. \"1:100\" or \"1:50\". Default 1:100",
		"default":     "1:100",
	}
}

func pagesProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "integer"},
		"description": "1-based PDF pages to analyze. Omit for all pages",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Analysis
		{
			Name:        "aufmass_analyze",
			Description: "Analyze a floor plan: detect walls, windows, doors, columns, beams and slabs, read dimensions and room labels, and compute the bill of quantities. Returns a summary and the take-off items.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"scale": scaleProperty(),
					"pages": pagesProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "aufmass_detect_elements",
			Description: "Detect building elements without computing quantities. Optionally filter by element type and minimum confidence.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"scale": scaleProperty(),
					"type": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"wall", "window", "door", "column", "beam", "slab"},
						"description": "Only return elements of this type",
					},
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Drop elements below this confidence (0-1). Default 0",
						"default":     0.0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "aufmass_quantities",
			Description: "Compute the bill of quantities (Aufmaß) for a floor plan: numbered items with quantity and unit, and totals per category.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "aufmass_parse_scale",
			Description: "Convert a drawing scale such as \"1:50\" into meters per pixel. Invalid scales fall back to 1:100.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"scale": map[string]interface{}{
						"type":        "string",
						"description": "Drawing scale as N:D",
					},
				},
				"required": []string{"scale"},
			},
		},
		{
			Name:        "aufmass_export",
			Description: "Analyze a floor plan and write the bill of quantities as Excel, CSV, JSON or Arrow. Format \"all\" writes every format into the output directory.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"scale": scaleProperty(),
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"excel", "csv", "json", "arrow", "all"},
						"description": "Export format. Default excel",
						"default":     "excel",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Output file, or directory when format is \"all\"",
					},
				},
				"required": []string{"path", "output"},
			},
		},

		// Inspection
		{
			Name:        "aufmass_overlay",
			Description: "Render the detected elements of one page as colored, numbered boxes over the drawing. Returns a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"scale": scaleProperty(),
					"page": map[string]interface{}{
						"type":        "integer",
						"description": "1-based page number. Default 1",
						"default":     1,
					},
					"grid_m": map[string]interface{}{
						"type":        "number",
						"description": "Optional grid interval in meters, e.g. 1.0. Omit for no grid",
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid color as hex (e.g., '#808080')",
						"default":     "#808080",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "aufmass_measure",
			Description: "Measure the distance between two pixel coordinates of a raster floor plan in pixels and in meters at the drawing scale.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"scale": scaleProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Start point X coordinate",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Start point Y coordinate",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "End point X coordinate",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "End point Y coordinate",
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "aufmass_image_info",
			Description: "Load a raster floor plan and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "aufmass_crop",
			Description: "Crop a rectangular region from a raster floor plan and return it as base64-encoded PNG. Use this to zoom into a detected element.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"margin": map[string]interface{}{
						"type":        "integer",
						"description": "Extra pixels around the region. Default 0",
						"default":     0,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "aufmass_ocr_text",
			Description: "Extract all text from a raster floor plan with Tesseract.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "aufmass_capabilities",
			Description: "Report which optional detection features are available.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
