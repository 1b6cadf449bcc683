package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/analyzer"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/detection"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/export"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/imaging"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/pdf"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/quantity"
)

// defaultScale is used when a tool call omits the scale.
const defaultScale = "1:100"

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "aufmass_analyze").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Analysis
	case "aufmass_analyze":
		return s.handleAnalyze(ctx, args)
	case "aufmass_detect_elements":
		return s.handleDetectElements(ctx, args)
	case "aufmass_quantities":
		return s.handleQuantities(ctx, args)
	case "aufmass_parse_scale":
		return s.handleParseScale(args)
	case "aufmass_export":
		return s.handleExport(ctx, args)

	// Inspection
	case "aufmass_overlay":
		return s.handleOverlay(ctx, args)
	case "aufmass_measure":
		return s.handleMeasure(args)
	case "aufmass_image_info":
		return s.handleImageInfo(args)
	case "aufmass_crop":
		return s.handleCrop(args)
	case "aufmass_ocr_text":
		return s.handleOCRText(args)
	case "aufmass_capabilities":
		return s.analyzer.Detector().Capabilities(), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type planArgs struct {
	Path  string `json:"path"`
	Scale string `json:"scale"`
	Pages []int  `json:"pages"`
}

func (a *planArgs) defaults() error {
	if a.Path == "" {
		return errors.New("path is required")
	}
	if a.Scale == "" {
		a.Scale = defaultScale
	}
	return nil
}

func (s *Server) analyze(ctx context.Context, a planArgs) (*analyzer.AnalysisResult, error) {
	if err := a.defaults(); err != nil {
		return nil, err
	}
	return s.analyzer.Analyze(ctx, a.Path, a.Scale, a.Pages)
}

// === Analysis Handlers ===

type analyzeResult struct {
	Summary    analyzer.Summary `json:"summary"`
	Quantities *quantity.Result `json:"quantities"`
	Dimensions interface{}      `json:"dimensions"`
	Rooms      interface{}      `json:"rooms"`
}

func (s *Server) handleAnalyze(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a planArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.analyze(ctx, a)
	if err != nil {
		return nil, err
	}
	return analyzeResult{
		Summary:    res.Summary(),
		Quantities: res.Quantities,
		Dimensions: res.Dimensions,
		Rooms:      res.Rooms,
	}, nil
}

type detectElementsArgs struct {
	planArgs
	Type          string  `json:"type"`
	MinConfidence float64 `json:"min_confidence"`
}

type detectElementsResult struct {
	Count    int                 `json:"count"`
	Elements []detection.Element `json:"elements"`
}

func (s *Server) handleDetectElements(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a detectElementsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.defaults(); err != nil {
		return nil, err
	}

	var elements []detection.Element
	if pdf.IsPDF(a.Path) {
		res, err := s.analyzer.Analyze(ctx, a.Path, a.Scale, a.Pages)
		if err != nil {
			return nil, err
		}
		elements = res.Elements
	} else {
		img, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		if elements, err = s.analyzer.Detector().DetectAll(img, a.Scale); err != nil {
			return nil, err
		}
	}

	if a.Type != "" {
		kind, err := detection.ParseKind(a.Type)
		if err != nil {
			return nil, err
		}
		elements = detection.FilterByType(elements, kind)
	}
	if a.MinConfidence > 0 {
		elements = detection.FilterByConfidence(elements, a.MinConfidence)
	}
	return detectElementsResult{Count: len(elements), Elements: elements}, nil
}

func (s *Server) handleQuantities(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a planArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.analyze(ctx, a)
	if err != nil {
		return nil, err
	}
	return res.Quantities, nil
}

type parseScaleArgs struct {
	Scale string `json:"scale"`
}

type parseScaleResult struct {
	Scale          string  `json:"scale"`
	MetersPerPixel float64 `json:"meters_per_pixel"`
	Valid          bool    `json:"valid"`
}

func (s *Server) handleParseScale(args json.RawMessage) (interface{}, error) {
	var a parseScaleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	factor, ok := detection.ParseScale(a.Scale)
	return parseScaleResult{Scale: a.Scale, MetersPerPixel: factor, Valid: ok}, nil
}

type exportArgs struct {
	planArgs
	Format string `json:"format"`
	Output string `json:"output"`
}

type exportResult struct {
	Items int                      `json:"items"`
	Files map[export.Format]string `json:"files"`
}

func (s *Server) handleExport(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a exportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, errors.New("output is required")
	}
	if a.Format == "" {
		a.Format = string(export.FormatExcel)
	}
	format, err := export.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}

	res, err := s.analyze(ctx, a.planArgs)
	if err != nil {
		return nil, err
	}

	if format == export.FormatAll {
		files, err := s.exporter.ExportAll(res.Quantities, a.Output, "aufmass")
		if err != nil {
			return nil, err
		}
		return exportResult{Items: res.Quantities.Len(), Files: files}, nil
	}

	path, err := s.exporter.Write(format, res.Quantities, a.Output)
	if err != nil {
		return nil, err
	}
	return exportResult{Items: res.Quantities.Len(), Files: map[export.Format]string{format: path}}, nil
}

// === Inspection Handlers ===

type overlayArgs struct {
	Path      string  `json:"path"`
	Scale     string  `json:"scale"`
	Page      int     `json:"page"`
	GridM     float64 `json:"grid_m"`
	GridColor string  `json:"grid_color"`
}

func (s *Server) handleOverlay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a overlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Page == 0 {
		a.Page = 1
	}
	res, err := s.analyze(ctx, planArgs{Path: a.Path, Scale: a.Scale, Pages: []int{a.Page}})
	if err != nil {
		return nil, err
	}
	page := res.Pages[0]
	boxes := analyzer.OverlayBoxes(page.Elements)
	if a.GridM > 0 {
		if a.GridColor == "" {
			a.GridColor = "#808080"
		}
		return imaging.EncodeGridOverlay(page.Image, boxes, a.GridM, res.ScaleFactor, a.GridColor)
	}
	return imaging.EncodeOverlay(page.Image, boxes)
}

type measureArgs struct {
	Path  string `json:"path"`
	Scale string `json:"scale"`
	X1    int    `json:"x1"`
	Y1    int    `json:"y1"`
	X2    int    `json:"x2"`
	Y2    int    `json:"y2"`
}

func (s *Server) handleMeasure(args json.RawMessage) (interface{}, error) {
	var a measureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == "" {
		a.Scale = defaultScale
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	factor := s.analyzer.Detector().Scale(a.Scale)
	return imaging.MeasureDistance(img, imaging.Point{X: a.X1, Y: a.Y1}, imaging.Point{X: a.X2, Y: a.Y2}, factor)
}

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type cropArgs struct {
	Path   string  `json:"path"`
	X1     int     `json:"x1"`
	Y1     int     `json:"y1"`
	X2     int     `json:"x2"`
	Y2     int     `json:"y2"`
	Margin int     `json:"margin"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, image.Rect(a.X1, a.Y1, a.X2, a.Y2), a.Margin, a.Scale)
}

type ocrTextResult struct {
	Text string `json:"text"`
}

func (s *Server) handleOCRText(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	text, err := s.analyzer.ExtractText(img)
	if err != nil {
		return nil, err
	}
	return ocrTextResult{Text: text}, nil
}
