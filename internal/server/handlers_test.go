package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createPlanFile writes a small floor plan with a window frame, a door frame
// and a column, and returns its path.
func createPlanFile(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	fill := func(x, y, w, h int) {
		draw.Draw(img, image.Rect(x, y, x+w, y+h), image.NewUniform(color.Black), image.Point{}, draw.Src)
	}
	frame := func(x, y, w, h, th int) {
		fill(x, y, w, th)
		fill(x, y+h-th, w, th)
		fill(x, y, th, h)
		fill(x+w-th, y, th, h)
	}
	frame(20, 20, 100, 60, 6)
	frame(200, 20, 42, 92, 6)
	fill(300, 200, 30, 30)

	path := filepath.Join(t.TempDir(), "grundriss.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs a tools/call request and decodes the text content into out.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) *MCPResponse {
	t.Helper()

	params, _ := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil || out == nil {
		return resp
	}

	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	text := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("failed to decode tool result: %v\n%s", err, text)
	}
	return resp
}

func TestHandleToolsCall_Analyze(t *testing.T) {
	s := newTestServer(t)
	path := createPlanFile(t)

	var out struct {
		Summary struct {
			TotalElements int            `json:"total_elements"`
			ElementCounts map[string]int `json:"element_counts"`
		} `json:"summary"`
		Quantities struct {
			Items   []map[string]interface{}      `json:"items"`
			Summary map[string]map[string]float64 `json:"summary"`
		} `json:"quantities"`
	}
	resp := callTool(t, s, "aufmass_analyze", map[string]interface{}{"path": path, "scale": "1:100"}, &out)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}

	if out.Summary.TotalElements != 9 {
		t.Errorf("total_elements: got %d, want 9", out.Summary.TotalElements)
	}
	if out.Summary.ElementCounts["walls"] != 6 {
		t.Errorf("walls: got %d, want 6", out.Summary.ElementCounts["walls"])
	}
	if len(out.Quantities.Items) != 9 {
		t.Errorf("items: got %d, want 9", len(out.Quantities.Items))
	}
	if got := out.Quantities.Summary["Wände"]["m²"]; got != 13.86 {
		t.Errorf("wall area: got %v, want 13.86", got)
	}
}

func TestHandleToolsCall_DetectElements(t *testing.T) {
	s := newTestServer(t)
	path := createPlanFile(t)

	tests := []struct {
		name string
		args map[string]interface{}
		want int
	}{
		{"all", map[string]interface{}{"path": path}, 9},
		{"walls", map[string]interface{}{"path": path, "type": "wall"}, 6},
		{"doors", map[string]interface{}{"path": path, "type": "door"}, 1},
		{"confident", map[string]interface{}{"path": path, "min_confidence": 0.75}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				Count    int               `json:"count"`
				Elements []json.RawMessage `json:"elements"`
			}
			resp := callTool(t, s, "aufmass_detect_elements", tt.args, &out)
			if resp.Error != nil {
				t.Fatalf("Unexpected error: %+v", resp.Error)
			}
			if out.Count != tt.want || len(out.Elements) != tt.want {
				t.Errorf("count: got %d/%d, want %d", out.Count, len(out.Elements), tt.want)
			}
		})
	}

	resp := callTool(t, s, "aufmass_detect_elements", map[string]interface{}{"path": path, "type": "roof"}, nil)
	if resp.Error == nil {
		t.Error("expected error for unknown element type")
	}
}

func TestHandleToolsCall_Quantities(t *testing.T) {
	s := newTestServer(t)
	path := createPlanFile(t)

	var out struct {
		Items []struct {
			Position int     `json:"position"`
			Category string  `json:"category"`
			Quantity float64 `json:"quantity"`
		} `json:"items"`
	}
	resp := callTool(t, s, "aufmass_quantities", map[string]interface{}{"path": path}, &out)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	if len(out.Items) != 9 {
		t.Fatalf("items: got %d, want 9", len(out.Items))
	}
	for i, item := range out.Items {
		if item.Position != i+1 {
			t.Errorf("item %d position: got %d", i, item.Position)
		}
	}
	if out.Items[8].Category != "Stützen" {
		t.Errorf("last category: got %s, want Stützen", out.Items[8].Category)
	}
}

func TestHandleToolsCall_ParseScale(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		scale string
		want  float64
		valid bool
	}{
		{"1:100", 0.01, true},
		{"1:50", 0.02, true},
		{"abc", 0.01, false},
		{"1:0", 0.01, false},
	}

	for _, tt := range tests {
		t.Run(tt.scale, func(t *testing.T) {
			var out parseScaleResult
			callTool(t, s, "aufmass_parse_scale", map[string]interface{}{"scale": tt.scale}, &out)
			if out.MetersPerPixel != tt.want || out.Valid != tt.valid {
				t.Errorf("got %v/%v, want %v/%v", out.MetersPerPixel, out.Valid, tt.want, tt.valid)
			}
		})
	}
}

func TestHandleToolsCall_Export(t *testing.T) {
	s := newTestServer(t)
	path := createPlanFile(t)
	dir := t.TempDir()

	var out struct {
		Items int               `json:"items"`
		Files map[string]string `json:"files"`
	}
	resp := callTool(t, s, "aufmass_export", map[string]interface{}{
		"path":   path,
		"format": "json",
		"output": filepath.Join(dir, "aufmass"),
	}, &out)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	if out.Items != 9 {
		t.Errorf("items: got %d, want 9", out.Items)
	}
	want := filepath.Join(dir, "aufmass.json")
	if out.Files["json"] != want {
		t.Errorf("file: got %s, want %s", out.Files["json"], want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("export not written: %v", err)
	}

	resp = callTool(t, s, "aufmass_export", map[string]interface{}{
		"path":   path,
		"format": "all",
		"output": filepath.Join(dir, "all"),
	}, &out)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	if len(out.Files) != 4 {
		t.Errorf("files: got %d, want 4", len(out.Files))
	}

	resp = callTool(t, s, "aufmass_export", map[string]interface{}{"path": path, "format": "pdf", "output": dir}, nil)
	if resp.Error == nil {
		t.Error("expected error for unknown format")
	}
	resp = callTool(t, s, "aufmass_export", map[string]interface{}{"path": path}, nil)
	if resp.Error == nil {
		t.Error("expected error without output")
	}
}

func TestHandleToolsCall_Overlay(t *testing.T) {
	s := newTestServer(t)
	path := createPlanFile(t)

	var out struct {
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		ImageBase64 string `json:"image_base64"`
		Boxes       int    `json:"boxes"`
	}
	resp := callTool(t, s, "aufmass_overlay", map[string]interface{}{"path": path}, &out)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	if out.Width != 400 || out.Height != 300 {
		t.Errorf("size: got %dx%d, want 400x300", out.Width, out.Height)
	}
	if out.Boxes != 9 || out.ImageBase64 == "" {
		t.Errorf("boxes: got %d, image empty: %v", out.Boxes, out.ImageBase64 == "")
	}
}

func TestHandleToolsCall_ImageInfoAndCrop(t *testing.T) {
	s := newTestServer(t)
	path := createPlanFile(t)

	var info struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
	}
	callTool(t, s, "aufmass_image_info", map[string]interface{}{"path": path}, &info)
	if info.Width != 400 || info.Height != 300 || info.Format != "png" {
		t.Errorf("info: got %+v", info)
	}

	var crop struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	resp := callTool(t, s, "aufmass_crop", map[string]interface{}{
		"path": path, "x1": 20, "y1": 20, "x2": 120, "y2": 80, "margin": 5,
	}, &crop)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	if crop.Width != 110 || crop.Height != 70 {
		t.Errorf("crop: got %dx%d, want 110x70", crop.Width, crop.Height)
	}
	if s.cache.Len() != 1 {
		t.Errorf("cache: got %d entries, want 1", s.cache.Len())
	}
}

func TestHandleToolsCall_Capabilities(t *testing.T) {
	s := newTestServer(t)
	var caps map[string]bool
	resp := callTool(t, s, "aufmass_capabilities", nil, &caps)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	if caps["door_swings"] || caps["dashed_beams"] || caps["hatch_slabs"] {
		t.Errorf("capabilities should all be false: %v", caps)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newTestServer(t)
	path := createPlanFile(t)
	docx := filepath.Join(t.TempDir(), "plan.docx")
	if err := os.WriteFile(docx, []byte("PK"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		tool    string
		args    map[string]interface{}
		wantMsg string
	}{
		{"unknown tool", "image_load", map[string]interface{}{}, "unknown tool"},
		{"missing path", "aufmass_analyze", map[string]interface{}{}, "path is required"},
		{"file not found", "aufmass_analyze", map[string]interface{}{"path": "/nonexistent/plan.png"}, "not found"},
		{"unsupported", "aufmass_image_info", map[string]interface{}{"path": docx}, "unsupported"},
		{"ocr disabled", "aufmass_ocr_text", map[string]interface{}{"path": path}, "ocr is disabled"},
		{"no such page", "aufmass_overlay", map[string]interface{}{"path": path, "page": 2}, "no pages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.args, nil)
			if resp.Error == nil {
				t.Fatal("expected error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("code: got %d, want -32000", resp.Error.Code)
			}
			if data, _ := resp.Error.Data.(string); !strings.Contains(data, tt.wantMsg) {
				t.Errorf("data %q should contain %q", data, tt.wantMsg)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp == nil || resp.Error == nil {
		t.Fatal("expected error response")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_OverlayGrid(t *testing.T) {
	s := newTestServer(t)
	path := createPlanFile(t)

	var out struct {
		Boxes       int     `json:"boxes"`
		GridMeters  float64 `json:"grid_meters"`
		GridSpacing int     `json:"grid_spacing_pixels"`
	}
	resp := callTool(t, s, "aufmass_overlay", map[string]interface{}{"path": path, "scale": "1:50", "grid_m": 1.0}, &out)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	if out.GridSpacing != 50 {
		t.Errorf("grid spacing: got %d, want 50", out.GridSpacing)
	}
	if out.Boxes != 9 {
		t.Errorf("boxes: got %d, want 9", out.Boxes)
	}
}

func TestHandleToolsCall_Measure(t *testing.T) {
	s := newTestServer(t)
	path := createPlanFile(t)

	var out struct {
		DistancePixels float64 `json:"distance_pixels"`
		DistanceMeters float64 `json:"distance_m"`
	}
	resp := callTool(t, s, "aufmass_measure", map[string]interface{}{
		"path": path, "scale": "1:100", "x1": 20, "y1": 20, "x2": 120, "y2": 20,
	}, &out)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	if out.DistancePixels != 100 || out.DistanceMeters != 1 {
		t.Errorf("got %v px / %v m, want 100 px / 1 m", out.DistancePixels, out.DistanceMeters)
	}

	resp = callTool(t, s, "aufmass_measure", map[string]interface{}{
		"path": path, "x1": 0, "y1": 0, "x2": 500, "y2": 0,
	}, nil)
	if resp.Error == nil {
		t.Error("expected error for point outside the image")
	}
}
