// Package server implements the MCP (Model Context Protocol) server for the
// floor-plan take-off tools.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Analysis:
//   - aufmass_analyze: Detect elements, read text and compute quantities
//   - aufmass_detect_elements: Detect elements, optionally filtered
//   - aufmass_quantities: Bill of quantities only
//   - aufmass_parse_scale: Convert "1:50" into meters per pixel
//   - aufmass_export: Write Excel, CSV, JSON or Arrow files
//
// Inspection:
//   - aufmass_overlay: Detected elements drawn over the page
//   - aufmass_measure: Distance between two points in meters
//   - aufmass_image_info: Dimensions and format of a raster plan
//   - aufmass_crop: Extract a region as PNG
//   - aufmass_ocr_text: Full text of a raster plan
//   - aufmass_capabilities: Optional detection features
//
// Raster images are cached by path for the lifetime of the process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and the Go error string as data.
package server
