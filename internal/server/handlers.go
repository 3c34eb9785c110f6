package server

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
	"github.com/ironsheep/board-vector/internal/imaging"
	"github.com/ironsheep/board-vector/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "board_asset_list", "board_filter").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.WithField("tool", params.Name).WithError(err).Info("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", map[string]string{
			"type":   string(apperrors.TypeOf(err)),
			"detail": err.Error(),
		})
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Asset store
	case "board_asset_list":
		return s.handleAssetList(args)
	case "board_asset_add":
		return s.handleAssetAdd(args)
	case "board_asset_delete":
		return s.handleAssetDelete(args)
	case "board_asset_get":
		return s.handleAssetGet(args)

	// Pipeline
	case "board_filter":
		return s.handleFilter(args)

	// Basic Image Information
	case "image_dimensions":
		return s.handleImageDimensions(args)

	default:
		return nil, apperrors.NotFound("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(args, v); err != nil {
		return apperrors.InvalidArgument("bad arguments: %v", err)
	}
	return nil
}

// quadArgs are the corner coordinates shared by several tools.
type quadArgs struct {
	X1 *int `json:"x1"`
	Y1 *int `json:"y1"`
	X2 *int `json:"x2"`
	Y2 *int `json:"y2"`
	X3 *int `json:"x3"`
	Y3 *int `json:"y3"`
	X4 *int `json:"x4"`
	Y4 *int `json:"y4"`
}

func (a quadArgs) present() bool {
	return a.X1 != nil || a.Y1 != nil || a.X2 != nil || a.Y2 != nil ||
		a.X3 != nil || a.Y3 != nil || a.X4 != nil || a.Y4 != nil
}

func (a quadArgs) quad() (imaging.Quad, error) {
	coords := []*int{a.X1, a.Y1, a.X2, a.Y2, a.X3, a.Y3, a.X4, a.Y4}
	points := make([]imaging.Point, 0, 4)
	for i := 0; i < len(coords); i += 2 {
		if coords[i] == nil || coords[i+1] == nil {
			return imaging.Quad{}, apperrors.InvalidArgument("corner %d is missing a coordinate", i/2+1)
		}
		points = append(points, imaging.Point{X: *coords[i], Y: *coords[i+1]})
	}
	return imaging.NewQuad(points)
}

// === Asset Store Handlers ===

type assetView struct {
	Index int          `json:"index"`
	Name  string       `json:"name"`
	Path  string       `json:"path"`
	Quad  imaging.Quad `json:"quad"`
}

func (s *Server) handleAssetList(args json.RawMessage) (interface{}, error) {
	entries := s.store.List()
	views := make([]assetView, len(entries))
	for i, e := range entries {
		views[i] = assetView{
			Index: i,
			Name:  e.Name,
			Path:  filepath.Join(s.store.Dir(), e.Name),
			Quad:  e.Quad,
		}
	}
	return map[string]interface{}{
		"count":  len(views),
		"assets": views,
	}, nil
}

type assetAddArgs struct {
	Path string `json:"path"`
	quadArgs
}

func (s *Server) handleAssetAdd(args json.RawMessage) (interface{}, error) {
	var a assetAddArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, apperrors.InvalidArgument("path is required")
	}
	q, err := a.quad()
	if err != nil {
		return nil, err
	}
	e, err := s.store.Add(a.Path, q)
	if err != nil {
		return nil, err
	}
	return assetView{
		Index: s.store.Len() - 1,
		Name:  e.Name,
		Path:  filepath.Join(s.store.Dir(), e.Name),
		Quad:  e.Quad,
	}, nil
}

type assetIndexArgs struct {
	Index *int `json:"index"`
}

func (a assetIndexArgs) index() (int, error) {
	if a.Index == nil {
		return 0, apperrors.InvalidArgument("index is required")
	}
	return *a.Index, nil
}

func (s *Server) handleAssetDelete(args json.RawMessage) (interface{}, error) {
	var a assetIndexArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	i, err := a.index()
	if err != nil {
		return nil, err
	}
	path, _, err := s.store.Get(i)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(i); err != nil {
		return nil, err
	}
	s.cache.Evict(path)
	return map[string]interface{}{
		"deleted":   filepath.Base(path),
		"remaining": s.store.Len(),
	}, nil
}

func (s *Server) handleAssetGet(args json.RawMessage) (interface{}, error) {
	var a assetIndexArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	i, err := a.index()
	if err != nil {
		return nil, err
	}
	path, q, err := s.store.Get(i)
	if err != nil {
		return nil, err
	}
	buf, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"index":      i,
		"path":       path,
		"dimensions": buf.Dimensions(),
		"quad":       q,
		"metrics":    imaging.MeasureQuad(q),
	}, nil
}

// === Pipeline Handlers ===

type filterArgs struct {
	Index      *int            `json:"index"`
	Path       string          `json:"path"`
	Params     json.RawMessage `json:"params"`
	OutputPath string          `json:"output_path"`
	Watermark  bool            `json:"watermark"`
	quadArgs
}

type filterResult struct {
	Source     string                `json:"source"`
	Params     pipeline.Params       `json:"params"`
	Dimensions imaging.Dimensions    `json:"dimensions"`
	OutputPath string                `json:"output_path,omitempty"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
}

// resolveSource picks the photo and quad from either a store index or an
// explicit path with corners.
func (s *Server) resolveSource(a filterArgs) (string, imaging.Quad, error) {
	if a.Index != nil {
		if a.Path != "" || a.present() {
			return "", imaging.Quad{}, apperrors.InvalidArgument("give either index or path with corners, not both")
		}
		return s.store.Get(*a.Index)
	}
	if a.Path == "" {
		return "", imaging.Quad{}, apperrors.InvalidArgument("index or path is required")
	}
	q, err := a.quad()
	if err != nil {
		return "", imaging.Quad{}, err
	}
	return a.Path, q, nil
}

func (s *Server) handleFilter(args json.RawMessage) (interface{}, error) {
	var a filterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	path, q, err := s.resolveSource(a)
	if err != nil {
		return nil, err
	}

	p := s.params
	if len(a.Params) > 0 {
		if err := json.Unmarshal(a.Params, &p); err != nil {
			return nil, apperrors.InvalidArgument("bad params: %v", err)
		}
	}

	src, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	out, err := pipeline.FilterLetterforms(src, q, p, s.log)
	if err != nil {
		return nil, err
	}
	if a.Watermark {
		out.Watermark(p.Annotations())
	}

	res := filterResult{
		Source:     path,
		Params:     p,
		Dimensions: out.Dimensions(),
	}
	if a.OutputPath != "" {
		if err := out.Save(a.OutputPath); err != nil {
			return nil, err
		}
		res.OutputPath = a.OutputPath
		return res, nil
	}

	enc, err := out.EncodePNG()
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	res.Image = enc
	return res, nil
}

// === Basic Image Information Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, apperrors.InvalidArgument("path is required")
	}
	buf, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return buf.Dimensions(), nil
}
