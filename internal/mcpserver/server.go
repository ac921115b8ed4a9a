// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes herbscope analyses as tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/herbscope/internal/service"
	"github.com/starford/herbscope/internal/surface"
)

// DatasetFormatURI is the resource URI of the dataset document contract.
const DatasetFormatURI = "herbscope://dataset-format"

// Server wraps the MCP server with herbscope tools.
type Server struct {
	mcp *server.MCPServer
	svc *service.Service
}

// New creates a new MCP server with all herbscope tools registered.
func New(svc *service.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Herbscope",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_herbs",
		mcp.WithDescription("List herbs of the live dataset, most frequently prescribed first. "+
			"Optional filters take canonical tags (see get_dataset_contract)."),
		mcp.WithString("category", mcp.Description("Category tag, e.g. wind-extinguishing")),
		mcp.WithString("nature", mcp.Description("Nature tag, e.g. warm")),
		mcp.WithString("meridian", mcp.Description("Meridian tag, e.g. liver")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of herbs to return (0 for all)")),
	), s.listHerbs)

	s.mcp.AddTool(mcp.NewTool("get_herb",
		mcp.WithDescription("Read one herb record by its name or alias."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Herb name (Shichangpu) or alias (石菖蒲)")),
	), s.getHerb)

	s.mcp.AddTool(mcp.NewTool("interaction_surface",
		mcp.WithDescription("Compute the dose-response surface of two herbs under an interaction model. "+
			"Returns the peak, the response range and the per-pair factor; pass include_grid=true for the full grid."),
		mcp.WithString("herb_a", mcp.Required(), mcp.Description("Herb on the X axis")),
		mcp.WithString("herb_b", mcp.Required(), mcp.Description("Herb on the Y axis")),
		mcp.WithString("model", mcp.Required(), mcp.Description("additivity, synergy, antagonism or complex-peak"),
			mcp.Enum("additivity", "synergy", "antagonism", "complex-peak")),
		mcp.WithNumber("samples", mcp.Description("Samples per axis, 1 to 1000")),
		mcp.WithBoolean("include_grid", mcp.Description("Include the X, Y and Z arrays")),
	), s.interactionSurface)

	s.mcp.AddTool(mcp.NewTool("list_symptoms",
		mcp.WithDescription("List the symptom vocabulary accepted by recommend_formula."),
	), s.listSymptoms)

	s.mcp.AddTool(mcp.NewTool("recommend_formula",
		mcp.WithDescription("Infer a herb combination and a formula from observed symptoms, "+
			"with the reasoning trace of every rule that fired."),
		mcp.WithString("symptoms", mcp.Required(),
			mcp.Description("Comma-separated symptom tags or Chinese aliases; empty yields the fallback formula")),
	), s.recommendFormula)

	s.mcp.AddTool(mcp.NewTool("graph_summary",
		mcp.WithDescription("Summarise the co-occurrence network: size, density, components and the centrality ranking."),
		mcp.WithNumber("top", mcp.Description("Ranking size (0 for the configured default)")),
	), s.graphSummary)

	s.mcp.AddTool(mcp.NewTool("analysis_report",
		mcp.WithDescription("Generate the Markdown analysis report of the live dataset."),
	), s.analysisReport)

	s.mcp.AddTool(mcp.NewTool("get_dataset_contract",
		mcp.WithDescription("Returns the dataset document contract. "+
			"Call this before import_dataset to ensure correct structure."),
	), s.getDatasetContract)

	s.mcp.AddTool(mcp.NewTool("import_dataset",
		mcp.WithDescription("Replace the live dataset. Pass the document inline as content, "+
			"or point url at an http(s) location or a base64 data: URI. "+
			"The document MUST follow the contract from get_dataset_contract."),
		mcp.WithString("content", mcp.Description("Inline YAML or JSON document")),
		mcp.WithString("url", mcp.Description("http(s) URL or data:application/yaml;base64,... URI")),
	), s.importDataset)

	// Resource: dataset format contract.
	s.mcp.AddResource(
		mcp.NewResource(DatasetFormatURI, "Dataset Format Contract",
			mcp.WithResourceDescription("Canonical YAML/JSON layout of herb datasets."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDatasetFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) listHerbs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	herbs, total, err := s.svc.ListHerbs(ctx, service.Filter{
		Category: req.GetString("category", ""),
		Nature:   req.GetString("nature", ""),
		Meridian: req.GetString("meridian", ""),
		Limit:    req.GetInt("limit", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"herbs": herbs, "total": total}), nil
}

func (s *Server) getHerb(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.GetHerb(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rec), nil
}

type surfaceSummary struct {
	HerbA  string        `json:"herb_a"`
	HerbB  string        `json:"herb_b"`
	Model  string        `json:"model"`
	Factor float64       `json:"factor"`
	Peak   surface.Point `json:"peak"`
	Min    float64       `json:"min"`
	Max    float64       `json:"max"`
	X      []float64     `json:"x,omitempty"`
	Y      []float64     `json:"y,omitempty"`
	Z      [][]float64   `json:"z,omitempty"`
}

func (s *Server) interactionSurface(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := req.RequireString("herb_a")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := req.RequireString("herb_b")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	model, err := req.RequireString("model")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sr := service.SurfaceRequest{HerbA: a, HerbB: b, Model: model}
	if _, ok := req.GetArguments()["samples"]; ok {
		n := req.GetInt("samples", 0)
		sr.Samples = &n
	}

	surf, err := s.svc.Surface(ctx, sr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lo, hi := surf.Range()
	out := surfaceSummary{
		HerbA:  surf.HerbA,
		HerbB:  surf.HerbB,
		Model:  string(surf.Model),
		Factor: surf.Factor,
		Peak:   surf.Peak(),
		Min:    lo,
		Max:    hi,
	}
	if req.GetBool("include_grid", false) {
		out.X, out.Y, out.Z = surf.X, surf.Y, surf.Z
	}
	return jsonResult(out), nil
}

func (s *Server) listSymptoms(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Symptoms()), nil
}

func (s *Server) recommendFormula(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("symptoms")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Recommend(ctx, splitList(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) graphSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.GraphSummary(ctx, req.GetInt("top", 0))), nil
}

func (s *Server) analysisReport(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep, err := s.svc.Report(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(rep.Markdown()), nil
}

func (s *Server) getDatasetContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DatasetFormatContract), nil
}

func (s *Server) readDatasetFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DatasetFormatURI,
			MIMEType: "text/markdown",
			Text:     DatasetFormatContract,
		},
	}, nil
}

// splitList splits a comma or newline separated list, dropping blanks.
func splitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' || r == '，' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
