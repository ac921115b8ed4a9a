package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/dataset"
	"github.com/starford/herbscope/internal/recommend"
	"github.com/starford/herbscope/internal/service"
	"github.com/starford/herbscope/internal/testutil"
)

func testServer(t *testing.T) (*Server, *service.Service) {
	t.Helper()
	svc := testutil.Service(t)
	return New(svc, "test"), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no in-process call helper, so dispatch to the handlers directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_herbs":
		result, err = srv.listHerbs(ctx, req)
	case "get_herb":
		result, err = srv.getHerb(ctx, req)
	case "interaction_surface":
		result, err = srv.interactionSurface(ctx, req)
	case "list_symptoms":
		result, err = srv.listSymptoms(ctx, req)
	case "recommend_formula":
		result, err = srv.recommendFormula(ctx, req)
	case "graph_summary":
		result, err = srv.graphSummary(ctx, req)
	case "analysis_report":
		result, err = srv.analysisReport(ctx, req)
	case "get_dataset_contract":
		result, err = srv.getDatasetContract(ctx, req)
	case "import_dataset":
		result, err = srv.importDataset(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	require.NoError(t, err, "tool %s", name)
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// decodeResult requires a successful tool result and unmarshals its text into v.
func decodeResult(t *testing.T, r *mcp.CallToolResult, v any) {
	t.Helper()
	require.False(t, r.IsError, resultText(r))
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), v))
}

func TestListHerbs_Filtered(t *testing.T) {
	srv, _ := testServer(t)

	var out struct {
		Herbs []struct {
			Name     string `json:"name"`
			Meridian string `json:"meridian"`
		} `json:"herbs"`
		Total int `json:"total"`
	}
	decodeResult(t, callTool(t, srv, "list_herbs", map[string]interface{}{"meridian": "heart", "limit": 2}), &out)
	require.Len(t, out.Herbs, 2)
	require.GreaterOrEqual(t, out.Total, 2)
	assert.Equal(t, "Shichangpu", out.Herbs[0].Name)
	for _, h := range out.Herbs {
		assert.Equal(t, "heart", h.Meridian, h.Name)
	}
}

func TestGetHerb(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_herb", map[string]interface{}{"name": "天麻"})
	require.False(t, r.IsError, resultText(r))
	assert.Contains(t, resultText(r), `"name": "Tianma"`)

	r = callTool(t, srv, "get_herb", map[string]interface{}{"name": "Ghost"})
	assert.True(t, r.IsError, "unknown herb")

	r = callTool(t, srv, "get_herb", map[string]interface{}{})
	assert.True(t, r.IsError, "missing name")
}

func TestInteractionSurface(t *testing.T) {
	srv, _ := testServer(t)

	var out surfaceSummary
	decodeResult(t, callTool(t, srv, "interaction_surface", map[string]interface{}{
		"herb_a": "Shichangpu", "herb_b": "Quanxie", "model": "synergy", "samples": 4,
	}), &out)
	assert.Nil(t, out.Z, "grid should be omitted by default")
	assert.Greater(t, out.Max, out.Min)

	decodeResult(t, callTool(t, srv, "interaction_surface", map[string]interface{}{
		"herb_a": "Shichangpu", "herb_b": "Quanxie", "model": "synergy", "samples": 4, "include_grid": true,
	}), &out)
	require.Len(t, out.Z, 4)
	assert.Len(t, out.Z[0], 4)

	r := callTool(t, srv, "interaction_surface", map[string]interface{}{
		"herb_a": "Shichangpu", "herb_b": "Quanxie", "model": "bliss",
	})
	assert.True(t, r.IsError, "unknown model")

	// An explicit zero is rejected like any other invalid grid, not replaced by the default.
	for _, n := range []int{0, 1001} {
		r = callTool(t, srv, "interaction_surface", map[string]interface{}{
			"herb_a": "Shichangpu", "herb_b": "Quanxie", "model": "synergy", "samples": n,
		})
		assert.True(t, r.IsError, "samples=%d", n)
		assert.Contains(t, resultText(r), apperr.ErrInvalidGrid.Error(), "samples=%d", n)
	}
}

func TestRecommendFormula(t *testing.T) {
	srv, _ := testServer(t)

	var res recommend.Result
	decodeResult(t, callTool(t, srv, "recommend_formula", map[string]interface{}{"symptoms": "limb-convulsion, 角弓反张"}), &res)
	assert.Equal(t, "Zhijing San", res.Formula)
	assert.NotEmpty(t, res.Advice, "internal-wind rule should carry toxicity advice")

	r := callTool(t, srv, "recommend_formula", map[string]interface{}{"symptoms": "levitation"})
	assert.True(t, r.IsError, "unknown symptom")
}

func TestListSymptoms(t *testing.T) {
	srv, _ := testServer(t)

	var terms []recommend.Term
	decodeResult(t, callTool(t, srv, "list_symptoms", map[string]interface{}{}), &terms)
	assert.Len(t, terms, len(recommend.Vocabulary()))
}

func TestGraphSummaryAndReport(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "graph_summary", map[string]interface{}{"top": 5})
	assert.Contains(t, resultText(r), `"ranking"`)

	r = callTool(t, srv, "analysis_report", map[string]interface{}{})
	require.False(t, r.IsError, resultText(r))
	assert.True(t, strings.HasPrefix(resultText(r), "###"), "report = %.80s", resultText(r))
}

func TestDatasetContract(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_dataset_contract", map[string]interface{}{})
	assert.Equal(t, DatasetFormatContract, resultText(r))

	contents, err := srv.readDatasetFormatResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, contents)
	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok, "resource = %+v", contents[0])
	assert.Equal(t, DatasetFormatURI, tc.URI)
	assert.Equal(t, DatasetFormatContract, tc.Text)
}

func TestImportDataset_Inline(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "import_dataset", map[string]interface{}{"content": testutil.SmallDataset})
	require.False(t, r.IsError, resultText(r))
	assert.Equal(t, 3, svc.Snapshot().Len())
}

func TestImportDataset_DataURI(t *testing.T) {
	srv, svc := testServer(t)

	doc := `{"herbs":[{"name":"Tianma","frequency":3},{"name":"Gouteng","frequency":2}],` +
		`"relations":[{"source":"Tianma","target":"Gouteng"}]}`
	uri := "data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(doc))
	r := callTool(t, srv, "import_dataset", map[string]interface{}{"url": uri})
	require.False(t, r.IsError, resultText(r))

	ds := svc.Snapshot()
	assert.Equal(t, 2, ds.Len())
	require.Len(t, ds.Relations, 1)
	assert.Equal(t, 1, ds.Relations[0].Weight, "weight defaults to 1")
}

func TestImportDataset_Rejected(t *testing.T) {
	srv, svc := testServer(t)
	before := svc.Info().Checksum

	cases := []map[string]interface{}{
		{},
		{"content": "herbs: []", "url": "https://example.org/x.yaml"},
		{"content": "herbs:\n  - {name: X}\n"},
		{"url": "http://127.0.0.1/data.yaml"},
		{"url": "ftp://example.org/data.yaml"},
		{"url": "data:image/png;base64,AAAA"},
	}
	for _, args := range cases {
		r := callTool(t, srv, "import_dataset", args)
		assert.True(t, r.IsError, "import %v should fail", args)
	}
	assert.Equal(t, before, svc.Info().Checksum, "rejected import replaced the snapshot")
}

func TestSniffFormat(t *testing.T) {
	cases := []struct {
		url  string
		data string
		want dataset.Format
	}{
		{"https://example.org/herbs.json", "herbs: []", dataset.FormatJSON},
		{"", "  {\"herbs\": []}", dataset.FormatJSON},
		{"", "herbs: []", dataset.FormatYAML},
		{"https://example.org/herbs", "herbs: []", dataset.FormatYAML},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, sniffFormat(tc.url, []byte(tc.data)), "sniffFormat(%q, %q)", tc.url, tc.data)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" limb-convulsion,, 痰涎壅盛，opisthotonos\n")
	assert.Equal(t, []string{"limb-convulsion", "痰涎壅盛", "opisthotonos"}, got)
}
