package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/huangsam/paysheet/core"
	"github.com/huangsam/paysheet/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// withWorkbook clones the base config and points it at the requested workbook.
func (h *toolHandler) withWorkbook(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	p := request.GetString("path", "")
	if p == "" {
		return nil, fmt.Errorf("path is required")
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", p, err)
	}
	cfg.WorkbookPath = abs
	return cfg, nil
}

// withSelection applies the months and period arguments.
func (h *toolHandler) withSelection(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg, err := h.withWorkbook(request)
	if err != nil {
		return nil, err
	}
	months := request.GetString("months", "")
	period := request.GetString("period", "")
	if err := contract.RevalidateSelection(cfg, months, period); err != nil {
		return nil, err
	}
	return cfg, nil
}

func textResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleSummarizeWorkbook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.withWorkbook(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	summary, err := core.GetSummaryResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return textResult(summary), nil
}

func (h *toolHandler) handleAggregatePeriod(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.withSelection(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := core.GetAggregationResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregation failed: %v", err)), nil
	}
	return textResult(result), nil
}

func (h *toolHandler) handleListRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.withSelection(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	department := request.GetString("department", "")
	status := request.GetString("status", "")
	category := request.GetString("category", "")
	if err := contract.RevalidateRecordFilter(cfg, department, status, category); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filter: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	views, err := core.GetRecordsResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("record listing failed: %v", err)), nil
	}
	if cfg.ResultLimit > 0 && len(views) > cfg.ResultLimit {
		views = views[:cfg.ResultLimit]
	}
	return textResult(views), nil
}

func (h *toolHandler) handleFindAnomalies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.withSelection(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := core.GetAggregationResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("anomaly detection failed: %v", err)), nil
	}
	return textResult(map[string]any{
		"period":    result.Period,
		"anomalies": result.Anomalies,
	}), nil
}

func (h *toolHandler) handleEmployeeHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.withWorkbook(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.EmployeeID = request.GetString("employee_id", "")

	views, err := core.GetHistoryResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}
	return textResult(views), nil
}
