// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Paysheet MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Paysheet Analytics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: summarize_workbook ---
	s.AddTool(mcp.NewTool("summarize_workbook",
		mcp.WithDescription("Ingest a payroll workbook and report its months, departments, record counts and skipped sheets."),
		mcp.WithString("path", mcp.Description("Path to the .xlsx payroll workbook (one sheet per month)."), mcp.Required()),
	), h.handleSummarizeWorkbook)

	// --- 2. Tool: aggregate_period ---
	s.AddTool(mcp.NewTool("aggregate_period",
		mcp.WithDescription("Compute cost, headcount, department splits, monthly trend and anomalies for a period."),
		mcp.WithString("path", mcp.Description("Path to the .xlsx payroll workbook."), mcp.Required()),
		mcp.WithString("months", mcp.Description("Comma-separated month labels or keys (e.g. 'Jan 2024,2024-02').")),
		mcp.WithString("period", mcp.Description("Period preset: latest, all, a year like 2024, or Q1-Q4. Defaults to latest.")),
	), h.handleAggregatePeriod)

	// --- 3. Tool: list_records ---
	s.AddTool(mcp.NewTool("list_records",
		mcp.WithDescription("List employee-month records matching the given filters."),
		mcp.WithString("path", mcp.Description("Path to the .xlsx payroll workbook."), mcp.Required()),
		mcp.WithString("months", mcp.Description("Comma-separated month labels or keys. Defaults to every month.")),
		mcp.WithString("period", mcp.Description("Period preset: latest, all, a year, or Q1-Q4.")),
		mcp.WithString("department", mcp.Description("Only records of this department.")),
		mcp.WithString("status", mcp.Description("Employment status."), mcp.Enum("active", "exited")),
		mcp.WithString("category", mcp.Description("KPI category."), mcp.Enum("joiners", "exits", "growth", "high_risk")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of records returned.")),
	), h.handleListRecords)

	// --- 4. Tool: find_anomalies ---
	s.AddTool(mcp.NewTool("find_anomalies",
		mcp.WithDescription("Find stagnant pay, top earners, leave-risk departments and leave outliers for a period."),
		mcp.WithString("path", mcp.Description("Path to the .xlsx payroll workbook."), mcp.Required()),
		mcp.WithString("months", mcp.Description("Comma-separated month labels or keys.")),
		mcp.WithString("period", mcp.Description("Period preset: latest, all, a year, or Q1-Q4. Defaults to latest.")),
	), h.handleFindAnomalies)

	// --- 5. Tool: employee_history ---
	s.AddTool(mcp.NewTool("employee_history",
		mcp.WithDescription("Return every monthly record of one employee in chronological order."),
		mcp.WithString("path", mcp.Description("Path to the .xlsx payroll workbook."), mcp.Required()),
		mcp.WithString("employee_id", mcp.Description("The employee ID to look up."), mcp.Required()),
	), h.handleEmployeeHistory)

	return s
}

// StartMCPServer starts the Paysheet MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
