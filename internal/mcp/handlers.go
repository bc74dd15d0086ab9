package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/shopassist/internal/catalog"
	"github.com/ziadkadry99/shopassist/internal/orders"
	"github.com/ziadkadry99/shopassist/internal/support"
)

func (s *Server) handleFindProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := request.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: category"), nil
	}

	products, err := s.catalog.GetFilteredProducts(ctx, catalog.Filter{
		Category: category,
		Budget:   request.GetString("budget", ""),
		Usage:    request.GetString("usage", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog lookup failed: %v", err)), nil
	}

	if len(products) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No %s products in the catalog yet. Run `shopassist seed` to load it.", category)), nil
	}

	return mcp.NewToolResultText(formatProducts(products)), nil
}

func (s *Server) handleGetProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	p, err := s.catalog.GetProductByID(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog lookup failed: %v", err)), nil
	}
	if p == nil {
		return mcp.NewToolResultError(fmt.Sprintf("No product with id %q.", id)), nil
	}

	return mcp.NewToolResultText(formatProduct(p)), nil
}

func (s *Server) handleTrackOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orderID, err := request.RequireString("order_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: order_id"), nil
	}

	o, err := s.orders.GetOrderByOrderID(ctx, orderID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("order lookup failed: %v", err)), nil
	}
	if o == nil {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No order found with ID %q. Order IDs usually start with \"ORD-\" followed by numbers (e.g., ORD-12345).",
			orderID,
		)), nil
	}

	return mcp.NewToolResultText(formatOrder(o)), nil
}

func (s *Server) handleDraftSupportEmail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}

	sc := support.Context{
		OrderID:     request.GetString("order_id", ""),
		ProductName: request.GetString("product_name", ""),
		UserMessage: message,
	}
	issue := support.DetectIssueType(message)
	email := support.GenerateEmail(issue, sc)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Issue type: %s (%s)\n\n", issue, issue.Label())
	fmt.Fprintf(&sb, "Subject: %s\n\n", email.Subject)
	sb.WriteString(email.Body)
	sb.WriteString("\n")
	return mcp.NewToolResultText(sb.String()), nil
}

// formatProducts renders a result list for AI agent consumption.
func formatProducts(products []catalog.Product) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d product(s):\n", len(products))
	for i, p := range products {
		fmt.Fprintf(&sb, "\n--- Product %d ---\n", i+1)
		sb.WriteString(formatProduct(&p))
	}
	return sb.String()
}

func formatProduct(p *catalog.Product) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ID: %s\n", p.ID)
	fmt.Fprintf(&sb, "Name: %s\n", p.Name)
	fmt.Fprintf(&sb, "Price: $%.2f\n", p.Price)
	fmt.Fprintf(&sb, "Rating: %.1f/5\n", p.Rating)
	if len(p.Specs) > 0 {
		fmt.Fprintf(&sb, "Specs: %s\n", strings.Join(p.Specs, ", "))
	}
	if p.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", p.Description)
	}
	if p.Availability != "" {
		fmt.Fprintf(&sb, "Availability: %s\n", p.Availability)
	}
	if p.Warranty != "" {
		fmt.Fprintf(&sb, "Warranty: %s\n", p.Warranty)
	}
	return sb.String()
}

func formatOrder(o *orders.Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Order: %s\n", o.OrderID)
	fmt.Fprintf(&sb, "Status: %s\n", o.Status)
	fmt.Fprintf(&sb, "Estimated delivery: %s\n", orDefault(o.EstimatedDelivery, "TBD"))
	fmt.Fprintf(&sb, "Last update: %s\n", orDefault(o.LastUpdate, "No updates yet"))
	if o.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", o.Location)
	}
	if o.TotalAmount != nil {
		fmt.Fprintf(&sb, "Total: $%.2f\n", *o.TotalAmount)
	}
	return sb.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
