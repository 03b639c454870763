// ABOUTME: MCP resource implementations for liftlog.
// ABOUTME: Provides liftlog://recent and liftlog://orphans resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

const (
	recentURI  = "liftlog://recent"
	orphansURI = "liftlog://orphans"
)

func (s *Server) registerResources() {
	// liftlog://recent - last workouts and sessions
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentURI,
		Name:        "Recent Training",
		Description: "Last 5 workouts and 5 sessions",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	// liftlog://orphans - references to exercises that no longer exist
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         orphansURI,
		Name:        "Orphaned Exercise References",
		Description: "Logged exercises whose IDs are missing from the catalog",
		MIMEType:    "application/json",
	}, s.handleOrphansResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	workouts := s.store.Workouts()
	if len(workouts) > 5 {
		workouts = workouts[:5]
	}
	sessions := s.store.Sessions()
	if len(sessions) > 5 {
		sessions = sessions[:5]
	}

	var active *models.WorkoutSession
	if sess, ok := s.store.ActiveSession(); ok {
		active = sess
	}

	return jsonResource(recentURI, map[string]interface{}{
		"workouts":       workouts,
		"sessions":       sessions,
		"active_session": active,
	})
}

func (s *Server) handleOrphansResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	orphans := s.store.Orphans()
	if orphans == nil {
		orphans = []storage.Orphan{}
	}
	return jsonResource(orphansURI, map[string]interface{}{
		"orphans": orphans,
		"count":   len(orphans),
	})
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
