package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/torrejon/vecinored/internal/domain/activity"
	"github.com/torrejon/vecinored/internal/domain/neighbor"
	"github.com/torrejon/vecinored/internal/registry"
)

const serverInstructions = `VecinoRed keeps the Torrejón neighbor census.
Use list_neighbors or get_board to orient yourself before changing records.
New neighbors always start in the NEW column and receive a generated welcome plan.`

// Controller defines the registry operations needed by MCP.
type Controller interface {
	Load(ctx context.Context) error
	Board() []registry.Bucket
	List(q registry.ListQuery) []neighbor.Neighbor
	Create(ctx context.Context, fields neighbor.Fields) (*neighbor.Neighbor, error)
	Edit(ctx context.Context, id string, fields neighbor.Fields) (*neighbor.Neighbor, error)
	UpdateStatus(ctx context.Context, id string, status neighbor.Status) (*neighbor.Neighbor, error)
	Delete(ctx context.Context, id string) error
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	Recent(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Config contains server configuration.
type Config struct {
	Controller Controller
	Activity   ActivityService // optional
	Version    string
	Logger     *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "vecinored",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &tools{controller: cfg.Controller, activity: cfg.Activity})

	return server
}
