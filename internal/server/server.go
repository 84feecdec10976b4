package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/shoplist/internal/backup"
	"github.com/dukerupert/shoplist/internal/export"
	"github.com/dukerupert/shoplist/internal/handler"
	"github.com/dukerupert/shoplist/internal/middleware"
	"github.com/dukerupert/shoplist/internal/share"
	"github.com/dukerupert/shoplist/internal/shopping"
	"github.com/dukerupert/shoplist/internal/store"
	ws "github.com/dukerupert/shoplist/internal/websocket"
	"github.com/dukerupert/shoplist/internal/workspace"
)

// Limits for endpoints that do more than touch the collection.
const (
	outboundLimit   = 20
	backupLimit     = 5
	rateLimitWindow = time.Minute
)

type Server struct {
	hub         *ws.Hub
	workspace   *workspace.Workspace
	listH       *handler.ListHandler
	outboundH   *handler.OutboundHandler
	backupH     *handler.BackupHandler
	rateLimiter *middleware.RateLimiter
	origins     []string
	logger      *slog.Logger
}

// New wires the service stack over the given collection store and loads the
// workspace mirror.
func New(ctx context.Context, cs *store.CollectionStore, origins []string, logger *slog.Logger) (*Server, error) {
	hub := ws.NewHub(logger.With("component", "websocket"))

	svc := shopping.NewService(cs, logger.With("component", "shopping"))
	wsp := workspace.New(svc)
	if err := wsp.Open(ctx); err != nil {
		return nil, err
	}

	sharer := share.NewSharer(svc, logger.With("component", "share"))
	exporter := export.NewExporter(svc, logger.With("component", "export"))
	backupMgr := backup.NewManager(cs, logger.With("component", "backup"))

	return &Server{
		hub:         hub,
		workspace:   wsp,
		listH:       handler.NewListHandler(wsp, hub, logger.With("component", "lists")),
		outboundH:   handler.NewOutboundHandler(sharer, exporter, logger.With("component", "outbound")),
		backupH:     handler.NewBackupHandler(backupMgr, wsp, hub, logger.With("component", "backup_handler")),
		rateLimiter: middleware.NewRateLimiter(),
		origins:     origins,
		logger:      logger,
	}, nil
}

func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.origins))

	mux.HandleFunc("GET /api/lists", s.listH.Lists)
	mux.HandleFunc("POST /api/lists", s.listH.CreateList)
	mux.HandleFunc("GET /api/lists/{id}", s.listH.GetList)
	mux.HandleFunc("DELETE /api/lists/{id}", s.listH.DeleteList)
	mux.HandleFunc("GET /api/lists/{id}/groups", s.listH.Groups)
	mux.HandleFunc("POST /api/lists/{id}/clear-checked", s.listH.ClearChecked)

	mux.HandleFunc("GET /api/active-list", s.listH.ActiveList)
	mux.HandleFunc("PUT /api/active-list", s.listH.SetActiveList)

	mux.HandleFunc("POST /api/lists/{id}/items", s.listH.AddItem)
	mux.HandleFunc("DELETE /api/lists/{id}/items/{item_id}", s.listH.RemoveItem)
	mux.HandleFunc("POST /api/lists/{id}/items/{item_id}/check", s.listH.ToggleChecked)
	mux.HandleFunc("PUT /api/lists/{id}/items/{item_id}/category", s.listH.SetItemCategory)

	mux.HandleFunc("POST /api/lists/{id}/categories", s.listH.AddCategory)
	mux.HandleFunc("DELETE /api/lists/{id}/categories/{category_id}", s.listH.RemoveCategory)

	mux.HandleFunc("POST /api/lists/{id}/share", s.rateLimitedHandler("share", outboundLimit, s.outboundH.Share))
	mux.HandleFunc("GET /api/lists/{id}/export.pdf", s.rateLimitedHandler("export", outboundLimit, s.outboundH.Export))

	mux.HandleFunc("POST /api/backup", s.rateLimitedHandler("backup", backupLimit, s.backupH.Snapshot))
	mux.HandleFunc("POST /api/backup/restore", s.rateLimitedHandler("restore", backupLimit, s.backupH.Restore))

	h := middleware.Recover(s.logger.With("component", "http"))(mux)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"lists":   len(s.workspace.Lists()),
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) rateLimitedHandler(route string, limit int, h http.HandlerFunc) http.HandlerFunc {
	return middleware.RateLimit(s.rateLimiter, route, middleware.RealIP, limit, rateLimitWindow)(h).ServeHTTP
}
