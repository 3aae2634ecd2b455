package http

import (
	"net/http"

	"hesab/internal/ledger"
	applog "hesab/internal/log"
)

// Server is the presentation adapter: a JSON API over the ledger store.
// It is the sole caller of the store's operations.
type Server struct {
	http.Server
	store  *ledger.Store
	logger *applog.Logger
}

func NewServer(addr string, store *ledger.Store, logger *applog.Logger) *Server {
	s := &Server{
		store:  store,
		logger: logger.WithComponent(applog.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleAddTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("PUT /api/balance", s.handleSetBalance)

	s.Server = http.Server{
		Addr:    addr,
		Handler: applog.RequestMiddleware(logger)(mux),
	}

	return s
}
