package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"

	"bookscraper/extractor"
	"bookscraper/internal/config"
	"bookscraper/internal/store"
	"bookscraper/internal/types"
	"bookscraper/utils"

	"github.com/sirupsen/logrus"
)

// APIResponse represents the response from the API
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Server serves stored books and triggers scrape runs
type Server struct {
	logger *logrus.Logger
	config *types.Config
	store  *store.BookStore

	// one scrape at a time
	scrapeMu sync.Mutex
}

// NewServer creates a new API server on top of an open store
func NewServer(cfg *types.Config, bookStore *store.BookStore, logger *logrus.Logger) *Server {
	return &Server{
		logger: logger,
		config: cfg,
		store:  bookStore,
	}
}

// Routes returns the HTTP handler with every endpoint registered.
// It is separate from Start so tests can drive the handlers through httptest.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/books", s.handleBooks)
	mux.HandleFunc("/scrape", s.handleScrape)
	return mux
}

// handleBooks lists stored books in insertion order.
// The optional limit query parameter caps the number returned.
func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Only allow GET requests
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse limit parameter
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.sendError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	books, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.logger.Errorf("Failed to list books: %v", err)
		s.sendError(w, "Failed to list books", http.StatusInternalServerError)
		return
	}
	if books == nil {
		books = []types.Book{}
	}

	s.send(w, APIResponse{Success: true, Data: books}, http.StatusOK)
}

// handleScrape runs one scrape pass and reports its summary.
// Fetch and parse failures map to 502, storage failures to 500, and a request
// arriving while another scrape runs gets 409.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Only allow POST requests
	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !s.scrapeMu.TryLock() {
		s.sendError(w, "Scrape already running", http.StatusConflict)
		return
	}
	defer s.scrapeMu.Unlock()

	// Bound the run like the CLI does
	ctx, cancel := context.WithTimeout(r.Context(), s.config.RunTimeout)
	defer cancel()

	s.logger.Infof("API scrape requested for %s", s.config.BaseURL)
	booksExtractor := extractor.NewBooksExtractor(s.config, s.logger)
	defer booksExtractor.Close()

	summary, err := booksExtractor.Pipeline(s.store).Run(ctx, s.config.BaseURL)
	if err != nil {
		s.logger.Warnf("Scrape failed at %s stage: %v", types.Stage(err), err)
		s.sendError(w, fmt.Sprintf("%s stage failed: %v", types.Stage(err), err), statusFor(err))
		return
	}

	s.send(w, APIResponse{Success: true, Data: summary}, http.StatusOK)
}

// statusFor maps a failed run to an HTTP status
func statusFor(err error) int {
	var storageErr *types.StorageError
	if errors.As(err, &storageErr) {
		return http.StatusInternalServerError
	}
	return http.StatusBadGateway
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// send writes response as JSON with the given status code
func (s *Server) send(w http.ResponseWriter, response APIResponse, statusCode int) {
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	s.send(w, APIResponse{Success: false, Error: message}, statusCode)
}

// Start starts the API server
func (s *Server) Start(port string) error {
	s.logger.Infof("Starting API server on port %s", port)
	s.logger.Info("Available endpoints:")
	s.logger.Info("  GET  /books  - List stored books")
	s.logger.Info("  POST /scrape - Run one scrape pass")
	s.logger.Info("  GET  /health - Health check")

	return http.ListenAndServe(":"+port, s.Routes())
}

func main() {
	// Get port from environment or use default
	serverPort := "8080"
	if envPort := os.Getenv("API_PORT"); envPort != "" {
		serverPort = envPort
	}

	// Load configuration
	cfg, err := config.Load(config.New(), os.Getenv("BOOKSCRAPER_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	logger := utils.NewLogger(false)

	bookStore, err := store.Open(context.Background(), cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Fatalf("Failed to open store: %v", err)
	}
	defer bookStore.Close()

	server := NewServer(cfg, bookStore, logger)
	logger.Fatal(server.Start(serverPort))
}
