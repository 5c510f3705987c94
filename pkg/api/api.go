// Package api implements the REST API for scanning arithmetic expressions
// and browsing recorded scans.
package api

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lemonberrylabs/arith-lexer/pkg/lexer"
	"github.com/lemonberrylabs/arith-lexer/pkg/store"
	"github.com/lemonberrylabs/arith-lexer/pkg/token"
)

// Server is the HTTP API server.
type Server struct {
	app   *fiber.App
	store *store.Store
}

// New creates a new API server. Extra handlers (such as the request logger)
// are installed before the routes.
func New(s *store.Store, middleware ...fiber.Handler) *Server {
	srv := &Server{store: s}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	for _, m := range middleware {
		app.Use(m)
	}

	app.Post("/v1/tokenize", srv.tokenize)

	// Scans API
	app.Post("/v1/scans\\:batch", srv.batchScan)
	app.Post("/v1/scans", srv.createScan)
	app.Get("/v1/scans", srv.listScans)
	app.Get("/v1/scans/:scan", srv.getScan)
	app.Delete("/v1/scans/:scan", srv.deleteScan)

	// Operations API
	app.Get("/v1/operations/:operation", srv.getOperation)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

type scanRequest struct {
	Input *string `json:"input"`
}

type batchRequest struct {
	Inputs []string `json:"inputs"`
}

func (s *Server) tokenize(c *fiber.Ctx) error {
	input, problem := parseInput(c)
	if problem != "" {
		return errorResponse(c, 400, problem, "INVALID_ARGUMENT")
	}

	tokens, err := lexer.Scan(input)
	if err != nil {
		return lexErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"tokens": tokensToJSON(tokens)})
}

func (s *Server) createScan(c *fiber.Ctx) error {
	input, problem := parseInput(c)
	if problem != "" {
		return errorResponse(c, 400, problem, "INVALID_ARGUMENT")
	}

	tokens, err := lexer.Scan(input)
	sc := s.store.Record(input, tokens, err)
	return c.JSON(scanToJSON(sc))
}

func (s *Server) batchScan(c *fiber.Ctx) error {
	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, 400, fmt.Sprintf("invalid request body: %v", err), "INVALID_ARGUMENT")
	}
	if len(req.Inputs) == 0 {
		return errorResponse(c, 400, "inputs is required", "INVALID_ARGUMENT")
	}

	names := make([]string, len(req.Inputs))
	failed := 0
	for i, input := range req.Inputs {
		tokens, err := lexer.Scan(input)
		if err != nil {
			failed++
		}
		names[i] = s.store.Record(input, tokens, err).Name
	}
	op := s.store.CreateOperation(names)
	log.Printf("Batch %s: %d scans, %d failed", op.Name, len(names), failed)

	return c.JSON(s.operationToJSON(op))
}

func (s *Server) listScans(c *fiber.Ctx) error {
	scans := s.store.List()
	if state := c.Query("state"); state != "" {
		filtered := scans[:0:0]
		for _, sc := range scans {
			if string(sc.State) == strings.ToUpper(state) {
				filtered = append(filtered, sc)
			}
		}
		scans = filtered
	}

	items := make([]fiber.Map, len(scans))
	for i, sc := range scans {
		items[i] = scanToJSON(sc)
	}
	return c.JSON(fiber.Map{"scans": items})
}

func (s *Server) getScan(c *fiber.Ctx) error {
	sc, err := s.store.Get("scans/" + c.Params("scan"))
	if err != nil {
		return errorResponse(c, 404, err.Error(), "NOT_FOUND")
	}
	return c.JSON(scanToJSON(sc))
}

func (s *Server) deleteScan(c *fiber.Ctx) error {
	if err := s.store.Delete("scans/" + c.Params("scan")); err != nil {
		return errorResponse(c, 404, err.Error(), "NOT_FOUND")
	}
	return c.JSON(fiber.Map{})
}

func (s *Server) getOperation(c *fiber.Ctx) error {
	op, err := s.store.GetOperation("operations/" + c.Params("operation"))
	if err != nil {
		return errorResponse(c, 404, err.Error(), "NOT_FOUND")
	}
	return c.JSON(s.operationToJSON(op))
}

// --- Helpers ---

// parseInput reads the "input" field of a request body. A non-empty problem
// describes why the request is invalid.
func parseInput(c *fiber.Ctx) (input, problem string) {
	var req scanRequest
	if err := c.BodyParser(&req); err != nil {
		return "", fmt.Sprintf("invalid request body: %v", err)
	}
	if req.Input == nil {
		return "", "input is required"
	}
	return *req.Input, ""
}

func errorResponse(c *fiber.Ctx, code int, message, status string) error {
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
			"status":  status,
		},
	})
}

func lexErrorResponse(c *fiber.Ctx, err error) error {
	le, ok := err.(*lexer.LexError)
	if !ok {
		return errorResponse(c, 500, err.Error(), "INTERNAL")
	}
	body := le.ToMap()
	body["code"] = 400
	body["status"] = "INVALID_ARGUMENT"
	body["reason"] = string(le.Kind)
	return c.Status(400).JSON(fiber.Map{"error": body})
}

func tokensToJSON(tokens []token.Token) []fiber.Map {
	items := make([]fiber.Map, len(tokens))
	for i, t := range tokens {
		items[i] = t.Map()
	}
	return items
}

func scanToJSON(sc *store.Scan) fiber.Map {
	m := fiber.Map{
		"name":       sc.Name,
		"input":      sc.Input,
		"state":      string(sc.State),
		"createTime": sc.CreateTime.Format(time.RFC3339Nano),
	}
	if sc.State == store.ScanSucceeded {
		m["tokens"] = tokensToJSON(sc.Tokens)
	}
	if sc.Error != nil {
		m["error"] = sc.Error.ToMap()
	}
	return m
}

func (s *Server) operationToJSON(op *store.Operation) fiber.Map {
	scans := s.store.OperationScans(op)
	results := make([]fiber.Map, len(scans))
	for i, sc := range scans {
		results[i] = scanToJSON(sc)
	}
	return fiber.Map{
		"name":       op.Name,
		"done":       op.Done,
		"createTime": op.CreateTime.Format(time.RFC3339Nano),
		"response":   fiber.Map{"scans": results},
	}
}
