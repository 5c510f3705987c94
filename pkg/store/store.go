// Package store provides in-memory storage for scan results and batch
// operations.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lemonberrylabs/arith-lexer/pkg/lexer"
	"github.com/lemonberrylabs/arith-lexer/pkg/token"
)

// ScanState represents the outcome of a recorded scan.
type ScanState string

const (
	ScanSucceeded ScanState = "SUCCEEDED"
	ScanFailed    ScanState = "FAILED"
)

// Scan represents a stored scan of one input.
type Scan struct {
	Name       string          `json:"name"`
	Input      string          `json:"input"`
	State      ScanState       `json:"state"`
	Tokens     []token.Token   `json:"-"`
	Error      *lexer.LexError `json:"error,omitempty"`
	CreateTime time.Time       `json:"createTime"`
}

// Operation represents a batch of scans recorded together.
type Operation struct {
	Name       string    `json:"name"`
	Scans      []string  `json:"scans"`
	Done       bool      `json:"done"`
	CreateTime time.Time `json:"createTime"`
}

// Store is a thread-safe in-memory storage for scans and operations.
type Store struct {
	mu         sync.RWMutex
	scans      map[string]*Scan
	operations map[string]*Operation

	scanCounter int64
}

// New creates a new empty store.
func New() *Store {
	return &Store{
		scans:      make(map[string]*Scan),
		operations: make(map[string]*Operation),
	}
}

// Record stores the outcome of scanning input. err must be nil or the error
// returned by the lexer.
func (s *Store) Record(input string, tokens []token.Token, err error) *Scan {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scanCounter++
	sc := &Scan{
		Name:       fmt.Sprintf("scans/scan-%d", s.scanCounter),
		Input:      input,
		State:      ScanSucceeded,
		Tokens:     tokens,
		CreateTime: time.Now(),
	}
	if err != nil {
		sc.State = ScanFailed
		sc.Tokens = nil
		sc.Error = scanErrorFrom(err)
	}
	s.scans[sc.Name] = sc
	return sc
}

func scanErrorFrom(err error) *lexer.LexError {
	var le *lexer.LexError
	if errors.As(err, &le) {
		return le
	}
	return &lexer.LexError{Message: err.Error()}
}

// Get retrieves a scan by its full name.
func (s *Store) Get(name string) (*Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.scans[name]
	if !ok {
		return nil, fmt.Errorf("scan '%s' not found", name)
	}
	return sc, nil
}

// List returns all scans, newest first.
func (s *Store) List() []*Scan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Scan, 0, len(s.scans))
	for _, sc := range s.scans {
		result = append(result, sc)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreateTime.Equal(result[j].CreateTime) {
			return result[i].CreateTime.After(result[j].CreateTime)
		}
		return scanSeq(result[i].Name) > scanSeq(result[j].Name)
	})
	return result
}

// scanSeq extracts N from "scans/scan-N" so scans created within the same
// clock tick keep their order.
func scanSeq(name string) int64 {
	var n int64
	fmt.Sscanf(name, "scans/scan-%d", &n)
	return n
}

// Delete removes a scan.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scans[name]; !ok {
		return fmt.Errorf("scan '%s' not found", name)
	}
	delete(s.scans, name)
	return nil
}

// CreateOperation records a completed batch of scans.
func (s *Store) CreateOperation(scanNames []string) *Operation {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := &Operation{
		Name:       "operations/" + uuid.NewString(),
		Scans:      scanNames,
		Done:       true,
		CreateTime: time.Now(),
	}
	s.operations[op.Name] = op
	return op
}

// GetOperation retrieves an operation by its full name.
func (s *Store) GetOperation(name string) (*Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, ok := s.operations[name]
	if !ok {
		return nil, fmt.Errorf("operation '%s' not found", name)
	}
	return op, nil
}

// OperationScans returns the scans of an operation in batch order. Scans that
// were deleted since are skipped.
func (s *Store) OperationScans(op *Operation) []*Scan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Scan, 0, len(op.Scans))
	for _, name := range op.Scans {
		if sc, ok := s.scans[name]; ok {
			result = append(result, sc)
		}
	}
	return result
}

// Counts returns the number of succeeded and failed scans.
func (s *Store) Counts() (succeeded, failed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sc := range s.scans {
		if sc.State == ScanSucceeded {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
