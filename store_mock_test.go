package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockStore is a test double for ContentStore that records all put attempts and can be
// configured to reject specific ones.
type MockStore struct {
	mu sync.Mutex

	// Puts records all put attempts in order
	Puts []*RecordedPut

	// ErrorFunc allows dynamic error injection based on the input.
	// If nil, puts succeed. Return an error to simulate failures.
	ErrorFunc func(input *PutInput) error

	// StatusCode is returned for accepted puts; 0 means 201.
	StatusCode int
}

// RecordedPut stores the details of a put attempt for verification.
type RecordedPut struct {
	Input *PutInput
	Error error
}

func NewMockStore() *MockStore {
	return &MockStore{Puts: make([]*RecordedPut, 0)}
}

// Put implements ContentStore.Put by recording the input and optionally returning an error
// from ErrorFunc.
func (m *MockStore) Put(_ context.Context, input *PutInput) (*PutOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recorded := &RecordedPut{Input: input}
	var err error
	if m.ErrorFunc != nil {
		err = m.ErrorFunc(input)
		recorded.Error = err
	}
	m.Puts = append(m.Puts, recorded)

	if err != nil {
		return nil, err
	}

	code := m.StatusCode
	if code == 0 {
		code = 201
	}
	return &PutOutput{StatusCode: code, SHA: "mock-sha"}, nil
}

// Count returns the number of put attempts so far.
func (m *MockStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Puts)
}

// GetPutByPath returns the first put for path, or nil if there was none.
func (m *MockStore) GetPutByPath(path string) *RecordedPut {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Puts {
		if p.Input.Path == path {
			return p
		}
	}
	return nil
}

// --- Error injection helpers ---

// ErrorOnPath returns an ErrorFunc that fails puts for the given path.
func ErrorOnPath(path string, err error) func(*PutInput) error {
	return func(input *PutInput) error {
		if input.Path == path {
			return err
		}
		return nil
	}
}

// ErrorAlways returns an ErrorFunc that fails all puts.
func ErrorAlways(err error) func(*PutInput) error {
	return func(*PutInput) error {
		return err
	}
}

// Unprocessable mimics GitHub refusing a PUT for a path that already exists.
func Unprocessable() error {
	return &StatusError{Code: 422, Body: `{"message":"Invalid request.\n\n\"sha\" wasn't supplied."}`}
}

var errNetwork = errors.New("dial tcp: lookup api.github.com: no such host")

// --- Fixtures ---

// writeTree creates files (relative path -> content) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// newTestUploader returns a bulkUploader over root that prints into a discarded reporter.
func newTestUploader(cfg *Config, store ContentStore) *bulkUploader {
	return &bulkUploader{
		cfg:      cfg,
		store:    store,
		policy:   newPolicy(cfg.Mode, cfg.EssentialDirs, cfg.SkipPatterns),
		reporter: newReporter(discard{}, cfg),
		metrics:  newRunMetrics(),
		log:      zap.NewNop(),
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
