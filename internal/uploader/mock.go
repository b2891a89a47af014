package uploader

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
)

const mockPlatform = "mock"

// Mock accepts any existing file and fabricates a post ID. It backs the
// "mock" provider and doubles as a test fixture for the resumable path.
type Mock struct {
	mu      sync.Mutex
	uploads []string
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Provider() string {
	return mockPlatform
}

func (m *Mock) Upload(ctx context.Context, filePath string, req Request, opts Options) (*Result, error) {
	if _, ok := opts.(MockOptions); opts != nil && !ok {
		return nil, fmt.Errorf("%w: mock options", ErrMissingOption)
	}

	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("stat video file: %w", err)
	}

	m.mu.Lock()
	m.uploads = append(m.uploads, filePath)
	m.mu.Unlock()

	return &Result{PostID: "mock-" + uuid.NewString()}, nil
}

// Uploads returns the file paths received so far.
func (m *Mock) Uploads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.uploads...)
}
