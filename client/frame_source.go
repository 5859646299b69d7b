package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrCameraUnavailable is returned when the frame source cannot be opened.
var ErrCameraUnavailable = errors.New("camera unavailable")

// FrameSource produces encoded image frames.
type FrameSource interface {
	Open(ctx context.Context) error
	Capture(ctx context.Context) ([]byte, error)
	Close() error
}

// DirectorySource replays the .jpg, .jpeg and .png files of a directory in name order,
// wrapping around at the end.
type DirectorySource struct {
	dir string

	mu    sync.Mutex
	files []string
	next  int
}

func NewDirectorySource(dir string) *DirectorySource {
	return &DirectorySource{dir: dir}
}

func (s *DirectorySource) Open(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read frame directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, filepath.Join(s.dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no frames in %s", s.dir)
	}
	sort.Strings(files)

	s.mu.Lock()
	s.files = files
	s.next = 0
	s.mu.Unlock()
	return nil
}

func (s *DirectorySource) Capture(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	if len(s.files) == 0 {
		s.mu.Unlock()
		return nil, errors.New("frame source not open")
	}
	path := s.files[s.next]
	s.next = (s.next + 1) % len(s.files)
	s.mu.Unlock()

	return os.ReadFile(path)
}

func (s *DirectorySource) Close() error {
	s.mu.Lock()
	s.files = nil
	s.mu.Unlock()
	return nil
}
