package software

import (
	"errors"
	"fmt"
	"sync"
)

// Memory management errors.
var (
	// ErrMemoryBudgetExceeded is returned when an allocation would exceed
	// the budget.
	ErrMemoryBudgetExceeded = errors.New("software: memory budget exceeded")

	// ErrMemoryManagerClosed is returned when allocating from a closed
	// manager.
	ErrMemoryManagerClosed = errors.New("software: memory manager closed")
)

// Default memory limits.
const (
	// DefaultMaxMemoryMB is the default texel memory budget (256 MB).
	DefaultMaxMemoryMB = 256

	// MinMemoryBytes is the smallest budget a manager accepts (64 KB).
	MinMemoryBytes = 64 * 1024
)

// MemoryStats contains texel memory usage statistics.
type MemoryStats struct {
	// TotalBytes is the memory budget in bytes.
	TotalBytes uint64

	// UsedBytes is the currently allocated memory in bytes.
	UsedBytes uint64

	// AvailableBytes is the remaining budget.
	AvailableBytes uint64

	// ImageCount is the number of live images.
	ImageCount int

	// Rejected counts allocations refused for lack of budget.
	Rejected uint64

	// Utilization is the fraction of the budget in use (0.0 to 1.0).
	Utilization float64
}

// String returns a human-readable string of memory stats.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%.1f%% used, %d/%d KB, %d images, %d rejected]",
		s.Utilization*100,
		s.UsedBytes/1024,
		s.TotalBytes/1024,
		s.ImageCount,
		s.Rejected)
}

// MemoryManager tracks image allocations against a byte budget.
// Images are never evicted: a texture's storage stays alive while views
// of it exist, so an allocation that does not fit fails instead.
//
// MemoryManager is safe for concurrent use.
type MemoryManager struct {
	mu sync.Mutex

	budgetBytes uint64
	usedBytes   uint64
	images      map[*Image]struct{}
	rejected    uint64
	closed      bool
}

// NewMemoryManager creates a manager with a budget of budgetBytes.
// Budgets below MinMemoryBytes are raised to it.
func NewMemoryManager(budgetBytes uint64) *MemoryManager {
	return &MemoryManager{
		budgetBytes: max(budgetBytes, MinMemoryBytes),
		images:      make(map[*Image]struct{}),
	}
}

// Alloc creates an image described by layout and charges it to the
// budget.
func (m *MemoryManager) Alloc(layout ImageLayout) (*Image, error) {
	size, err := layout.Size()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrMemoryManagerClosed
	}
	if m.usedBytes+size > m.budgetBytes {
		m.rejected++
		return nil, fmt.Errorf("%w: need %d bytes, have %d bytes available",
			ErrMemoryBudgetExceeded, size, m.budgetBytes-m.usedBytes)
	}

	img := newImage(layout, size)
	m.images[img] = struct{}{}
	m.usedBytes += size
	return img, nil
}

// Free returns the memory of img to the budget. Freeing an image twice or
// an image the manager does not own is a no-op.
func (m *MemoryManager) Free(img *Image) {
	if img == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.images[img]; !ok {
		return
	}
	delete(m.images, img)
	m.usedBytes -= uint64(len(img.data))
	img.data = nil
}

// Stats returns current memory usage statistics.
func (m *MemoryManager) Stats() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	var utilization float64
	if m.budgetBytes > 0 {
		utilization = float64(m.usedBytes) / float64(m.budgetBytes)
	}
	return MemoryStats{
		TotalBytes:     m.budgetBytes,
		UsedBytes:      m.usedBytes,
		AvailableBytes: m.budgetBytes - m.usedBytes,
		ImageCount:     len(m.images),
		Rejected:       m.rejected,
		Utilization:    utilization,
	}
}

// Close frees every image. Later allocations fail with
// ErrMemoryManagerClosed.
func (m *MemoryManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	for img := range m.images {
		img.data = nil
	}
	m.images = nil
	m.usedBytes = 0
	m.closed = true
}
