package credentials

import "github.com/five82/shelf/internal/libcommon"

// Memory is a Store that lives only as long as the process.
type Memory struct {
	libcommon.MemoryStorage
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (*Memory) Close() error { return nil }
