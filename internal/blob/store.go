package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Store 附件存储：写入字节返回不透明 key，key 保留原始扩展名
type Store interface {
	Save(ctx context.Context, data []byte, ext string) (string, error)
	Remove(ctx context.Context, key string) error
}

// DiskStore 把附件写进一个扁平目录，文件名为 uuid hex + 扩展名
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) Save(_ context.Context, data []byte, ext string) (string, error) {
	key := fmt.Sprintf("%x%s", uuid.New(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return "", err
	}
	return key, nil
}

func (s *DiskStore) Remove(_ context.Context, key string) error {
	// key 由 Save 生成，不含路径分隔符；Base 兜底防穿越
	return os.Remove(filepath.Join(s.dir, filepath.Base(key)))
}

// MemStore 测试用内存实现
type MemStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[string][]byte)}
}

func (s *MemStore) Save(_ context.Context, data []byte, ext string) (string, error) {
	key := fmt.Sprintf("%x%s", uuid.New(), ext)
	s.mu.Lock()
	s.blobs[key] = append([]byte(nil), data...)
	s.mu.Unlock()
	return key, nil
}

func (s *MemStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()
	return nil
}

// Get 返回已存附件内容，供测试断言
func (s *MemStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	return b, ok
}
