// Package ledgertest 提供用于测试的账本存储实现。
package ledgertest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/SlpAus/life-gacha-backend/internal/ledger"
)

// MemoryStore 是基于内存的 ledger.Store，保存时深拷贝整份账本。
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]byte

	// FailSaves 为true时所有 Save 都返回存储错误
	FailSaves bool
	Saves     int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*ledger.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrNotFound, id)
	}
	var l ledger.Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrStorageFailure, err)
	}
	return &l, nil
}

func (s *MemoryStore) Save(_ context.Context, l *ledger.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves {
		return fmt.Errorf("%w: 模拟写入失败", ledger.ErrStorageFailure)
	}
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrStorageFailure, err)
	}
	s.records[l.ID] = data
	s.Saves++
	return nil
}

func (s *MemoryStore) Create(ctx context.Context, l *ledger.Ledger) error {
	s.mu.Lock()
	_, exists := s.records[l.ID]
	s.mu.Unlock()
	if exists {
		return fmt.Errorf("%w: %s", ledger.ErrAlreadyExists, l.ID)
	}
	return s.Save(ctx, l)
}

// Put 直接写入一份账本，不经过协调器。
func (s *MemoryStore) Put(t interface{ Fatalf(string, ...any) }, l *ledger.Ledger) {
	if err := s.Save(context.Background(), l); err != nil {
		t.Fatalf("写入测试账本失败: %v", err)
	}
}

// Get 直接读取一份账本。
func (s *MemoryStore) Get(t interface{ Fatalf(string, ...any) }, id string) *ledger.Ledger {
	l, err := s.Load(context.Background(), id)
	if err != nil {
		t.Fatalf("读取测试账本失败: %v", err)
	}
	return l
}
