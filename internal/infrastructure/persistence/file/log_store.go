// Package file 提供基于本地 JSON 文件的日志存储
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"velours-story-api/internal/domain/entity"
	apperrors "velours-story-api/pkg/errors"
	"velours-story-api/pkg/logger"
	"velours-story-api/pkg/metrics"
)

var tracer = otel.Tracer("file.logstore")

// LogStore 单文件 JSON 数组日志存储。
// 全部条目常驻内存,每次写入整体落盘;容量满时按 FIFO 淘汰最旧条目。
// 进程内并发由互斥锁保证,不支持多进程共享同一文件。
type LogStore struct {
	mu         sync.Mutex
	path       string
	maxEntries int
	entries    []entity.LogEntry
}

// NewLogStore 加载(或初始化)日志文件。文件损坏时从空列表重新开始,
// 不让历史损坏阻塞新日志写入。
func NewLogStore(path string, maxEntries int) (*LogStore, error) {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	s := &LogStore{
		path:       path,
		maxEntries: maxEntries,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log store directory: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		s.entries = []entity.LogEntry{}
	case err != nil:
		return nil, fmt.Errorf("read log store file: %w", err)
	default:
		if jsonErr := json.Unmarshal(data, &s.entries); jsonErr != nil {
			logger.Warn(context.Background(), "log store file corrupted, starting empty", "path", path, "error", jsonErr)
			s.entries = []entity.LogEntry{}
		}
	}

	if len(s.entries) > s.maxEntries {
		evicted := len(s.entries) - s.maxEntries
		s.entries = s.entries[evicted:]
		metrics.LogStoreEvictedTotal.Add(float64(evicted))
	}
	metrics.LogStoreEntries.Set(float64(len(s.entries)))
	return s, nil
}

// Append 追加一条日志并落盘,返回淘汰后的总条数。
// 缺失的 id 与 timestamp 在此补齐。
func (s *LogStore) Append(ctx context.Context, entry entity.LogEntry) (int, error) {
	_, span := tracer.Start(ctx, "logstore.Append")
	defer span.End()

	if entry == nil {
		entry = entity.LogEntry{}
	}
	entry.EnsureIdentity(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	if len(s.entries) > s.maxEntries {
		evicted := len(s.entries) - s.maxEntries
		s.entries = s.entries[evicted:]
		metrics.LogStoreEvictedTotal.Add(float64(evicted))
		span.SetAttributes(attribute.Int("logstore.evicted", evicted))
	}

	if err := s.flushLocked(); err != nil {
		span.RecordError(err)
		return 0, apperrors.Wrap(err, apperrors.CodeLogStoreError, "failed to persist log entry")
	}

	total := len(s.entries)
	metrics.LogStoreEntries.Set(float64(total))
	return total, nil
}

// List 返回全部日志的副本。条目本身是 map,逐条克隆,
// 调用方的修改不会污染存储。嵌套负载仍与存储共享,只读使用。
func (s *LogStore) List(ctx context.Context) ([]entity.LogEntry, error) {
	_, span := tracer.Start(ctx, "logstore.List")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.LogEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = maps.Clone(e)
	}
	span.SetAttributes(attribute.Int("logstore.total", len(out)))
	return out, nil
}

// Clear 清空全部日志并落盘。
func (s *LogStore) Clear(ctx context.Context) error {
	_, span := tracer.Start(ctx, "logstore.Clear")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = []entity.LogEntry{}
	if err := s.flushLocked(); err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeLogStoreError, "failed to clear log store")
	}
	metrics.LogStoreEntries.Set(0)
	return nil
}

// flushLocked 原子落盘:先写临时文件再改名,避免写一半留下损坏文件。
func (s *LogStore) flushLocked() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal log entries: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp log file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace log file: %w", err)
	}
	return nil
}
