// Package memory is an in-process Storage used for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/princekumarofficial/remix-service/internal/types"
)

type user struct {
	id       string
	password string
}

type Memory struct {
	mu     sync.RWMutex
	videos map[string]types.VideoRecord
	order  []string
	users  map[string]user
	now    func() time.Time
}

func New() *Memory {
	return &Memory{
		videos: make(map[string]types.VideoRecord),
		users:  make(map[string]user),
		now:    time.Now,
	}
}

func (m *Memory) GetVideoByID(_ context.Context, videoID string) (types.VideoRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.videos[videoID]
	if !ok {
		return types.VideoRecord{}, fmt.Errorf("video %s: %w", videoID, types.ErrNotFound)
	}
	return cloneRecord(rec), nil
}

func (m *Memory) InsertVideo(_ context.Context, rec types.VideoRecord) (types.VideoRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ParentVideoID != nil {
		if _, ok := m.videos[*rec.ParentVideoID]; !ok {
			return rec, types.ErrParentNotFound
		}
	}

	rec.VideoID = uuid.NewString()
	rec.CreatedAt = m.now().UTC()
	rec.LikeCount = 0
	rec.CommentCount = 0
	rec = cloneRecord(rec)

	m.videos[rec.VideoID] = rec
	m.order = append(m.order, rec.VideoID)
	return cloneRecord(rec), nil
}

func (m *Memory) ListChildVideos(_ context.Context, parentVideoID string) ([]types.VideoRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var children []types.VideoRecord
	for _, id := range m.order {
		rec := m.videos[id]
		if rec.ParentVideoID != nil && *rec.ParentVideoID == parentVideoID {
			children = append(children, cloneRecord(rec))
		}
	}
	return children, nil
}

func (m *Memory) FindDepthViolations(_ context.Context, limit int) ([]types.DepthViolation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var violations []types.DepthViolation
	for _, id := range m.order {
		if limit > 0 && len(violations) >= limit {
			break
		}
		rec := m.videos[id]
		if rec.ParentVideoID == nil {
			if rec.Depth != 1 {
				violations = append(violations, types.DepthViolation{VideoID: id, Depth: rec.Depth})
			}
			continue
		}

		v := types.DepthViolation{VideoID: id, ParentVideoID: rec.ParentVideoID, Depth: rec.Depth}
		parent, ok := m.videos[*rec.ParentVideoID]
		if ok {
			d := parent.Depth
			v.ParentDepth = &d
		}
		if !ok || rec.Depth != parent.Depth+1 {
			violations = append(violations, v)
		}
	}
	return violations, nil
}

// Put stores rec as-is, bypassing the parent and depth rules. Tests use it
// to seed corrupted lineages.
func (m *Memory) Put(rec types.VideoRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.videos[rec.VideoID]; !exists {
		m.order = append(m.order, rec.VideoID)
	}
	m.videos[rec.VideoID] = cloneRecord(rec)
}

// Count returns the number of stored videos.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.videos)
}

func (m *Memory) CreateUser(_ context.Context, email, password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[email]; exists {
		return "", fmt.Errorf("email already registered: %w", types.ErrValidation)
	}
	id := strconv.Itoa(len(m.users) + 1)
	m.users[email] = user{id: id, password: password}
	return id, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (string, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[email]
	if !ok {
		return "", "", types.ErrNotFound
	}
	return u.id, u.password, nil
}

func cloneRecord(rec types.VideoRecord) types.VideoRecord {
	if rec.ParentVideoID != nil {
		p := *rec.ParentVideoID
		rec.ParentVideoID = &p
	}
	return rec
}
