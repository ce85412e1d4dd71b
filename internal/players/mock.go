package players

import "sync"

// Mock is a mock implementation of the Directory interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu     sync.Mutex
	nextID int64
	byExt  map[string]*Player

	RegisterCalls     []struct{ ExternalID, Handle string }
	UpdateHandleCalls []struct{ ExternalID, Handle string }

	// Optional overrides
	RegisterFunc func(externalID, handle string) (int64, error)
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		nextID: 1,
		byExt:  make(map[string]*Player),
	}
}

func (m *Mock) Register(externalID, handle string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegisterCalls = append(m.RegisterCalls, struct{ ExternalID, Handle string }{externalID, handle})
	if m.RegisterFunc != nil {
		return m.RegisterFunc(externalID, handle)
	}
	if handle == "" {
		return 0, ErrEmptyHandle
	}
	if p, ok := m.byExt[externalID]; ok {
		return p.ID, nil
	}
	p := &Player{ID: m.nextID, ExternalID: externalID, Handle: handle, Rating: DefaultRating}
	m.nextID++
	m.byExt[externalID] = p
	return p.ID, nil
}

func (m *Mock) UpdateHandle(externalID, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateHandleCalls = append(m.UpdateHandleCalls, struct{ ExternalID, Handle string }{externalID, handle})
	if p, ok := m.byExt[externalID]; ok && handle != "" {
		p.Handle = handle
	}
	return nil
}

func (m *Mock) FindByExternalID(externalID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byExt[externalID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *Mock) FindByHandle(handle string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byExt {
		if p.Handle == handle {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *Mock) FindByID(id int64) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byExt {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
