package quiz

import "sync"

// ProfileStore persists player profiles keyed by player ID. Load never
// surfaces corruption to the caller; a bad or missing blob yields a
// default profile. Saves are best effort.
type ProfileStore interface {
	Load(playerID string) *Profile
	Save(playerID string, p *Profile) error
	Close() error
}

// MemoryStore keeps profiles in process memory. Used when no database
// path is configured, and in tests.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Load(playerID string) *Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return DecodeProfile(m.blobs[playerID])
}

func (m *MemoryStore) Save(playerID string, p *Profile) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[playerID] = data
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
