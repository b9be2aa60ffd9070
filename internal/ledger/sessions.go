package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"example.com/finance-bot/backend/internal/models"
)

// SessionStore хранит состояния диалогов бота по chat id. Таблица
// переписывается целиком на каждое сообщение, поэтому незавершенный мастер
// переживает рестарт процесса.
type SessionStore struct {
	mu   sync.Mutex
	file string
}

// NewSessionStore создает хранилище сессий в каталоге данных.
func NewSessionStore(dir string) (*SessionStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &SessionStore{file: filepath.Join(dir, sessionsFileName)}, nil
}

// Get возвращает сессию для chat id, если она есть.
func (s *SessionStore) Get(chatID int64) (models.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.loadLocked()
	if err != nil {
		return models.Session{}, false, err
	}

	session, ok := table[sessionKey(chatID)]
	return session, ok, nil
}

// Put сохраняет сессию для chat id.
func (s *SessionStore) Put(chatID int64, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.loadLocked()
	if err != nil {
		return err
	}

	table[sessionKey(chatID)] = session
	return writeDocument(s.file, table)
}

// Clear удаляет сессию для chat id.
func (s *SessionStore) Clear(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.loadLocked()
	if err != nil {
		return err
	}

	if _, ok := table[sessionKey(chatID)]; !ok {
		return nil
	}

	delete(table, sessionKey(chatID))
	return writeDocument(s.file, table)
}

func (s *SessionStore) loadLocked() (map[string]models.Session, error) {
	data, err := os.ReadFile(s.file)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]models.Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	table := map[string]models.Session{}
	if len(data) == 0 {
		return table, nil
	}
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.file, err)
	}

	return table, nil
}

func sessionKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
