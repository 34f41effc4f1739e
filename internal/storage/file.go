package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/wca-notifier/internal/crypto"
	"github.com/pfrederiksen/wca-notifier/internal/event"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
	"github.com/pkg/errors"
)

const fileName = "subscriptions.json"

// document is the on-disk layout.
type document struct {
	Subscriptions []*subscription.Subscription `json:"subscriptions"`
	UpdatedAt     string                       `json:"updated_at"`
}

// FileStore keeps all subscriptions in one JSON file. Every operation reads
// the file, and writes go through a temp file and rename.
type FileStore struct {
	mu     sync.Mutex
	path   string
	sealer *crypto.Sealer
}

// NewFileStore creates the data directory if needed. A nil sealer stores plaintext.
func NewFileStore(dataDir string, sealer *crypto.Sealer) (*FileStore, error) {
	dataDir, err := expandHome(dataDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}
	return &FileStore{path: filepath.Join(dataDir, fileName), sealer: sealer}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &document{}, nil
		}
		return nil, errors.Wrap(err, "reading subscriptions")
	}

	data, err = s.sealer.Open(data)
	if err != nil {
		return nil, errors.Wrap(err, "decrypting subscriptions")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing subscriptions")
	}
	for _, sub := range doc.Subscriptions {
		if sub.Notified == nil {
			sub.Notified = event.NewIDSet()
		}
	}
	return &doc, nil
}

func (s *FileStore) save(doc *document) error {
	doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	sort.Slice(doc.Subscriptions, func(i, j int) bool {
		return doc.Subscriptions[i].Email < doc.Subscriptions[j].Email
	})

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding subscriptions")
	}
	data, err = s.sealer.Seal(data)
	if err != nil {
		return errors.Wrap(err, "encrypting subscriptions")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), fileName+".*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing subscriptions")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "writing subscriptions")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "replacing subscriptions")
	}
	return nil
}

func find(doc *document, match func(*subscription.Subscription) bool) (int, *subscription.Subscription) {
	for i, sub := range doc.Subscriptions {
		if match(sub) {
			return i, sub
		}
	}
	return -1, nil
}

func byEmail(email string) func(*subscription.Subscription) bool {
	email = subscription.NormalizeEmail(email)
	return func(s *subscription.Subscription) bool { return s.Email == email }
}

func (s *FileStore) List(ctx context.Context) ([]*subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Subscriptions, nil
}

func (s *FileStore) Get(ctx context.Context, email string) (*subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if _, sub := find(doc, byEmail(email)); sub != nil {
		return sub, nil
	}
	return nil, subscription.ErrNotFound
}

func (s *FileStore) GetByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if _, sub := find(doc, func(sub *subscription.Subscription) bool { return sub.ID == id }); sub != nil {
		return sub, nil
	}
	return nil, subscription.ErrNotFound
}

func (s *FileStore) Add(ctx context.Context, sub *subscription.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, existing := find(doc, byEmail(sub.Email)); existing != nil {
		return subscription.ErrExists
	}

	stored := sub.Clone()
	stored.Email = subscription.NormalizeEmail(stored.Email)
	stored.Notified = event.NewIDSet()
	doc.Subscriptions = append(doc.Subscriptions, stored)
	return s.save(doc)
}

func (s *FileStore) Remove(ctx context.Context, emails ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return 0, err
	}

	drop := make(map[string]bool, len(emails))
	for _, e := range emails {
		drop[subscription.NormalizeEmail(e)] = true
	}

	kept := doc.Subscriptions[:0]
	for _, sub := range doc.Subscriptions {
		if !drop[sub.Email] {
			kept = append(kept, sub)
		}
	}
	removed := len(doc.Subscriptions) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	doc.Subscriptions = kept
	return removed, s.save(doc)
}

func (s *FileStore) AppendNotified(ctx context.Context, email string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	_, sub := find(doc, byEmail(email))
	if sub == nil {
		return subscription.ErrNotFound
	}
	if sub.Notified.Add(ids...) == 0 {
		return nil
	}
	sub.UpdatedAt = time.Now().UTC()
	return s.save(doc)
}

func (s *FileStore) Close() error { return nil }
