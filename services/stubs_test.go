package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"beautyconsult-backend/models"
	"beautyconsult-backend/repositories"
	"beautyconsult-backend/storage"

	"github.com/google/uuid"
)

// ── History ───────────────────────────────────────────────────────────────────

type stubHistoryRepo struct {
	mu      sync.Mutex
	records map[string]models.HistoryRecord
	err     error
}

func newStubHistoryRepo(records ...models.HistoryRecord) *stubHistoryRepo {
	r := &stubHistoryRepo{records: map[string]models.HistoryRecord{}}
	for _, rec := range records {
		r.records[rec.ID] = rec
	}
	return r
}

func (r *stubHistoryRepo) Create(_ context.Context, rec *models.HistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	r.records[rec.ID] = *rec
	return nil
}

func (r *stubHistoryRepo) List(_ context.Context) ([]models.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]models.HistoryRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubHistoryRepo) FindByID(_ context.Context, id string) (*models.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &rec, nil
}

func (r *stubHistoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

var _ repositories.HistoryRepository = (*stubHistoryRepo)(nil)

// ── Visual ────────────────────────────────────────────────────────────────────

type stubVisualRepo struct {
	items map[string]models.VisualDetail
}

func newStubVisualRepo() *stubVisualRepo {
	return &stubVisualRepo{items: map[string]models.VisualDetail{}}
}

func (r *stubVisualRepo) Create(_ context.Context, v *models.VisualDetail) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	r.items[v.ID] = *v
	return nil
}

func (r *stubVisualRepo) List(_ context.Context) ([]models.VisualDetail, error) {
	out := make([]models.VisualDetail, 0, len(r.items))
	for _, v := range r.items {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubVisualRepo) FindByID(_ context.Context, id string) (*models.VisualDetail, error) {
	v, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &v, nil
}

func (r *stubVisualRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

var _ repositories.VisualRepository = (*stubVisualRepo)(nil)

// ── Object storage ────────────────────────────────────────────────────────────

type stubObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string
	err     error
}

func newStubObjectStore() *stubObjectStore {
	return &stubObjectStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *stubObjectStore) Put(_ context.Context, key, contentType string, body []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.objects[key] = body
	s.types[key] = contentType
	return "https://cdn.test/" + key, nil
}

func (s *stubObjectStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubObjectStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for k := range s.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var _ storage.ObjectStore = (*stubObjectStore)(nil)

// ── Users and notifications ───────────────────────────────────────────────────

type stubUserRepo struct {
	admins []models.User
	err    error
}

func (r *stubUserRepo) Create(context.Context, *models.User) error { return nil }
func (r *stubUserRepo) FindByUsername(context.Context, string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}
func (r *stubUserRepo) FindByID(context.Context, uuid.UUID) (*models.User, error) {
	return nil, repositories.ErrNotFound
}
func (r *stubUserRepo) Update(context.Context, *models.User) error { return nil }
func (r *stubUserRepo) TouchLogin(context.Context, uuid.UUID, time.Time) error { return nil }
func (r *stubUserRepo) ListNotifiableAdmins(context.Context) ([]models.User, error) {
	return r.admins, r.err
}

var _ repositories.UserRepository = (*stubUserRepo)(nil)

type stubNotificationRepo struct {
	mu        sync.Mutex
	templates map[uuid.UUID]models.NotificationTemplate
	logs      []models.NotificationLog
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{templates: map[uuid.UUID]models.NotificationTemplate{}}
}

func (r *stubNotificationRepo) CreateTemplate(_ context.Context, t *models.NotificationTemplate) error {
	for _, existing := range r.templates {
		if existing.Type == t.Type {
			return repositories.ErrDuplicate
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.templates[t.ID] = *t
	return nil
}

func (r *stubNotificationRepo) ListTemplates(context.Context) ([]models.NotificationTemplate, error) {
	out := []models.NotificationTemplate{}
	for _, t := range r.templates {
		out = append(out, t)
	}
	return out, nil
}

func (r *stubNotificationRepo) FindTemplate(_ context.Context, id uuid.UUID) (*models.NotificationTemplate, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &t, nil
}

func (r *stubNotificationRepo) ActiveTemplate(_ context.Context, kind string) (*models.NotificationTemplate, error) {
	for _, t := range r.templates {
		if t.Type == kind && t.IsActive {
			return &t, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *stubNotificationRepo) UpdateTemplate(_ context.Context, t *models.NotificationTemplate) error {
	r.templates[t.ID] = *t
	return nil
}

func (r *stubNotificationRepo) DeleteTemplate(_ context.Context, id uuid.UUID) error {
	if _, ok := r.templates[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.templates, id)
	return nil
}

func (r *stubNotificationRepo) CreateLog(_ context.Context, l *models.NotificationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *l)
	return nil
}

var _ repositories.NotificationRepository = (*stubNotificationRepo)(nil)

type sentMessage struct {
	to, from, body string
}

type stubSender struct {
	sent   []sentMessage
	failTo string
}

func (s *stubSender) Send(to, from, body string) (string, error) {
	if to == s.failTo {
		return "", errors.New("twilio: unreachable")
	}
	s.sent = append(s.sent, sentMessage{to: to, from: from, body: body})
	return "SM123", nil
}

var _ MessageSender = (*stubSender)(nil)

type stubNotifier struct {
	mu    sync.Mutex
	saved []models.HistoryRecord
	err   error
}

func (n *stubNotifier) HistorySaved(_ context.Context, rec models.HistoryRecord) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.saved = append(n.saved, rec)
	return n.err
}

var _ Notifier = (*stubNotifier)(nil)
