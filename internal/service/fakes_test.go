package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"heartlink-be/internal/entity"
	"heartlink-be/internal/pkg/apperror"
	"heartlink-be/internal/repository/contract"
	"heartlink-be/internal/repository/specification"
	"heartlink-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// In-memory repositories interpreting the specification types the services
// actually use, so service logic is tested without a database.

type fakeStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	requests map[uuid.UUID]*entity.ConnectionRequest
	links    map[uuid.UUID]map[uuid.UUID]bool
	messages []*entity.Message
	seq      int64

	failCreateMessage error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*entity.User),
		requests: make(map[uuid.UUID]*entity.ConnectionRequest),
		links:    make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (s *fakeStore) addUser(name string) *entity.User {
	u := &entity.User{
		Id:       uuid.New(),
		Email:    name + "@example.com",
		FullName: name,
	}
	s.users[u.Id] = u
	return u
}

func (s *fakeStore) connect(a, b uuid.UUID) {
	if s.links[a] == nil {
		s.links[a] = make(map[uuid.UUID]bool)
	}
	if s.links[b] == nil {
		s.links[b] = make(map[uuid.UUID]bool)
	}
	s.links[a][b] = true
	s.links[b][a] = true
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUow) ConnectionRepository() contract.ConnectionRepository {
	return &fakeConnectionRepo{store: u.store}
}

func (u *fakeUow) MessageRepository() contract.MessageRepository {
	return &fakeMessageRepo{store: u.store}
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) matches(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if u.Id != sp.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != sp.Email {
				return false
			}
		case specification.ByIDs:
			found := false
			for _, id := range sp.IDs {
				if u.Id == id {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if r.matches(u, specs) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.User
	for _, u := range r.store.users {
		if r.matches(u, specs) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeConnectionRepo struct {
	store *fakeStore
}

func (r *fakeConnectionRepo) matches(req *entity.ConnectionRequest, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if req.Id != sp.ID {
				return false
			}
		case specification.ByReceiver:
			if req.ReceiverId != sp.ReceiverId {
				return false
			}
		case specification.ByStatus:
			if string(req.Status) != sp.Status {
				return false
			}
		case specification.ByPair:
			sameDir := req.SenderId == sp.UserA && req.ReceiverId == sp.UserB
			reverse := req.SenderId == sp.UserB && req.ReceiverId == sp.UserA
			if !sameDir && !reverse {
				return false
			}
		}
	}
	return true
}

func (r *fakeConnectionRepo) CreateRequest(ctx context.Context, request *entity.ConnectionRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.requests[request.Id] = request
	return nil
}

func (r *fakeConnectionRepo) UpdateRequest(ctx context.Context, request *entity.ConnectionRequest) error {
	return r.CreateRequest(ctx, request)
}

func (r *fakeConnectionRepo) FindRequest(ctx context.Context, specs ...specification.Specification) (*entity.ConnectionRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, req := range r.store.requests {
		if r.matches(req, specs) {
			return req, nil
		}
	}
	return nil, nil
}

func (r *fakeConnectionRepo) FindRequests(ctx context.Context, specs ...specification.Specification) ([]*entity.ConnectionRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ConnectionRequest
	for _, req := range r.store.requests {
		if r.matches(req, specs) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) Link(ctx context.Context, userA, userB uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.connect(userA, userB)
	return nil
}

func (r *fakeConnectionRepo) AreConnected(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.links[userA][userB], nil
}

func (r *fakeConnectionRepo) ConnectedIds(ctx context.Context, userId uuid.UUID) ([]uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var ids []uuid.UUID
	for id := range r.store.links[userId] {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeMessageRepo struct {
	store *fakeStore
}

func (r *fakeMessageRepo) Create(ctx context.Context, msg *entity.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if strings.TrimSpace(msg.Body) == "" {
		return apperror.Wrap(apperror.ErrValidation, "message body is empty")
	}
	if r.store.failCreateMessage != nil {
		return r.store.failCreateMessage
	}
	r.store.seq++
	msg.Id = uuid.New()
	msg.Seq = r.store.seq
	msg.SentAt = time.Now().UTC()
	stored := *msg
	r.store.messages = append(r.store.messages, &stored)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Message
	for _, m := range r.store.messages {
		keep := true
		for _, s := range specs {
			if sp, ok := s.(specification.ByConversation); ok {
				sameDir := m.SenderId == sp.UserA && m.ReceiverId == sp.UserB
				reverse := m.SenderId == sp.UserB && m.ReceiverId == sp.UserA
				if !sameDir && !reverse {
					keep = false
				}
			}
		}
		if keep {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].Seq < out[j].Seq
		}
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// recorderDelivery captures hub broadcasts.

type broadcastRecord struct {
	identity uuid.UUID
	event    string
	payload  interface{}
}

type recorderDelivery struct {
	mu      sync.Mutex
	records []broadcastRecord
}

func (d *recorderDelivery) Broadcast(identity uuid.UUID, event string, payload interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = append(d.records, broadcastRecord{identity: identity, event: event, payload: payload})
}

func (d *recorderDelivery) all() []broadcastRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]broadcastRecord, len(d.records))
	copy(out, d.records)
	return out
}

// recorderPublisher captures bus publishes.

type recorderPublisher struct {
	mu     sync.Mutex
	topics []string
	msgs   []*message.Message
}

func (p *recorderPublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range messages {
		p.topics = append(p.topics, topic)
		p.msgs = append(p.msgs, m)
	}
	return nil
}

func (p *recorderPublisher) Close() error { return nil }

// nopLogger keeps tests quiet.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
