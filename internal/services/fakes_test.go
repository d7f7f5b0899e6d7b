package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/dto"
	"github.com/faceofmind/server/internal/interfaces"
	"gorm.io/gorm"
)

// fakeStore is an in-memory KeyValueStore. Entries expire against the
// injectable clock, so tests push now forward to age keys out.
type fakeStore struct {
	mu     sync.Mutex
	data   map[string]string
	expiry map[string]time.Time
	now    func() time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data:   make(map[string]string),
		expiry: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (f *fakeStore) Put(_ context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	if ttl > 0 {
		f.expiry[key] = f.now().Add(ttl)
	} else {
		delete(f.expiry, key)
	}
	return nil
}

// expired reports whether key's deadline has passed. Caller holds the lock.
func (f *fakeStore) expired(key string) bool {
	deadline, ok := f.expiry[key]
	return ok && f.now().After(deadline)
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok || f.expired(key) {
		return "", interfaces.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeStore) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
		delete(f.expiry, k)
	}
	return nil
}

func (f *fakeStore) Keys(_ context.Context, pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var out []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) && !f.expired(k) {
			out = append(out, k)
		}
	}
	return out, nil
}

// fakeUserRepo keeps users in a slice and serves the count queries the
// analytics service issues.
type fakeUserRepo struct {
	mu           sync.Mutex
	users        []*domain.User
	nextID       uint
	findEmailErr error // forced lookup failure when set
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1}
}

func (f *fakeUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = f.nextID
	f.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeUserRepo) FindUserByEmail(email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findEmailErr != nil {
		return nil, f.findEmailErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindUserByID(userID uint) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) SaveUser(user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == user.ID {
			f.users[i] = user
			return nil
		}
	}
	return errors.New("user not found")
}

func (f *fakeUserRepo) ListUsers(filter dto.UserListFilter) ([]domain.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.users {
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) CountAll() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) CountByRole(role string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) CountCreatedBetween(start, end time.Time, role string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.users {
		if u.CreatedAt.Before(start) || !u.CreatedAt.Before(end) {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		n++
	}
	return n, nil
}

// fakeSessionRepo covers sessions and feedback.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions []*domain.Session
	feedback []*domain.Feedback
	nextID   uint
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{nextID: 1}
}

func (f *fakeSessionRepo) CreateSession(session *domain.Session) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session.ID = f.nextID
	f.nextID++
	f.sessions = append(f.sessions, session)
	return session, nil
}

func (f *fakeSessionRepo) FindSessionForUser(sessionID, userID uint) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == sessionID && s.UserID == userID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSessionRepo) ListSessionsByUser(userID uint, limit, offset int) ([]domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Session
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) SaveSession(session *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.sessions {
		if s.ID == session.ID {
			f.sessions[i] = session
			return nil
		}
	}
	return errors.New("session not found")
}

func (f *fakeSessionRepo) DeleteSession(session *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.sessions {
		if s.ID == session.ID {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return errors.New("session not found")
}

func (f *fakeSessionRepo) CreateFeedback(feedback *domain.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	feedback.ID = uint(len(f.feedback) + 1)
	f.feedback = append(f.feedback, feedback)
	return nil
}

func (f *fakeSessionRepo) FindFeedbackBySession(sessionID uint) (*domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fb := range f.feedback {
		if fb.SessionID == sessionID {
			return fb, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSessionRepo) ListFeedback(limit, offset int) ([]domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Feedback
	for _, fb := range f.feedback {
		out = append(out, *fb)
	}
	return out, nil
}

// fakeDetectionRepo stores detections flat with their child rows attached.
type fakeDetectionRepo struct {
	mu         sync.Mutex
	detections []*domain.EmotionDetection
	owners     map[uint]uint // session id -> user id
	nextID     uint
}

func newFakeDetectionRepo() *fakeDetectionRepo {
	return &fakeDetectionRepo{owners: make(map[uint]uint), nextID: 1}
}

func (f *fakeDetectionRepo) CreateDetection(detection *domain.EmotionDetection) (*domain.EmotionDetection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	detection.ID = f.nextID
	f.nextID++
	f.detections = append(f.detections, detection)
	return detection, nil
}

func (f *fakeDetectionRepo) CreateFacialData(data *domain.FacialData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.detections {
		if d.ID == data.DetectionID {
			d.FacialData = data
			return nil
		}
	}
	return errors.New("detection not found")
}

func (f *fakeDetectionRepo) CreateVoiceData(data *domain.VoiceData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.detections {
		if d.ID == data.DetectionID {
			d.VoiceData = data
			return nil
		}
	}
	return errors.New("detection not found")
}

func (f *fakeDetectionRepo) CreateSuggestion(suggestion *domain.WellnessSuggestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.detections {
		if d.ID == suggestion.DetectionID {
			d.WellnessSuggestion = suggestion
			return nil
		}
	}
	return errors.New("detection not found")
}

func (f *fakeDetectionRepo) ListBySession(sessionID uint) ([]domain.EmotionDetection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.EmotionDetection
	for _, d := range f.detections {
		if d.SessionID == sessionID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDetectionRepo) ListByUserSince(userID uint, since time.Time) ([]domain.EmotionDetection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.EmotionDetection
	for _, d := range f.detections {
		if f.owners[d.SessionID] == userID && d.Timestamp.After(since) {
			out = append(out, *d)
		}
	}
	return out, nil
}

type fakePostRepo struct {
	mu     sync.Mutex
	posts  []*domain.CommunityPost
	nextID uint
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{nextID: 1}
}

func (f *fakePostRepo) CreatePost(post *domain.CommunityPost) (*domain.CommunityPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.ID = f.nextID
	f.nextID++
	f.posts = append(f.posts, post)
	return post, nil
}

func (f *fakePostRepo) FindPostByID(postID uint) (*domain.CommunityPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == postID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePostRepo) ListPosts(limit, offset int) ([]domain.CommunityPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.CommunityPost
	for _, p := range f.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePostRepo) SavePost(post *domain.CommunityPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.posts {
		if p.ID == post.ID {
			f.posts[i] = post
			return nil
		}
	}
	return errors.New("post not found")
}

func (f *fakePostRepo) DeletePost(post *domain.CommunityPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.posts {
		if p.ID == post.ID {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return errors.New("post not found")
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []*domain.CommunityComment
	nextID   uint
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1}
}

func (f *fakeCommentRepo) CreateComment(comment *domain.CommunityComment) (*domain.CommunityComment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment.ID = f.nextID
	f.nextID++
	f.comments = append(f.comments, comment)
	return comment, nil
}

func (f *fakeCommentRepo) FindCommentByID(commentID uint) (*domain.CommunityComment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.comments {
		if c.ID == commentID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCommentRepo) ListCommentsByPost(postID uint) ([]domain.CommunityComment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.CommunityComment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) SaveComment(comment *domain.CommunityComment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.comments {
		if c.ID == comment.ID {
			f.comments[i] = comment
			return nil
		}
	}
	return errors.New("comment not found")
}

func (f *fakeCommentRepo) DeleteComment(comment *domain.CommunityComment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.comments {
		if c.ID == comment.ID {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return nil
		}
	}
	return errors.New("comment not found")
}

// fakeGenerator returns a canned reply or an error.
type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// fakeProducer records published events.
type fakeProducer struct {
	mu     sync.Mutex
	events [][2]string
}

func (f *fakeProducer) PublishMessage(key, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, [2]string{string(key), string(value)})
	return nil
}

// fakeNotifier records broadcast frames.
type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) Broadcast(event string, _ interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}
