package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/agriconnect/models"
	"github.com/google/uuid"
)

// MemoryStore keeps every table in process memory behind one mutex.
// It enforces the same uniqueness rules as the Postgres schema.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]models.User
	experts  map[uuid.UUID]models.Expert
	bookings map[uuid.UUID]models.Booking
	reviews  map[uuid.UUID]models.Review
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uuid.UUID]models.User),
		experts:  make(map[uuid.UUID]models.Expert),
		bookings: make(map[uuid.UUID]models.Booking),
		reviews:  make(map[uuid.UUID]models.Review),
		now:      time.Now,
	}
}

func (m *MemoryStore) Users() UserRepository       { return memoryUsers{m} }
func (m *MemoryStore) Experts() ExpertRepository   { return memoryExperts{m} }
func (m *MemoryStore) Bookings() BookingRepository { return memoryBookings{m} }
func (m *MemoryStore) Reviews() ReviewRepository   { return memoryReviews{m} }

// PutExpert stores e as-is, assigning an id when missing.
func (m *MemoryStore) PutExpert(e models.Expert) models.Expert {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now()
		e.UpdatedAt = e.CreatedAt
	}
	m.experts[e.ID] = e
	return e
}

// PutBooking stores b as-is, bypassing availability checks.
func (m *MemoryStore) PutBooking(b models.Booking) models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.Expert = nil
	m.bookings[b.ID] = b
	return b
}

// CountExperts reports how many application rows exist for userID.
func (m *MemoryStore) CountExperts(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.experts {
		if e.UserID == userID {
			n++
		}
	}
	return n
}

type memoryUsers struct{ m *MemoryStore }

func (r memoryUsers) Create(ctx context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.m.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.m.now()
	user.UpdatedAt = user.CreatedAt
	r.m.users[user.ID] = *user
	return nil
}

func (r memoryUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r memoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryUsers) UpdateProfile(ctx context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	u.FullName = user.FullName
	u.AvatarURL = user.AvatarURL
	u.Location = user.Location
	u.FarmType = user.FarmType
	u.UpdatedAt = r.m.now()
	r.m.users[u.ID] = u
	*user = u
	return nil
}

type memoryExperts struct{ m *MemoryStore }

func (r memoryExperts) FindByID(ctx context.Context, id uuid.UUID) (*models.Expert, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.experts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (r memoryExperts) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Expert, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, e := range r.m.experts {
		if e.UserID == userID {
			return &e, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryExperts) List(ctx context.Context, filter ExpertFilter) ([]models.Expert, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(filter.Query))
	experts := make([]models.Expert, 0, len(r.m.experts))
	for _, e := range r.m.experts {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Specialization != "" && e.Specialization != filter.Specialization {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(e.FullName), term) &&
			!strings.Contains(strings.ToLower(e.Location), term) &&
			!strings.Contains(strings.ToLower(e.Bio), term) {
			continue
		}
		experts = append(experts, e)
	}
	sort.SliceStable(experts, func(i, j int) bool {
		if experts[i].Rating != experts[j].Rating {
			return experts[i].Rating > experts[j].Rating
		}
		return experts[i].CreatedAt.Before(experts[j].CreatedAt)
	})
	return experts, nil
}

func (r memoryExperts) UpsertByUserID(ctx context.Context, userID uuid.UUID, mutate ApplicationMutator) (*models.Expert, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var current models.Expert
	exists := false
	for _, e := range r.m.experts {
		if e.UserID == userID {
			current, exists = e, true
			break
		}
	}
	if !exists {
		current = models.Expert{UserID: userID}
	}

	if err := mutate(&current, exists); err != nil {
		return nil, err
	}
	current.UserID = userID
	now := r.m.now()
	if !exists {
		current.ID = uuid.New()
		current.CreatedAt = now
	}
	current.UpdatedAt = now
	r.m.experts[current.ID] = current
	return &current, nil
}

func (r memoryExperts) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ExpertStatus) (*models.Expert, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.experts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if e.Status != from {
		return nil, ErrStatusChanged
	}
	e.Status = to
	e.UpdatedAt = r.m.now()
	r.m.experts[id] = e
	return &e, nil
}

type memoryBookings struct{ m *MemoryStore }

func (r memoryBookings) CreateIfAvailable(ctx context.Context, b *models.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.experts[b.ExpertID]; !ok {
		return ErrNotFound
	}
	for _, existing := range r.m.bookings {
		if existing.ExpertID != b.ExpertID || !existing.Status.Active() {
			continue
		}
		if existing.Overlaps(b.StartsAt, b.EndsAt) {
			return ErrSlotTaken
		}
	}

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = r.m.now()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	stored.Expert = nil
	r.m.bookings[b.ID] = stored
	return nil
}

func (r memoryBookings) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.attachExpert(&b)
	return &b, nil
}

func (r memoryBookings) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Booking, error) {
	return r.list(func(b models.Booking) bool { return b.FarmerID == farmerID }, true), nil
}

func (r memoryBookings) ListByExpert(ctx context.Context, expertID uuid.UUID) ([]models.Booking, error) {
	return r.list(func(b models.Booking) bool { return b.ExpertID == expertID }, false), nil
}

func (r memoryBookings) ListActiveForExpertOn(ctx context.Context, expertID uuid.UUID, date models.Date) ([]models.Booking, error) {
	return r.list(func(b models.Booking) bool {
		return b.ExpertID == expertID && b.BookingDate == date && b.Status.Active()
	}, false), nil
}

func (r memoryBookings) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.BookingStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status != from {
		return ErrStatusChanged
	}
	b.Status = to
	b.UpdatedAt = r.m.now()
	r.m.bookings[id] = b
	return nil
}

func (r memoryBookings) ListStartingBetween(ctx context.Context, status models.BookingStatus, from, to time.Time) ([]models.Booking, error) {
	return r.list(func(b models.Booking) bool {
		return b.Status == status && !b.StartsAt.Before(from) && b.StartsAt.Before(to)
	}, true), nil
}

func (r memoryBookings) list(keep func(models.Booking) bool, withExpert bool) []models.Booking {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := make([]models.Booking, 0)
	for _, b := range r.m.bookings {
		if !keep(b) {
			continue
		}
		if withExpert {
			r.attachExpert(&b)
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	return out
}

func (r memoryBookings) attachExpert(b *models.Booking) {
	if e, ok := r.m.experts[b.ExpertID]; ok {
		b.Expert = &e
	}
}

type memoryReviews struct{ m *MemoryStore }

func (r memoryReviews) CreateAndRate(ctx context.Context, review *models.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	expert, ok := r.m.experts[review.ExpertID]
	if !ok {
		return ErrNotFound
	}
	for _, existing := range r.m.reviews {
		if existing.BookingID == review.BookingID {
			return ErrDuplicate
		}
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = r.m.now()
	r.m.reviews[review.ID] = *review

	expert.Rating, expert.TotalReviews = foldRating(expert.Rating, expert.TotalReviews, review.Rating)
	r.m.experts[expert.ID] = expert
	return nil
}
