package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"rakshak-women-safety/services/api-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is a mutex guarded in-process implementation of every store.
// It is used by tests and by local runs without MongoDB.
type Memory struct {
	mu         sync.RWMutex
	users      map[primitive.ObjectID]*models.User
	divisions  map[primitive.ObjectID]*models.Division
	guardians  map[primitive.ObjectID]*models.Guardian
	complaints map[primitive.ObjectID]*models.Complaint
	states     map[string]*models.SystemState
	now        func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users:      make(map[primitive.ObjectID]*models.User),
		divisions:  make(map[primitive.ObjectID]*models.Division),
		guardians:  make(map[primitive.ObjectID]*models.Guardian),
		complaints: make(map[primitive.ObjectID]*models.Complaint),
		states:     make(map[string]*models.SystemState),
		now:        time.Now,
	}
}

// SetClock replaces the time source used for updated_at stamps.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return nil
	}
	return append([]primitive.ObjectID(nil), ids...)
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Guardians = cloneIDs(u.Guardians)
	if u.Division != nil {
		d := *u.Division
		c.Division = &d
	}
	if u.CurrentLocation != nil {
		l := *u.CurrentLocation
		c.CurrentLocation = &l
	}
	return &c
}

func copyComplaint(c *models.Complaint) *models.Complaint {
	out := *c
	out.Attachments = append([]string(nil), c.Attachments...)
	out.StatusUpdates = append([]models.StatusUpdate(nil), c.StatusUpdates...)
	if c.Division != nil {
		d := *c.Division
		out.Division = &d
	}
	if c.AssignedTo != nil {
		a := *c.AssignedTo
		out.AssignedTo = &a
	}
	if c.Location != nil {
		l := *c.Location
		out.Location = &l
	}
	return &out
}

// Users

func (m *Memory) FindUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *copyUser(u))
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *Memory) UpdateUser(_ context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Email != nil && !strings.EqualFold(*patch.Email, u.Email) {
		for otherID, other := range m.users {
			if otherID != id && strings.EqualFold(other.Email, *patch.Email) {
				return nil, ErrDuplicate
			}
		}
		u.Email = *patch.Email
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Address != nil {
		u.Address = *patch.Address
	}
	if patch.EmergencyContact != nil {
		u.EmergencyContact = *patch.EmergencyContact
	}
	if patch.ProfilePicture != nil {
		u.ProfilePicture = *patch.ProfilePicture
	}
	if patch.Active != nil {
		u.Active = *patch.Active
	}
	if patch.CurrentLocation != nil {
		l := *patch.CurrentLocation
		u.CurrentLocation = &l
	}
	u.UpdatedAt = m.now()
	return copyUser(u), nil
}

func (m *Memory) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *Memory) SetUserDivision(_ context.Context, id primitive.ObjectID, division *primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	if division == nil {
		u.Division = nil
	} else {
		d := *division
		u.Division = &d
	}
	u.UpdatedAt = m.now()
	return nil
}

func (m *Memory) AddGuardianRef(_ context.Context, userID, guardianID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	for _, g := range u.Guardians {
		if g == guardianID {
			return nil
		}
	}
	u.Guardians = append(u.Guardians, guardianID)
	return nil
}

func (m *Memory) RemoveGuardianRef(_ context.Context, userID, guardianID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.Guardians = removeID(u.Guardians, guardianID)
	return nil
}

func (m *Memory) CountUsers(_ context.Context, role models.Role) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// Divisions

func copyDivision(d *models.Division) *models.Division {
	c := *d
	c.Officers = cloneIDs(d.Officers)
	return &c
}

func (m *Memory) FindDivision(_ context.Context, id primitive.ObjectID) (*models.Division, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.divisions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDivision(d), nil
}

func (m *Memory) FindDivisionByName(_ context.Context, name string) (*models.Division, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.divisions {
		if d.Name == name {
			return copyDivision(d), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) FindFirstDivision(_ context.Context) (*models.Division, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var first *models.Division
	for _, d := range m.divisions {
		if first == nil || d.CreatedAt.Before(first.CreatedAt) ||
			(d.CreatedAt.Equal(first.CreatedAt) && d.ID.Hex() < first.ID.Hex()) {
			first = d
		}
	}
	if first == nil {
		return nil, ErrNotFound
	}
	return copyDivision(first), nil
}

func (m *Memory) ListDivisions(_ context.Context) ([]models.Division, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Division, 0, len(m.divisions))
	for _, d := range m.divisions {
		out = append(out, *copyDivision(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) CreateDivision(_ context.Context, division *models.Division) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.divisions {
		if d.Name == division.Name {
			return ErrDuplicate
		}
	}
	if division.ID.IsZero() {
		division.ID = primitive.NewObjectID()
	}
	m.divisions[division.ID] = copyDivision(division)
	return nil
}

func (m *Memory) UpdateDivision(_ context.Context, id primitive.ObjectID, patch models.DivisionPatch) (*models.Division, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.divisions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Name != nil && *patch.Name != d.Name {
		for otherID, other := range m.divisions {
			if otherID != id && other.Name == *patch.Name {
				return nil, ErrDuplicate
			}
		}
		d.Name = *patch.Name
	}
	if patch.Area != nil {
		d.Area = *patch.Area
	}
	if patch.City != nil {
		d.City = *patch.City
	}
	if patch.State != nil {
		d.State = *patch.State
	}
	d.UpdatedAt = m.now()
	return copyDivision(d), nil
}

func (m *Memory) DeleteDivision(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.divisions[id]
	if !ok {
		return ErrNotFound
	}
	if len(d.Officers) > 0 {
		return ErrInUse
	}
	delete(m.divisions, id)
	return nil
}

func (m *Memory) AddDivisionOfficer(_ context.Context, id, officerID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.divisions[id]
	if !ok {
		return ErrNotFound
	}
	if !d.HasOfficer(officerID) {
		d.Officers = append(d.Officers, officerID)
	}
	d.UpdatedAt = m.now()
	return nil
}

func (m *Memory) RemoveDivisionOfficer(_ context.Context, id, officerID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.divisions[id]
	if !ok {
		return ErrNotFound
	}
	d.Officers = removeID(d.Officers, officerID)
	d.UpdatedAt = m.now()
	return nil
}

func (m *Memory) CountDivisions(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.divisions)), nil
}

// Guardians

func (m *Memory) FindGuardian(_ context.Context, id primitive.ObjectID) (*models.Guardian, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.guardians[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *g
	return &c, nil
}

func (m *Memory) ListGuardians(_ context.Context, owner primitive.ObjectID) ([]models.Guardian, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Guardian, 0)
	for _, g := range m.guardians {
		if g.User == owner {
			out = append(out, *g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) CreateGuardian(_ context.Context, guardian *models.Guardian) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if guardian.ID.IsZero() {
		guardian.ID = primitive.NewObjectID()
	}
	c := *guardian
	m.guardians[guardian.ID] = &c
	return nil
}

func (m *Memory) UpdateGuardian(_ context.Context, id primitive.ObjectID, patch models.GuardianPatch) (*models.Guardian, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guardians[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.Relationship != nil {
		g.Relationship = *patch.Relationship
	}
	if patch.Phone != nil {
		g.Phone = *patch.Phone
	}
	if patch.Email != nil {
		g.Email = *patch.Email
	}
	if patch.Address != nil {
		g.Address = *patch.Address
	}
	g.UpdatedAt = m.now()
	c := *g
	return &c, nil
}

func (m *Memory) DeleteGuardian(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.guardians[id]; !ok {
		return ErrNotFound
	}
	delete(m.guardians, id)
	return nil
}

// Complaints

func (m *Memory) FindComplaint(_ context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyComplaint(c), nil
}

func (m *Memory) FindComplaints(_ context.Context, filter ComplaintFilter, opts ListOptions) ([]models.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Complaint, 0)
	for _, c := range m.complaints {
		if filter.Matches(c) {
			out = append(out, *copyComplaint(c))
		}
	}
	sortComplaints(out, opts.Sort)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *Memory) CountComplaints(_ context.Context, filter ComplaintFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, c := range m.complaints {
		if filter.Matches(c) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CreateComplaint(_ context.Context, complaint *models.Complaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if complaint.ID.IsZero() {
		complaint.ID = primitive.NewObjectID()
	}
	m.complaints[complaint.ID] = copyComplaint(complaint)
	return nil
}

func (m *Memory) AppendStatus(_ context.Context, id primitive.ObjectID, entry models.StatusUpdate) (*models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Status = entry.Status
	c.StatusUpdates = append(c.StatusUpdates, entry)
	c.UpdatedAt = entry.Timestamp
	return copyComplaint(c), nil
}

func (m *Memory) Assign(_ context.Context, id primitive.ObjectID, assignment models.Assignment) (*models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	officer := assignment.Officer
	c.AssignedTo = &officer
	if assignment.Division != nil {
		d := *assignment.Division
		c.Division = &d
	} else {
		c.Division = nil
	}
	c.Status = assignment.Entry.Status
	c.StatusUpdates = append(c.StatusUpdates, assignment.Entry)
	c.UpdatedAt = assignment.Entry.Timestamp
	return copyComplaint(c), nil
}

func (m *Memory) AddAttachment(_ context.Context, id primitive.ObjectID, key string) (*models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Attachments = append(c.Attachments, key)
	c.UpdatedAt = m.now()
	return copyComplaint(c), nil
}

// System state

func (m *Memory) GetSystemState(_ context.Context, id string) (*models.SystemState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *s
	return &c, nil
}

func (m *Memory) MarkAdminInitialized(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[models.BootstrapStateID] = &models.SystemState{
		ID:               models.BootstrapStateID,
		AdminInitialized: true,
		UpdatedAt:        m.now(),
	}
	return nil
}

// MemoryTx serializes transactional blocks. It offers no rollback, so
// callers compensate on failure.
type MemoryTx struct {
	mu sync.Mutex
}

func (t *MemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

func (t *MemoryTx) Atomic() bool { return false }
