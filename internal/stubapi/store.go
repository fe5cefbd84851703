// Package stubapi is an in-memory reference implementation of the Food Share
// backend. It keeps just enough state to exercise the client contract.
package stubapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/foodshare/domain"
)

type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	PasswordHash []byte
	Latitude     float64
	Longitude    float64
	Roles        domain.RoleSet
}

type Food struct {
	ID       int64
	DonorID  int64
	Name     string
	Quantity int
	Expiry   time.Time
	Status   domain.FoodStatus
}

type Request struct {
	ID         int64
	ReceiverID int64
	FoodType   string
	Quantity   int
	Urgency    string
	Deadline   *time.Time
	Status     domain.RequestStatus
	CreatedAt  time.Time
}

type Transaction struct {
	ID         int64
	DonorID    int64
	ReceiverID int64
	FoodID     int64
	RequestID  int64
	Status     string
	CreatedAt  time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithHashCost sets the bcrypt cost used for new passwords.
func WithHashCost(cost int) Option {
	return func(s *Store) { s.hashCost = cost }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store holds all backend state behind one mutex. Match and accept change
// several records under a single lock so no caller observes a partial result.
type Store struct {
	hashCost int
	now      func() time.Time

	mu           sync.RWMutex
	nextID       int64
	users        map[int64]*User
	emails       map[string]int64
	foods        map[int64]*Food
	requests     map[int64]*Request
	transactions map[int64]*Transaction
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		hashCost:     bcrypt.DefaultCost,
		now:          time.Now,
		users:        make(map[int64]*User),
		emails:       make(map[string]int64),
		foods:        make(map[int64]*Food),
		requests:     make(map[int64]*Request),
		transactions: make(map[int64]*Transaction),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Register creates a user. Emails are unique, case-insensitively.
func (s *Store) Register(u User, password string) (User, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if strings.TrimSpace(u.Name) == "" || email == "" || password == "" {
		return User{}, domain.Invalid("name, email and password are required")
	}
	if u.Roles.Empty() {
		return User{}, domain.Invalid("at least one valid role is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return User{}, domain.WrapError(domain.ErrCodeInternal, "could not hash password", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emails[email]; taken {
		return User{}, domain.NewError(domain.ErrCodeConflict, "Email already registered")
	}
	u.ID = s.id()
	u.Email = email
	u.PasswordHash = hash
	s.users[u.ID] = &u
	s.emails[email] = u.ID
	return u, nil
}

// Authenticate checks credentials.
func (s *Store) Authenticate(email, password string) (User, error) {
	s.mu.RLock()
	id, ok := s.emails[strings.ToLower(strings.TrimSpace(email))]
	var u User
	if ok {
		u = *s.users[id]
	}
	s.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return User{}, domain.NewError(domain.ErrCodeUnauthorized, "Invalid credentials")
	}
	return u, nil
}

func (s *Store) User(id int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, domain.NewError(domain.ErrCodeNotFound, "User not found")
	}
	return *u, nil
}

func (s *Store) UserExists(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok
}

func (s *Store) UpdateProfile(id int64, upd domain.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.NewError(domain.ErrCodeNotFound, "User not found")
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Latitude != nil {
		u.Latitude = *upd.Latitude
	}
	if upd.Longitude != nil {
		u.Longitude = *upd.Longitude
	}
	return nil
}

func (s *Store) AddFood(f Food) (Food, error) {
	if strings.TrimSpace(f.Name) == "" || f.Quantity <= 0 || f.Expiry.IsZero() {
		return Food{}, domain.Invalid("food_name, quantity and expiry_date are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[f.DonorID]; !ok {
		return Food{}, domain.NewError(domain.ErrCodeNotFound, "Donor not found")
	}
	f.ID = s.id()
	f.Status = domain.FoodAvailable
	s.foods[f.ID] = &f
	return f, nil
}

func (s *Store) FoodsByDonor(donorID int64) []Food {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Food, 0)
	for _, f := range s.foods {
		if f.DonorID == donorID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FoodUpdate changes a listing; nil fields stay unchanged.
type FoodUpdate struct {
	Name     *string
	Quantity *int
	Expiry   *time.Time
}

func (s *Store) UpdateFood(actor, id int64, upd FoodUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.ownedFood(actor, id)
	if err != nil {
		return err
	}
	if upd.Quantity != nil && *upd.Quantity <= 0 {
		return domain.Invalid("quantity must be positive")
	}
	if upd.Name != nil {
		f.Name = *upd.Name
	}
	if upd.Quantity != nil {
		f.Quantity = *upd.Quantity
	}
	if upd.Expiry != nil {
		f.Expiry = *upd.Expiry
	}
	return nil
}

func (s *Store) DeleteFood(actor, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedFood(actor, id); err != nil {
		return err
	}
	delete(s.foods, id)
	return nil
}

func (s *Store) ownedFood(actor, id int64) (*Food, error) {
	f, ok := s.foods[id]
	if !ok {
		return nil, domain.NewError(domain.ErrCodeNotFound, "Food item not found")
	}
	if f.DonorID != actor {
		return nil, domain.NewError(domain.ErrCodeForbidden, "Not your food item")
	}
	return f, nil
}

func (s *Store) AddRequest(r Request) (Request, error) {
	if strings.TrimSpace(r.FoodType) == "" || r.Quantity <= 0 {
		return Request{}, domain.Invalid("food_type and a positive quantity are required")
	}
	if !domain.Urgency(strings.ToLower(r.Urgency)).Valid() {
		return Request{}, domain.Invalid("urgency_level must be low, medium or high")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[r.ReceiverID]; !ok {
		return Request{}, domain.NewError(domain.ErrCodeNotFound, "Receiver user not found")
	}
	r.ID = s.id()
	r.Urgency = strings.ToLower(r.Urgency)
	r.Status = domain.RequestPending
	r.CreatedAt = s.now()
	s.requests[r.ID] = &r
	return r, nil
}

// Requests lists every request, in creation order.
func (s *Store) Requests() []Request {
	return s.filterRequests(func(*Request) bool { return true })
}

// PendingRequests is the stub's notion of "nearby": every pending request.
func (s *Store) PendingRequests() []Request {
	return s.filterRequests(func(r *Request) bool { return r.Status == domain.RequestPending })
}

func (s *Store) filterRequests(keep func(*Request) bool) []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Request, 0)
	for _, r := range s.requests {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RequestUpdate changes a request; nil fields stay unchanged.
type RequestUpdate struct {
	Quantity *int
	Urgency  *string
	Status   *string
}

func (s *Store) UpdateRequest(actor, id int64, upd RequestUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.ownedRequest(actor, id)
	if err != nil {
		return err
	}
	if upd.Quantity != nil {
		if *upd.Quantity <= 0 {
			return domain.Invalid("quantity must be positive")
		}
		r.Quantity = *upd.Quantity
	}
	if upd.Urgency != nil {
		u := strings.ToLower(*upd.Urgency)
		if !domain.Urgency(u).Valid() {
			return domain.Invalid("urgency_level must be low, medium or high")
		}
		r.Urgency = u
	}
	if upd.Status != nil {
		r.Status = domain.ParseRequestStatus(*upd.Status)
	}
	return nil
}

// CancelRequest marks the request cancelled. Cancelling twice is not an error.
func (s *Store) CancelRequest(actor, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.ownedRequest(actor, id)
	if err != nil {
		return err
	}
	r.Status = domain.RequestCancelled
	return nil
}

func (s *Store) ownedRequest(actor, id int64) (*Request, error) {
	r, ok := s.requests[id]
	if !ok {
		return nil, domain.NewError(domain.ErrCodeNotFound, "Request not found")
	}
	if r.ReceiverID != actor {
		return nil, domain.NewError(domain.ErrCodeForbidden, "Not your request")
	}
	return r, nil
}

// Match pairs an available food of the actor with a pending request. The food
// becomes matched, the request fulfilled and a pending transaction is created.
func (s *Store) Match(actor, foodID, requestID int64) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.ownedFood(actor, foodID)
	if err != nil {
		return Transaction{}, err
	}
	r, ok := s.requests[requestID]
	if !ok {
		return Transaction{}, domain.NewError(domain.ErrCodeNotFound, "Request not found")
	}
	if f.Status != domain.FoodAvailable {
		return Transaction{}, domain.NewError(domain.ErrCodeConflict, "Food item is no longer available")
	}
	if r.Status != domain.RequestPending {
		return Transaction{}, domain.NewError(domain.ErrCodeConflict, "Request is not pending")
	}

	f.Status = domain.FoodMatched
	r.Status = domain.RequestFulfilled
	return s.addTransaction(Transaction{
		DonorID:    f.DonorID,
		ReceiverID: r.ReceiverID,
		FoodID:     f.ID,
		RequestID:  r.ID,
		Status:     "pending",
	}), nil
}

// Accept lets a receiver claim a food item, optionally against one of their
// requests.
func (s *Store) Accept(foodID, receiverID, requestID int64) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[receiverID]; !ok {
		return Transaction{}, domain.NewError(domain.ErrCodeNotFound, "Receiver not found")
	}
	f, ok := s.foods[foodID]
	if !ok {
		return Transaction{}, domain.NewError(domain.ErrCodeNotFound, "Food item not found")
	}
	if f.Status != domain.FoodAvailable {
		return Transaction{}, domain.NewError(domain.ErrCodeConflict, "Food item is no longer available")
	}
	var req *Request
	if requestID != 0 {
		r, err := s.ownedRequest(receiverID, requestID)
		if err != nil {
			return Transaction{}, err
		}
		if r.Status != domain.RequestPending {
			return Transaction{}, domain.NewError(domain.ErrCodeConflict, "Request is not pending")
		}
		req = r
	}

	f.Status = domain.FoodMatched
	if req != nil {
		req.Status = domain.RequestFulfilled
	}
	return s.addTransaction(Transaction{
		DonorID:    f.DonorID,
		ReceiverID: receiverID,
		FoodID:     f.ID,
		RequestID:  requestID,
		Status:     "accepted",
	}), nil
}

// CreateTransaction records a direct claim of an available food item.
func (s *Store) CreateTransaction(donorID, receiverID, foodID int64) (Transaction, error) {
	if donorID == 0 || receiverID == 0 || foodID == 0 {
		return Transaction{}, domain.Invalid("Missing required fields")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.foods[foodID]
	if !ok {
		return Transaction{}, domain.NewError(domain.ErrCodeNotFound, "Food item not found")
	}
	if f.Status != domain.FoodAvailable {
		return Transaction{}, domain.NewError(domain.ErrCodeConflict, "Food item already claimed")
	}
	f.Status = domain.FoodMatched
	return s.addTransaction(Transaction{
		DonorID:    donorID,
		ReceiverID: receiverID,
		FoodID:     foodID,
		Status:     "claimed",
	}), nil
}

func (s *Store) addTransaction(t Transaction) Transaction {
	t.ID = s.id()
	t.CreatedAt = s.now()
	s.transactions[t.ID] = &t
	return t
}

func (s *Store) Transactions() []Transaction {
	return s.filterTransactions(func(*Transaction) bool { return true })
}

// TransactionsForUser lists transactions where id is donor or receiver.
func (s *Store) TransactionsForUser(id int64) []Transaction {
	return s.filterTransactions(func(t *Transaction) bool { return t.DonorID == id || t.ReceiverID == id })
}

func (s *Store) TransactionsForDonor(id int64) []Transaction {
	return s.filterTransactions(func(t *Transaction) bool { return t.DonorID == id })
}

func (s *Store) filterTransactions(keep func(*Transaction) bool) []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Transaction, 0)
	for _, t := range s.transactions {
		if keep(t) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) UpdateTransactionStatus(id int64, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return domain.Invalid("status is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return domain.NewError(domain.ErrCodeNotFound, "Transaction not found")
	}
	t.Status = status
	return nil
}

// FoodName returns the name of a food item, or "" once it was deleted.
func (s *Store) FoodName(id int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.foods[id]; ok {
		return f.Name
	}
	return ""
}
