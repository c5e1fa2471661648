package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"LotusLedger/internal/models"

	"golang.org/x/text/cases"
)

// Memory is a Store kept in process memory. Transactions work on a copy of
// the state that replaces the original only when fn succeeds, and are
// serialized with a single lock.
type Memory struct {
	mu sync.Mutex
	st *memState
}

func NewMemory() *Memory {
	return &Memory{st: newMemState()}
}

func (m *Memory) View(ctx context.Context, fn func(q Queries) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.st)
}

func (m *Memory) WithTx(ctx context.Context, fn func(q Queries) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	work := m.st.clone()
	if err := fn(work); err != nil {
		return err
	}
	m.st = work
	return nil
}

type memState struct {
	nextID   int64
	clients  map[int64]models.Client
	bills    map[int64]models.Bill
	receipts map[int64]models.Receipt
}

var nameFold = cases.Fold()

func newMemState() *memState {
	return &memState{
		clients:  make(map[int64]models.Client),
		bills:    make(map[int64]models.Bill),
		receipts: make(map[int64]models.Receipt),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	c.nextID = s.nextID
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.bills {
		c.bills[k] = v
	}
	for k, v := range s.receipts {
		c.receipts[k] = v
	}
	return c
}

func (s *memState) id() int64 {
	s.nextID++
	return s.nextID
}

func foldKey(name string) string {
	return nameFold.String(strings.TrimSpace(name))
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(foldKey(haystack), foldKey(needle))
}

func inRange(d *time.Time, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if d == nil {
		return false
	}
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

// dateDescIDDesc orders by date descending with nil dates last, then id
// descending.
func dateDescIDDesc(da, db *time.Time, ia, ib int64) bool {
	switch {
	case da != nil && db != nil && !da.Equal(*db):
		return da.After(*db)
	case da != nil && db == nil:
		return true
	case da == nil && db != nil:
		return false
	}
	return ia > ib
}

// Clients

func (s *memState) ListClients(ctx context.Context) ([]models.Client, error) {
	out := make([]models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := foldKey(out[i].Name), foldKey(out[j].Name)
		if ki != kj {
			return ki < kj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memState) GetClient(ctx context.Context, id int64) (models.Client, error) {
	c, ok := s.clients[id]
	if !ok {
		return models.Client{}, models.ErrNotFound
	}
	return c, nil
}

func (s *memState) FindClientByName(ctx context.Context, name string) (models.Client, bool, error) {
	key := foldKey(name)
	for _, c := range s.clients {
		if foldKey(c.Name) == key {
			return c, true, nil
		}
	}
	return models.Client{}, false, nil
}

func (s *memState) clientNameTaken(name string, except int64) bool {
	key := foldKey(name)
	for _, c := range s.clients {
		if c.ID != except && foldKey(c.Name) == key {
			return true
		}
	}
	return false
}

func (s *memState) CreateClient(ctx context.Context, c *models.Client) error {
	if s.clientNameTaken(c.Name, 0) {
		return errClientExists
	}
	c.ID = s.id()
	s.clients[c.ID] = *c
	return nil
}

func (s *memState) UpdateClient(ctx context.Context, c models.Client) error {
	if _, ok := s.clients[c.ID]; !ok {
		return models.ErrNotFound
	}
	if s.clientNameTaken(c.Name, c.ID) {
		return errClientExists
	}
	s.clients[c.ID] = c
	s.renameClient(c)
	return nil
}

func (s *memState) renameClient(c models.Client) {
	for id, b := range s.bills {
		if b.ClientID == c.ID {
			b.ClientName = c.Name
			s.bills[id] = b
		}
	}
	for id, r := range s.receipts {
		if r.ClientID == c.ID {
			r.ClientName = c.Name
			s.receipts[id] = r
		}
	}
}

func (s *memState) DeleteClient(ctx context.Context, id int64) error {
	if _, ok := s.clients[id]; !ok {
		return models.ErrNotFound
	}
	for _, b := range s.bills {
		if b.ClientID == id {
			return errClientInUse
		}
	}
	for _, r := range s.receipts {
		if r.ClientID == id {
			return errClientInUse
		}
	}
	delete(s.clients, id)
	return nil
}

// Bills

func (s *memState) ListBills(ctx context.Context, f models.BillFilter) ([]models.Bill, error) {
	out := make([]models.Bill, 0, len(s.bills))
	for _, b := range s.bills {
		if f.Search != "" && !containsFold(b.BillNo, f.Search) && !containsFold(b.ClientName, f.Search) {
			continue
		}
		if f.Client != "" && !containsFold(b.ClientName, f.Client) {
			continue
		}
		if !inRange(b.BillDate, f.From, f.To) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return dateDescIDDesc(out[i].BillDate, out[j].BillDate, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *memState) GetBill(ctx context.Context, id int64) (models.Bill, error) {
	b, ok := s.bills[id]
	if !ok {
		return models.Bill{}, models.ErrNotFound
	}
	return b, nil
}

func (s *memState) GetBillByNo(ctx context.Context, billNo string) (models.Bill, bool, error) {
	for _, b := range s.bills {
		if b.BillNo == billNo {
			return b, true, nil
		}
	}
	return models.Bill{}, false, nil
}

func (s *memState) checkBill(b models.Bill) error {
	if _, ok := s.clients[b.ClientID]; !ok {
		return errUnknownClient
	}
	for _, other := range s.bills {
		if other.ID != b.ID && other.BillNo == b.BillNo {
			return errBillExists
		}
	}
	return nil
}

func (s *memState) CreateBill(ctx context.Context, b *models.Bill) error {
	b.ID = 0
	if err := s.checkBill(*b); err != nil {
		return err
	}
	b.ID = s.id()
	b.ClientName = s.clients[b.ClientID].Name
	s.bills[b.ID] = *b
	return nil
}

func (s *memState) UpdateBill(ctx context.Context, b models.Bill) error {
	if _, ok := s.bills[b.ID]; !ok {
		return models.ErrNotFound
	}
	if err := s.checkBill(b); err != nil {
		return err
	}
	b.ClientName = s.clients[b.ClientID].Name
	s.bills[b.ID] = b
	return nil
}

func (s *memState) DeleteBill(ctx context.Context, id int64) error {
	if _, ok := s.bills[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.bills, id)
	return nil
}

func (s *memState) BillNosByClient(ctx context.Context, clientID int64) ([]string, error) {
	var out []string
	for _, b := range s.bills {
		if b.ClientID == clientID {
			out = append(out, b.BillNo)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Receipts

func (s *memState) ListReceipts(ctx context.Context, f models.ReceiptFilter) ([]models.Receipt, error) {
	out := make([]models.Receipt, 0, len(s.receipts))
	for _, r := range s.receipts {
		if f.Search != "" && !containsFold(r.ClientName, f.Search) &&
			!containsFold(r.UTRDetails, f.Search) && !containsFold(r.BillNo, f.Search) {
			continue
		}
		if f.Client != "" && !containsFold(r.ClientName, f.Client) {
			continue
		}
		if !inRange(r.ReceiptDate, f.From, f.To) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return dateDescIDDesc(out[i].ReceiptDate, out[j].ReceiptDate, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *memState) GetReceipt(ctx context.Context, id int64) (models.Receipt, error) {
	r, ok := s.receipts[id]
	if !ok {
		return models.Receipt{}, models.ErrNotFound
	}
	return r, nil
}

func (s *memState) checkReceipt(r models.Receipt) error {
	if _, ok := s.clients[r.ClientID]; !ok {
		return errUnknownClient
	}
	if r.BillNo == "" {
		return nil
	}
	for _, other := range s.receipts {
		if other.ID != r.ID && other.BillNo == r.BillNo {
			return models.NewConflictError([]string{r.BillNo})
		}
	}
	return nil
}

func (s *memState) CreateReceipt(ctx context.Context, r *models.Receipt) error {
	r.ID = 0
	if err := s.checkReceipt(*r); err != nil {
		return err
	}
	r.ID = s.id()
	r.ClientName = s.clients[r.ClientID].Name
	s.receipts[r.ID] = *r
	return nil
}

func (s *memState) UpdateReceipt(ctx context.Context, r models.Receipt) error {
	if _, ok := s.receipts[r.ID]; !ok {
		return models.ErrNotFound
	}
	if err := s.checkReceipt(r); err != nil {
		return err
	}
	r.ClientName = s.clients[r.ClientID].Name
	s.receipts[r.ID] = r
	return nil
}

func (s *memState) DeleteReceipt(ctx context.Context, id int64) error {
	if _, ok := s.receipts[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.receipts, id)
	return nil
}

func (s *memState) ReceiptedBillNos(ctx context.Context, billNos []string) ([]string, error) {
	want := make(map[string]bool, len(billNos))
	for _, b := range billNos {
		want[b] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.receipts {
		if want[r.BillNo] && !seen[r.BillNo] {
			seen[r.BillNo] = true
			out = append(out, r.BillNo)
		}
	}
	sort.Strings(out)
	return out, nil
}
