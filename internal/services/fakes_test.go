package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"regpay/internal/models/db_models"
	"regpay/pkg/utils"
)

// In-memory stand-ins for the gorm repositories. The mutex gives them
// the same store-level atomicity the real database provides, which is
// exactly what the race tests lean on.

type fakePaymentRepo struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*db_models.Payment
	byTxn map[string]uuid.UUID
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		byID:  make(map[uuid.UUID]*db_models.Payment),
		byTxn: make(map[string]uuid.UUID),
	}
}

func (f *fakePaymentRepo) seed(p db_models.Payment) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.byID[p.ID] = &p
	f.byTxn[p.TransactionID] = p.ID
	return p.ID
}

func (f *fakePaymentRepo) get(id uuid.UUID) *db_models.Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, found := f.byID[id]; found {
		cp := *p
		return &cp
	}
	return nil
}

func (f *fakePaymentRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func (f *fakePaymentRepo) FindByTransactionID(ctx context.Context, transactionID string) (*db_models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, found := f.byTxn[transactionID]
	if !found {
		return nil, nil
	}
	cp := *f.byID[id]
	return &cp, nil
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *db_models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byTxn[payment.TransactionID]; exists {
		return errors.New("duplicate key value violates unique constraint")
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	cp := *payment
	f.byID[cp.ID] = &cp
	f.byTxn[cp.TransactionID] = cp.ID
	return nil
}

func (f *fakePaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to db_models.PaymentStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, found := f.byID[id]
	if !found || p.Status != from {
		return false, nil
	}
	p.Status = to
	return true, nil
}

type fakeRequestRepo struct {
	mu            sync.Mutex
	companies     map[uuid.UUID]*db_models.CompanyRequest
	services      map[uuid.UUID]*db_models.ServiceRequest
	outcomeWrites int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		companies: make(map[uuid.UUID]*db_models.CompanyRequest),
		services:  make(map[uuid.UUID]*db_models.ServiceRequest),
	}
}

func (f *fakeRequestRepo) seedCompany(r db_models.CompanyRequest) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.companies[r.ID] = &r
	return r.ID
}

func (f *fakeRequestRepo) seedService(r db_models.ServiceRequest) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.services[r.ID] = &r
	return r.ID
}

func (f *fakeRequestRepo) company(id uuid.UUID) *db_models.CompanyRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, found := f.companies[id]; found {
		cp := *r
		return &cp
	}
	return nil
}

func (f *fakeRequestRepo) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcomeWrites
}

func (f *fakeRequestRepo) SetPaymentOutcome(ctx context.Context, requestType db_models.RequestType,
	requestID uuid.UUID, paymentID uuid.UUID, outcome db_models.RequestPaymentStatus) error {

	f.mu.Lock()
	defer f.mu.Unlock()

	var base *db_models.RequestBase
	switch requestType {
	case db_models.RequestTypeService:
		if r, found := f.services[requestID]; found {
			base = &r.RequestBase
		}
	default:
		if r, found := f.companies[requestID]; found {
			base = &r.RequestBase
		}
	}
	if base == nil {
		return fmt.Errorf("%w: %s %s", utils.ErrRequestNotFound, requestType, requestID)
	}

	base.PaymentStatus = outcome
	base.PaymentID = &paymentID
	if outcome == db_models.RequestPaymentPaid {
		base.Status = db_models.RequestStatusInProgress
	}
	f.outcomeWrites++
	return nil
}

func (f *fakeRequestRepo) SearchCompaniesByPhone(ctx context.Context, variants []string) ([]db_models.CompanyRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.CompanyRequest
	for _, r := range f.companies {
		if phoneMatches(r.CustomerPhone, variants) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (f *fakeRequestRepo) SearchServicesByPhone(ctx context.Context, variants []string) ([]db_models.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.ServiceRequest
	for _, r := range f.services {
		if phoneMatches(r.CustomerPhone, variants) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func phoneMatches(stored string, variants []string) bool {
	for _, v := range variants {
		if strings.Contains(stored, v) {
			return true
		}
	}
	return false
}

type fakeLedger struct {
	mu      sync.Mutex
	entries []db_models.LedgerEntry
}

func newFakeLedger() *fakeLedger { return &fakeLedger{} }

func (f *fakeLedger) Append(ctx context.Context, entry *db_models.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *entry
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	f.entries = append(f.entries, cp)
	return nil
}

func (f *fakeLedger) HasEntry(ctx context.Context, paymentID uuid.UUID, eventType string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.PaymentID != nil && *e.PaymentID == paymentID && e.EventType == eventType {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]db_models.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.LedgerEntry
	for _, e := range f.entries {
		if e.PaymentID != nil && *e.PaymentID == paymentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedger) countType(eventTypes ...string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		for _, t := range eventTypes {
			if e.EventType == t {
				n++
			}
		}
	}
	return n
}

func (f *fakeLedger) orphanCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.PaymentID == nil {
			n++
		}
	}
	return n
}

type fakeNotifier struct {
	mu     sync.Mutex
	counts map[NotificationKind]int
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{counts: make(map[NotificationKind]int)}
}

func (f *fakeNotifier) Notify(kind NotificationKind, payment *db_models.Payment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[kind]++
}

func (f *fakeNotifier) count(kind NotificationKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[kind]
}
