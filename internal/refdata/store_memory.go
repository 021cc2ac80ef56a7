package refdata

import (
	"context"
	"sync"
	"time"

	"caseflow/internal/domain"
	"caseflow/pkg/platform/sentinel"
)

// InMemoryStore is a fixture-backed Gateway for tests and local development.
type InMemoryStore struct {
	mu              sync.RWMutex
	initiationCodes map[string]InitiationCode
	caseMarkers     map[string]CaseMarker
	offences        map[string]OffenceDefinition
	orgUnits        map[string]OrganisationalUnit
	custodyStatuses map[string]CustodyStatus
	documentTypes   map[string]DocumentTypeAccess
	prosecutors     map[string]Prosecutor
}

// NewInMemoryStore creates an empty fixture store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		initiationCodes: make(map[string]InitiationCode),
		caseMarkers:     make(map[string]CaseMarker),
		offences:        make(map[string]OffenceDefinition),
		orgUnits:        make(map[string]OrganisationalUnit),
		custodyStatuses: make(map[string]CustodyStatus),
		documentTypes:   make(map[string]DocumentTypeAccess),
		prosecutors:     make(map[string]Prosecutor),
	}
}

// NewSeededStore creates a store with a representative fixture set covering
// the standard prosecution, SJP and summons-required tracks.
func NewSeededStore() *InMemoryStore {
	s := NewInMemoryStore()
	allChannels := []domain.Channel{domain.ChannelSPI, domain.ChannelCPPI, domain.ChannelMCC, domain.ChannelCivil}
	s.AddInitiationCode(InitiationCode{Code: "C", Description: "Charge", Channels: allChannels})
	s.AddInitiationCode(InitiationCode{Code: "J", Description: "SJP notice", SJP: true, Channels: []domain.Channel{domain.ChannelSPI}})
	s.AddInitiationCode(InitiationCode{Code: "S", Description: "Summons application", SummonsRequired: true, Channels: []domain.Channel{domain.ChannelSPI}})
	s.AddInitiationCode(InitiationCode{Code: "Q", Description: "Requisition", Channels: []domain.Channel{domain.ChannelCPPI, domain.ChannelMCC}})
	s.AddCaseMarker(CaseMarker{Code: "DV", Description: "Domestic violence"})
	s.AddCaseMarker(CaseMarker{Code: "YO", Description: "Youth offender"})
	s.AddOffence(OffenceDefinition{Code: "TH68001", Title: "Theft", EffectiveFrom: time.Date(1968, 1, 1, 0, 0, 0, 0, time.UTC)})
	s.AddOrganisationalUnit(OrganisationalUnit{Code: "045", Name: "CPS West Midlands"})
	s.AddCustodyStatus(CustodyStatus{Code: "B", Description: "Bail"})
	s.AddCustodyStatus(CustodyStatus{Code: "C", Description: "Custody"})
	s.AddDocumentTypeAccess(DocumentTypeAccess{DocumentType: "MG4", AllowedContentTypes: []string{"application/pdf"}})
	s.AddProsecutor(Prosecutor{Code: "CPS", Name: "Crown Prosecution Service", CPSOrgCode: "045"})
	return s
}

func (s *InMemoryStore) AddInitiationCode(ic InitiationCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initiationCodes[ic.Code] = ic
}

func (s *InMemoryStore) AddCaseMarker(m CaseMarker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caseMarkers[m.Code] = m
}

func (s *InMemoryStore) AddOffence(o OffenceDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offences[o.Code] = o
}

func (s *InMemoryStore) AddOrganisationalUnit(u OrganisationalUnit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgUnits[u.Code] = u
}

func (s *InMemoryStore) AddCustodyStatus(cs CustodyStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.custodyStatuses[cs.Code] = cs
}

func (s *InMemoryStore) AddDocumentTypeAccess(d DocumentTypeAccess) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documentTypes[d.DocumentType] = d
}

func (s *InMemoryStore) AddProsecutor(p Prosecutor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prosecutors[p.Code] = p
}

func (s *InMemoryStore) InitiationCode(_ context.Context, code string) (*InitiationCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ic, ok := s.initiationCodes[code]; ok {
		return &ic, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) CaseMarker(_ context.Context, code string) (*CaseMarker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.caseMarkers[code]; ok {
		return &m, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Offence(_ context.Context, code string) (*OffenceDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o, ok := s.offences[code]; ok {
		return &o, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) OrganisationalUnit(_ context.Context, code string) (*OrganisationalUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.orgUnits[code]; ok {
		return &u, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) CustodyStatus(_ context.Context, code string) (*CustodyStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cs, ok := s.custodyStatuses[code]; ok {
		return &cs, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) DocumentTypeAccess(_ context.Context, documentType string) (*DocumentTypeAccess, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.documentTypes[documentType]; ok {
		return &d, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ProsecutorByCode(_ context.Context, code string) (*Prosecutor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.prosecutors[code]; ok {
		return &p, nil
	}
	return nil, sentinel.ErrNotFound
}
