package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"caseflow/internal/casefile"
	"caseflow/internal/casefile/service"
	"caseflow/internal/domain"
	"caseflow/internal/transport/http/mocks"
	domainerrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/testutil"
)

type HandlersSuite struct {
	suite.Suite

	ctrl    *gomock.Controller
	service *mocks.MockService
	router  http.Handler
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *HandlersSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	h := NewHandler(s.service, discardLogger())
	s.router = NewRouter(h, discardLogger(), nil, nil)
}

func (s *HandlersSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func result(c *casefile.Case, events ...casefile.Event) *service.Result {
	return &service.Result{Case: c, Events: events}
}

func (s *HandlersSuite) TestSubmitCase() {
	sub := domain.Submission{
		CaseID:         "case-1",
		Channel:        domain.ChannelSPI,
		InitiationCode: "C",
		Defendants:     []domain.Defendant{{ID: "d-1"}},
	}
	s.service.EXPECT().
		SubmitCase(gomock.Any(), gomock.Any()).
		Return(result(&casefile.Case{ID: "case-1", Status: casefile.StatusReceived, Version: 2},
			casefile.CaseReceived{CaseID: "case-1"},
			casefile.ValidationCompleted{CaseID: "case-1"},
		), nil)

	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cases", sub))

	s.Require().Equal(http.StatusCreated, rec.Code)
	var resp commandResponse
	testutil.DecodeJSON(s.T(), rec, &resp)
	s.Equal("case-1", resp.CaseID)
	s.Equal(casefile.StatusReceived, resp.Status)
	s.Equal(int64(2), resp.Version)
	s.Equal([]string{"case-received", "validation-completed"}, resp.Events)
}

func (s *HandlersSuite) TestSubmitCaseMissingCaseID() {
	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cases",
		domain.Submission{Channel: domain.ChannelSPI}))

	s.Require().Equal(http.StatusBadRequest, rec.Code)
	var resp map[string]string
	testutil.DecodeJSON(s.T(), rec, &resp)
	s.Equal(string(domainerrors.CodeBadRequest), resp["error"])
}

func (s *HandlersSuite) TestSubmitCaseUnknownChannel() {
	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cases",
		domain.Submission{CaseID: "case-1", Channel: "FAX"}))

	s.Require().Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersSuite) TestSubmitCaseMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/cases", nil)
	rec := s.serve(req)

	s.Require().Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersSuite) TestCorrections() {
	s.service.EXPECT().
		CorrectCase(gomock.Any(), domain.CorrectionSet{
			CaseID: "case-1",
			Corrections: []domain.Correction{
				{DefendantID: "d-1", OffenceIndex: 0, Path: domain.PathOffenceCode, NewValue: "TH68001"},
			},
		}).
		Return(result(&casefile.Case{ID: "case-1", Status: casefile.StatusReceived, Version: 5}), nil)

	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cases/case-1/corrections",
		map[string]any{"corrections": []domain.Correction{
			{DefendantID: "d-1", OffenceIndex: 0, Path: domain.PathOffenceCode, NewValue: "TH68001"},
		}}))

	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *HandlersSuite) TestCorrectionsEmpty() {
	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cases/case-1/corrections",
		map[string]any{"corrections": []domain.Correction{}}))

	s.Require().Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersSuite) TestCorrectionsUnknownCase() {
	s.service.EXPECT().
		CorrectCase(gomock.Any(), gomock.Any()).
		Return(nil, domainerrors.New(domainerrors.CodeNotFound, "case not found"))

	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cases/missing/corrections",
		map[string]any{"corrections": []domain.Correction{{Path: domain.PathOffenceCode}}}))

	s.Require().Equal(http.StatusNotFound, rec.Code)
	var resp map[string]string
	testutil.DecodeJSON(s.T(), rec, &resp)
	s.Equal(string(domainerrors.CodeNotFound), resp["error"])
	s.Equal("case not found", resp["message"])
}

func (s *HandlersSuite) TestAcceptWithDetails() {
	s.service.EXPECT().
		AcceptCase(gomock.Any(), "case-1", casefile.AcceptanceDetails{ReferredToCourt: true}).
		Return(result(&casefile.Case{ID: "case-1", Status: casefile.StatusReceived, Accepted: true, Version: 3},
			casefile.CaseAccepted{CaseID: "case-1", ReferredToCourt: true},
		), nil)

	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cases/case-1/accept",
		casefile.AcceptanceDetails{ReferredToCourt: true}))

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp commandResponse
	testutil.DecodeJSON(s.T(), rec, &resp)
	s.Equal([]string{"case-accepted"}, resp.Events)
}

func (s *HandlersSuite) TestAcceptWithoutBody() {
	s.service.EXPECT().
		AcceptCase(gomock.Any(), "case-1", casefile.AcceptanceDetails{}).
		Return(result(&casefile.Case{ID: "case-1", Status: casefile.StatusReceived, Accepted: true, Version: 3}), nil)

	rec := s.serve(testutil.NewRequest(s.T(), http.MethodPost, "/cases/case-1/accept"))

	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *HandlersSuite) TestAcceptConflict() {
	s.service.EXPECT().
		AcceptCase(gomock.Any(), "case-1", gomock.Any()).
		Return(nil, domainerrors.New(domainerrors.CodeInvalidState, "case is held for correction"))

	rec := s.serve(testutil.NewRequest(s.T(), http.MethodPost, "/cases/case-1/accept"))

	s.Require().Equal(http.StatusConflict, rec.Code)
}

func (s *HandlersSuite) TestEject() {
	s.service.EXPECT().
		EjectCase(gomock.Any(), "case-1").
		Return(result(&casefile.Case{ID: "case-1", Status: casefile.StatusEjected, Version: 4}), nil)

	rec := s.serve(testutil.NewRequest(s.T(), http.MethodPost, "/cases/case-1/eject"))

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp commandResponse
	testutil.DecodeJSON(s.T(), rec, &resp)
	s.Equal(casefile.StatusEjected, resp.Status)
}

func (s *HandlersSuite) TestFilter() {
	s.service.EXPECT().
		FilterCase(gomock.Any(), "case-1").
		Return(result(&casefile.Case{ID: "case-1", Status: casefile.StatusReceived, Version: 4}), nil)

	rec := s.serve(testutil.NewRequest(s.T(), http.MethodPost, "/cases/case-1/filter"))

	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *HandlersSuite) TestAddMaterials() {
	materials := []domain.Material{{
		Version:      domain.MaterialV1,
		ID:           "m-1",
		DocumentType: "MG4",
		ContentType:  "application/pdf",
		V1:           &domain.MaterialV1Detail{FileStoreID: "fs-1"},
	}}
	s.service.EXPECT().
		AddMaterials(gomock.Any(), "case-1", materials).
		Return(result(&casefile.Case{ID: "case-1", Status: casefile.StatusReceived, Version: 3},
			casefile.MaterialPending{CaseID: "case-1", Material: materials[0]},
		), nil)

	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cases/case-1/materials",
		map[string]any{"materials": materials}))

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp commandResponse
	testutil.DecodeJSON(s.T(), rec, &resp)
	s.Equal([]string{"material-pending"}, resp.Events)
}

func (s *HandlersSuite) TestAddMaterialsEmpty() {
	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cases/case-1/materials",
		map[string]any{"materials": []domain.Material{}}))

	s.Require().Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersSuite) TestExpireMaterial() {
	s.service.EXPECT().
		ExpirePendingMaterial(gomock.Any(), "case-1", "m-1").
		Return(result(&casefile.Case{ID: "case-1", Status: casefile.StatusReceived, Version: 4}), nil)

	rec := s.serve(testutil.NewRequest(s.T(), http.MethodPost, "/cases/case-1/materials/m-1/expire"))

	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *HandlersSuite) TestApproveSummons() {
	s.service.EXPECT().
		ApproveSummons(gomock.Any(), "case-1", "app-1", casefile.ApprovalDetails{CostPence: 1500}).
		Return(result(&casefile.Case{ID: "case-1", Status: casefile.StatusReceived, Version: 3}), nil)

	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cases/case-1/summons/app-1/approve",
		casefile.ApprovalDetails{CostPence: 1500}))

	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *HandlersSuite) TestRejectSummons() {
	s.service.EXPECT().
		RejectSummons(gomock.Any(), "case-1", "app-1", []string{"insufficient evidence"}).
		Return(result(&casefile.Case{ID: "case-1", Status: casefile.StatusUninitialized, Version: 2}), nil)

	rec := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cases/case-1/summons/app-1/reject",
		map[string]any{"reasons": []string{"insufficient evidence"}}))

	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *HandlersSuite) TestGetCase() {
	s.service.EXPECT().
		GetCase(gomock.Any(), "case-1").
		Return(&casefile.Case{ID: "case-1", Status: casefile.StatusReceived, Version: 2}, nil)

	rec := s.serve(testutil.NewRequest(s.T(), http.MethodGet, "/cases/case-1"))

	s.Require().Equal(http.StatusOK, rec.Code)
	var c casefile.Case
	testutil.DecodeJSON(s.T(), rec, &c)
	s.Equal("case-1", c.ID)
}

func (s *HandlersSuite) TestGetCaseNotFound() {
	s.service.EXPECT().
		GetCase(gomock.Any(), "missing").
		Return(nil, domainerrors.New(domainerrors.CodeNotFound, "case not found"))

	rec := s.serve(testutil.NewRequest(s.T(), http.MethodGet, "/cases/missing"))

	s.Require().Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlersSuite) TestHealthz() {
	checks := map[string]HealthCheck{
		"store": func(ctx context.Context) error { return nil },
	}
	h := NewHandler(s.service, discardLogger())
	router := NewRouter(h, discardLogger(), nil, checks)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}
	testutil.DecodeJSON(s.T(), rec, &resp)
	s.Equal("ok", resp.Dependencies["store"])
}

func (s *HandlersSuite) TestHealthzFailingDependency() {
	checks := map[string]HealthCheck{
		"store": func(ctx context.Context) error { return errors.New("connection refused") },
	}
	h := NewHandler(s.service, discardLogger())
	router := NewRouter(h, discardLogger(), nil, checks)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))

	s.Require().Equal(http.StatusServiceUnavailable, rec.Code)
}
