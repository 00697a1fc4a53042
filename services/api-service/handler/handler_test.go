package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rakshak-women-safety/pkg/security"
	"rakshak-women-safety/services/api-service/division"
	"rakshak-women-safety/services/api-service/guardian"
	"rakshak-women-safety/services/api-service/identity"
	"rakshak-women-safety/services/api-service/lifecycle"
	"rakshak-women-safety/services/api-service/models"
	"rakshak-women-safety/services/api-service/notify"
	"rakshak-women-safety/services/api-service/sos"
	"rakshak-women-safety/services/api-service/stats"
	"rakshak-women-safety/services/api-service/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type HandlerSuite struct {
	suite.Suite
	mem      *store.Memory
	recorder *notify.Recorder
	identity *identity.Service
	router   chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.mem = store.NewMemory()
	s.recorder = &notify.Recorder{}
	tokens := security.NewTokenIssuer("handler-test", time.Hour)
	divisions := division.NewService(s.mem, s.mem, &store.MemoryTx{})

	s.identity = identity.NewService(identity.Deps{
		Users:           s.mem,
		Divisions:       s.mem,
		States:          s.mem,
		Tokens:          tokens,
		Membership:      divisions,
		PrivilegedEmail: "admin@rakshak.local",
	})
	_, err := s.identity.BootstrapAdmin(context.Background(), identity.AdminSeed{
		Name: "Admin", Email: "admin@rakshak.local", Password: "admin@123", Phone: "9999999999",
	})
	s.Require().NoError(err)

	h := New(Deps{
		Identity:   s.identity,
		Guardians:  guardian.NewService(s.mem, s.mem),
		Complaints: lifecycle.NewEngine(lifecycle.Deps{Complaints: s.mem, Users: s.mem, Divisions: s.mem, Dispatcher: s.recorder}),
		Divisions:  divisions,
		SOS:        sos.NewService(s.mem, s.mem, s.recorder, nil),
		Stats:      stats.NewService(s.mem, s.mem, s.mem),
		Tokens:     tokens,
	})
	s.router = h.Routes()
}

func (s *HandlerSuite) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func (s *HandlerSuite) login(email, password string) string {
	rec, env := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	s.Require().Equal(http.StatusOK, rec.Code, env.Message)
	var res struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &res))
	return res.Token
}

func (s *HandlerSuite) registerUser(email string) string {
	rec, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Asha", "email": email, "password": "secret1", "phone": "9876543210",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, env.Message)
	var res struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &res))
	return res.Token
}

func (s *HandlerSuite) TestRegisterValidation() {
	rec, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "bad"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(env.Message, "name is required")
	s.Contains(env.Message, "email must be a valid email")
}

func (s *HandlerSuite) TestRegisterDuplicateEmail() {
	s.registerUser("asha@example.com")
	rec, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Asha", "email": "asha@example.com", "password": "secret1", "phone": "1",
	})
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("Email already in use", env.Message)
}

func (s *HandlerSuite) TestLoginFailures() {
	rec, _ := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@rakshak.local", "password": "nope"})
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec, env := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@rakshak.local", "password": "admin@123", "role": "police",
	})
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("Invalid role", env.Message)
}

func (s *HandlerSuite) TestAuthRequired() {
	rec, _ := s.do(http.MethodGet, "/api/auth/me", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestRoleGates() {
	token := s.registerUser("asha@example.com")

	rec, _ := s.do(http.MethodGet, "/api/admin/users", token, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/police/dashboard", token, nil)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestComplaintFlow() {
	adminToken := s.login("admin@rakshak.local", "admin@123")

	rec, env := s.do(http.MethodPost, "/api/divisions", adminToken, map[string]string{
		"name": "Bandra", "area": "West", "city": "Mumbai", "state": "MH",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, env.Message)
	var div models.Division
	s.Require().NoError(json.Unmarshal(env.Data, &div))

	rec, env = s.do(http.MethodPost, "/api/admin/police", adminToken, map[string]string{
		"name": "Inspector Rao", "email": "rao@example.com", "password": "secret1", "phone": "1", "division_id": div.ID.Hex(),
	})
	s.Require().Equal(http.StatusCreated, rec.Code, env.Message)
	var officer models.User
	s.Require().NoError(json.Unmarshal(env.Data, &officer))

	userToken := s.registerUser("asha@example.com")
	rec, env = s.do(http.MethodPost, "/api/complaints", userToken, map[string]interface{}{
		"title":       "Harassment at station",
		"description": "Followed from the platform",
		"location":    map[string]float64{"latitude": 19.05, "longitude": 72.84},
	})
	s.Require().Equal(http.StatusCreated, rec.Code, env.Message)
	var complaint models.Complaint
	s.Require().NoError(json.Unmarshal(env.Data, &complaint))
	s.Equal(models.StatusPending, complaint.Status)
	s.True(models.SameID(complaint.Division, div.ID))

	policeToken := s.login("rao@example.com", "secret1")

	rec, env = s.do(http.MethodGet, "/api/police/complaints", policeToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var visible []models.Complaint
	s.Require().NoError(json.Unmarshal(env.Data, &visible))
	s.Len(visible, 1)

	rec, env = s.do(http.MethodPut, "/api/police/complaints/"+complaint.ID.Hex()+"/status", policeToken, map[string]string{
		"status": "in-progress", "message": "Officer dispatched",
	})
	s.Require().Equal(http.StatusOK, rec.Code, env.Message)
	s.Require().Len(s.recorder.StatusChanges, 1)
	s.Equal("asha@example.com", s.recorder.StatusChanges[0].Email)

	s.Run("filer cannot change status", func() {
		rec, _ := s.do(http.MethodPut, "/api/complaints/"+complaint.ID.Hex()+"/status", userToken, map[string]string{
			"status": "resolved", "message": "done",
		})
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("invalid status", func() {
		rec, env := s.do(http.MethodPut, "/api/complaints/"+complaint.ID.Hex()+"/status", adminToken, map[string]string{
			"status": "closed", "message": "x",
		})
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Invalid status value", env.Message)
	})

	s.Run("admin assigns", func() {
		rec, env := s.do(http.MethodPut, "/api/complaints/"+complaint.ID.Hex()+"/assign", adminToken, map[string]string{
			"officer_id": officer.ID.Hex(),
		})
		s.Require().Equal(http.StatusOK, rec.Code, env.Message)
		var assigned models.Complaint
		s.Require().NoError(json.Unmarshal(env.Data, &assigned))
		s.True(models.SameID(assigned.AssignedTo, officer.ID))
		s.Equal(models.StatusInProgress, assigned.Status)
	})

	s.Run("division with officers cannot be deleted", func() {
		rec, _ := s.do(http.MethodDelete, "/api/divisions/"+div.ID.Hex(), adminToken, nil)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("admin dashboard", func() {
		rec, env := s.do(http.MethodGet, "/api/admin/dashboard", adminToken, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var dash stats.AdminDashboard
		s.Require().NoError(json.Unmarshal(env.Data, &dash))
		s.EqualValues(1, dash.Complaints.Total)
		s.EqualValues(1, dash.Police)
	})
}

func (s *HandlerSuite) TestComplaintNotFoundAndBadID() {
	token := s.registerUser("asha@example.com")

	rec, _ := s.do(http.MethodGet, "/api/complaints/not-an-id", token, nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/complaints/5f1d7f1c2a3b4c5d6e7f8091", token, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestSOSFlow() {
	token := s.registerUser("asha@example.com")

	rec, env := s.do(http.MethodPost, "/api/users/sos", token, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Location not available. Please enable location sharing.", env.Message)

	rec, env = s.do(http.MethodPost, "/api/users/location", token, map[string]float64{"latitude": 0, "longitude": 0})
	s.Require().Equal(http.StatusOK, rec.Code, env.Message)

	rec, env = s.do(http.MethodPost, "/api/guardians", token, map[string]string{
		"name": "Meera", "relationship": "Sister", "phone": "1", "email": "meera@example.com",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, env.Message)

	rec, env = s.do(http.MethodPost, "/api/users/sos", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code, env.Message)
	var res sos.Result
	s.Require().NoError(json.Unmarshal(env.Data, &res))
	s.True(res.AlertSent)
	s.Equal(1, res.GuardiansNotified)
}

func (s *HandlerSuite) TestLocationRequiresBothCoordinates() {
	token := s.registerUser("asha@example.com")

	rec, env := s.do(http.MethodPost, "/api/users/location", token, map[string]float64{"latitude": 12})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(env.Message, "longitude is required")
}

func (s *HandlerSuite) TestDeletedAccountTokenIsRejected() {
	token := s.registerUser("asha@example.com")
	u, err := s.mem.FindUserByEmail(context.Background(), "asha@example.com")
	s.Require().NoError(err)
	s.Require().NoError(s.mem.DeleteUser(context.Background(), u.ID))

	rec, _ := s.do(http.MethodGet, "/api/auth/me", token, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}
