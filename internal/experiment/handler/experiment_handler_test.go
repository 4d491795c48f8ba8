package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangimds/EMS/config"
	authdomain "github.com/tangimds/EMS/internal/auth/domain"
	authhandler "github.com/tangimds/EMS/internal/auth/handler"
	authservice "github.com/tangimds/EMS/internal/auth/service"
	"github.com/tangimds/EMS/internal/experiment/domain"
	"github.com/tangimds/EMS/internal/experiment/dto"
	"github.com/tangimds/EMS/internal/experiment/handler"
	"github.com/tangimds/EMS/internal/experiment/service"
)

// stubUserRepo backs the identity middleware with two fixed users.
type stubUserRepo struct {
	users map[string]*authdomain.User
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*authdomain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*authdomain.User, error) {
	return s.users[id], nil
}

func (s *stubUserRepo) Create(_ context.Context, user *authdomain.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, _ string, _ time.Time) error {
	return nil
}

// memExperimentRepo mirrors the SQL contract: owner scoping, exact status
// match, case-insensitive substring search, newest-created first.
type memExperimentRepo struct {
	experiments map[string]*domain.Experiment
}

func newMemExperimentRepo() *memExperimentRepo {
	return &memExperimentRepo{experiments: map[string]*domain.Experiment{}}
}

func (m *memExperimentRepo) ListByOwner(_ context.Context, ownerID string, filter domain.ListFilter) ([]domain.Experiment, error) {
	var out []domain.Experiment
	for _, e := range m.experiments {
		if e.OwnerID != ownerID {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && string(e.Status) != filter.Status {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(e.Title), needle) &&
				!strings.Contains(strings.ToLower(e.Description), needle) &&
				!strings.Contains(strings.ToLower(e.ResearchFocus), needle) {
				continue
			}
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memExperimentRepo) GetByIDAndOwner(_ context.Context, id, ownerID string) (*domain.Experiment, error) {
	e, ok := m.experiments[id]
	if !ok || e.OwnerID != ownerID {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (m *memExperimentRepo) Create(_ context.Context, e *domain.Experiment) error {
	copied := *e
	m.experiments[e.ID] = &copied
	return nil
}

func (m *memExperimentRepo) Update(_ context.Context, e *domain.Experiment) error {
	copied := *e
	m.experiments[e.ID] = &copied
	return nil
}

func (m *memExperimentRepo) DeleteByIDAndOwner(_ context.Context, id, ownerID string) (bool, error) {
	e, ok := m.experiments[id]
	if !ok || e.OwnerID != ownerID {
		return false, nil
	}
	delete(m.experiments, id)
	return true, nil
}

type testEnv struct {
	app    *fiber.App
	repo   *memExperimentRepo
	tokenA string
	tokenB string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{Env: "development", Secret: "test-secret", TokenExpiryHours: 1}

	userRepo := &stubUserRepo{users: map[string]*authdomain.User{
		"user-a": {ID: "user-a", Name: "Ada", Email: "ada@x.com"},
		"user-b": {ID: "user-b", Name: "Bob", Email: "bob@x.com"},
	}}

	tokenService := authservice.NewTokenService(cfg.Secret, cfg.TokenExpiryHours)
	userService := authservice.NewUserService(userRepo, tokenService)
	authHandler := authhandler.NewAuthHandler(userService, cfg)

	experimentRepo := newMemExperimentRepo()
	experimentHandler := handler.NewExperimentHandler(service.NewExperimentService(experimentRepo))

	app := fiber.New()
	handler.RegisterRoutes(app, experimentHandler, authHandler.RequireAuth)

	tokenA, err := tokenService.Issue("user-a")
	require.NoError(t, err)
	tokenB, err := tokenService.Issue("user-b")
	require.NoError(t, err)

	return &testEnv{app: app, repo: experimentRepo, tokenA: tokenA, tokenB: tokenB}
}

func (e *testEnv) request(t *testing.T, method, target, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "JWT "+token)
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var body struct {
		OK   bool `json:"ok"`
		Data T    `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Data
}

func (e *testEnv) createExperiment(t *testing.T, token string, input dto.CreateExperimentInput) dto.ExperimentOutput {
	t.Helper()
	resp := e.request(t, "POST", "/experiments/", token, input)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decodeData[dto.ExperimentOutput](t, resp)
}

func TestExperimentRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, target string }{
		{"GET", "/experiments/"},
		{"GET", "/experiments/some-id"},
		{"POST", "/experiments/"},
		{"PUT", "/experiments/some-id"},
		{"DELETE", "/experiments/some-id"},
	} {
		resp := env.request(t, tc.method, tc.target, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "%s %s", tc.method, tc.target)
	}
}

func TestCreateExperiment(t *testing.T) {
	env := newTestEnv(t)

	t.Run("two character title is rejected", func(t *testing.T) {
		resp := env.request(t, "POST", "/experiments/", env.tokenA, dto.CreateExperimentInput{Title: "AB"})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("three character title is created", func(t *testing.T) {
		created := env.createExperiment(t, env.tokenA, dto.CreateExperimentInput{Title: "ABC"})
		assert.Equal(t, "ABC", created.Title)
		assert.Equal(t, "user-a", created.Owner)
		assert.Equal(t, "planning", created.Status)
	})
}

func TestOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	created := env.createExperiment(t, env.tokenA, dto.CreateExperimentInput{Title: "Photosynthesis Rate"})

	t.Run("other user cannot read", func(t *testing.T) {
		resp := env.request(t, "GET", "/experiments/"+created.ID, env.tokenB, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("other user cannot update", func(t *testing.T) {
		resp := env.request(t, "PUT", "/experiments/"+created.ID, env.tokenB,
			map[string]any{"title": "Hijacked Title"})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("other user cannot delete", func(t *testing.T) {
		resp := env.request(t, "DELETE", "/experiments/"+created.ID, env.tokenB, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("other user's listing stays empty", func(t *testing.T) {
		resp := env.request(t, "GET", "/experiments/", env.tokenB, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Empty(t, decodeData[[]dto.ExperimentOutput](t, resp))
	})

	t.Run("owner still reads it", func(t *testing.T) {
		resp := env.request(t, "GET", "/experiments/"+created.ID, env.tokenA, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestUpdateExperiment(t *testing.T) {
	env := newTestEnv(t)
	created := env.createExperiment(t, env.tokenA, dto.CreateExperimentInput{Title: "Photosynthesis Rate"})

	t.Run("owner field in the payload is discarded", func(t *testing.T) {
		resp := env.request(t, "PUT", "/experiments/"+created.ID, env.tokenA, map[string]any{
			"title": "Renamed Experiment",
			"owner": "user-b",
			"id":    "forged-id",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		updated := decodeData[dto.ExperimentOutput](t, resp)
		assert.Equal(t, "Renamed Experiment", updated.Title)
		assert.Equal(t, "user-a", updated.Owner)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "user-a", env.repo.experiments[created.ID].OwnerID)
	})

	t.Run("short description on update is rejected", func(t *testing.T) {
		resp := env.request(t, "PUT", "/experiments/"+created.ID, env.tokenA,
			map[string]any{"description": "too short"})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown experiment is NotFound", func(t *testing.T) {
		resp := env.request(t, "PUT", "/experiments/no-such-id", env.tokenA,
			map[string]any{"title": "Whatever Title"})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteExperimentIdempotence(t *testing.T) {
	env := newTestEnv(t)
	created := env.createExperiment(t, env.tokenA, dto.CreateExperimentInput{Title: "Photosynthesis Rate"})

	resp := env.request(t, "DELETE", "/experiments/"+created.ID, env.tokenA, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.request(t, "DELETE", "/experiments/"+created.ID, env.tokenA, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListExperiments(t *testing.T) {
	env := newTestEnv(t)

	env.createExperiment(t, env.tokenA, dto.CreateExperimentInput{Title: "Photosynthesis Rate"})
	env.createExperiment(t, env.tokenA, dto.CreateExperimentInput{Title: "Soil pH", Status: "completed"})
	env.createExperiment(t, env.tokenB, dto.CreateExperimentInput{Title: "Bob Only Experiment"})

	t.Run("search is case-insensitive over title", func(t *testing.T) {
		resp := env.request(t, "GET", "/experiments/?search=photo", env.tokenA, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		data := decodeData[[]dto.ExperimentOutput](t, resp)
		require.Len(t, data, 1)
		assert.Equal(t, "Photosynthesis Rate", data[0].Title)
	})

	t.Run("status all returns the full owned set", func(t *testing.T) {
		resp := env.request(t, "GET", "/experiments/?status=all", env.tokenA, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Len(t, decodeData[[]dto.ExperimentOutput](t, resp), 2)
	})

	t.Run("exact status filter", func(t *testing.T) {
		resp := env.request(t, "GET", "/experiments/?status=completed", env.tokenA, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		data := decodeData[[]dto.ExperimentOutput](t, resp)
		require.Len(t, data, 1)
		assert.Equal(t, "completed", data[0].Status)
	})
}
