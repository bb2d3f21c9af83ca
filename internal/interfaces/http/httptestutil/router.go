// Package httptestutil assembles HTTP handlers over in-memory stores for tests.
package httptestutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"github.com/sngm3741/cafe-finder/api/internal/infrastructure/memory"
	"github.com/sngm3741/cafe-finder/api/internal/interfaces/http/admin"
	"github.com/sngm3741/cafe-finder/api/internal/interfaces/http/common"
	"github.com/sngm3741/cafe-finder/api/internal/interfaces/http/public"
	"github.com/stretchr/testify/require"
)

// Services bundles the application layer used by the test router.
type Services struct {
	Directory application.DirectoryService
	Search    application.SearchService
	Reviews   application.ReviewService
	Claims    application.ClaimService
	Busy      application.BusyService
	Stats     application.StatsService
}

// NewServices wires every service over fresh in-memory stores.
func NewServices() Services {
	cafes := memory.NewCafeStore()
	reviews := memory.NewReviewStore()
	claims := memory.NewClaimStore()
	cache := memory.NewPopularCache(time.Minute)
	ratings := application.NewRatingRecalculator(reviews, cafes, cache, nil, nil)
	return Services{
		Directory: application.NewDirectoryService(cafes, cache, nil),
		Search:    application.NewSearchService(cafes, cache, nil, nil),
		Reviews:   application.NewReviewService(reviews, memory.NewVoteStore(), cafes, ratings, nil, nil, nil),
		Claims:    application.NewClaimService(claims, cafes, nil, nil, nil),
		Busy:      application.NewBusyService(memory.NewBusyStore(), cafes),
		Stats:     application.NewStatsService(reviews, claims),
	}
}

// FakeAuth trusts an "Authorization: Test <id>:<ROLE,ROLE>" header.
func FakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Test ")
		if !ok {
			common.WriteMessage(nil, w, http.StatusUnauthorized, "authentication required")
			return
		}
		id, rolesRaw, _ := strings.Cut(raw, ":")
		principal := domain.Principal{ID: id, Username: id}
		for _, name := range strings.Split(rolesRaw, ",") {
			if role, ok := domain.ParseRole(name); ok {
				principal.Roles = append(principal.Roles, role)
			}
		}
		next.ServeHTTP(w, r.WithContext(common.ContextWithPrincipal(r.Context(), principal)))
	})
}

// NewRouter mounts the public routes at the root and the admin routes under /admin.
func NewRouter(svc Services) http.Handler {
	r := chi.NewRouter()
	public.NewHandler(public.Config{
		Directory: svc.Directory,
		Search:    svc.Search,
		Reviews:   svc.Reviews,
		Claims:    svc.Claims,
		Busy:      svc.Busy,
	}).Register(r, FakeAuth)
	r.Route("/admin", func(r chi.Router) {
		r.Use(FakeAuth)
		admin.NewHandler(admin.Config{
			Directory: svc.Directory,
			Reviews:   svc.Reviews,
			Claims:    svc.Claims,
			Stats:     svc.Stats,
		}).Register(r)
	})
	return r
}

// Do sends a request with an optional JSON body and credential.
func Do(t *testing.T, h http.Handler, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", "Test "+auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Decode unmarshals a recorded JSON response into T.
func Decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
