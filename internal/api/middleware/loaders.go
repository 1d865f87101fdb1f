package middleware

import (
	"net/http"

	"github.com/vetconnect/backend/internal/application/loaders"
	"github.com/vetconnect/backend/internal/domain/repositories"
)

// LoadersMiddleware attaches fresh dataloaders to every request so clinic
// lookups are batched and memoized for the request only
func LoadersMiddleware(clinics repositories.ClinicRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := loaders.WithLoaders(r.Context(), loaders.NewLoaders(clinics))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
