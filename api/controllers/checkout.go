package controllers

import (
	"net/http"

	"github.com/driveline-labs/storefront-api/api/responses"
	checkoutsvc "github.com/driveline-labs/storefront-api/internal/checkout"
	pkgerrors "github.com/driveline-labs/storefront-api/pkg/errors"
	"github.com/driveline-labs/storefront-api/pkg/logger"
)

// CreateCheckout converts the session's cart into a hosted checkout and
// returns the redirect URL.
func CreateCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		id, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateCheckout(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
