package httptransport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "fellgate/pkg/domain"
	"fellgate/pkg/requestcontext"

	"fellgate/internal/useraccess"
)

type applicantKey struct{}

// ApplicantFrom retrieves the authenticated applicant set by Authenticate.
// Returns nil on unauthenticated requests.
func ApplicantFrom(ctx context.Context) *useraccess.ExternalApplicant {
	applicant, _ := ctx.Value(applicantKey{}).(*useraccess.ExternalApplicant)
	return applicant
}

// RequestID assigns each request a correlation id (honouring an incoming
// X-Request-Id) and pins the request time, so every audit event raised during
// the request shares both.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get("X-Request-Id")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		ctx := requestcontext.WithCorrelationID(r.Context(), correlationID)
		ctx = requestcontext.WithTime(ctx, time.Now().UTC())

		w.Header().Set("X-Request-Id", correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authenticate validates the bearer token and builds the external applicant the
// services guard on. Requests without a valid token are rejected; identity
// claims beyond the account id are carried as a convenience for audit trails.
func Authenticate(signingKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			applicant, err := applicantFromToken(token, signingKey)
			if err != nil {
				logger.WarnContext(r.Context(), "rejected bearer token", "error", err)
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), applicantKey{}, applicant)
			ctx = requestcontext.WithUserAccountID(ctx, applicant.UserAccountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func applicantFromToken(token, signingKey string) (*useraccess.ExternalApplicant, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(signingKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("token has no subject: %w", err)
	}
	accountID, err := id.ParseUserAccountID(subject)
	if err != nil {
		return nil, fmt.Errorf("token subject is not an account id: %w", err)
	}

	applicant := &useraccess.ExternalApplicant{UserAccountID: accountID}
	if email, ok := claims["email"].(string); ok {
		applicant.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		applicant.FullName = name
	}
	return applicant, nil
}

func unauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = fmt.Fprintf(w, `{"error":"unauthorized","errorDescription":%q}`, description)
}
