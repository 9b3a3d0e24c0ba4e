package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("AuthHandler", func() {
	var (
		handler *Handler
		gateway *mockGateway
	)

	ginkgo.BeforeEach(func() {
		gateway = &mockGateway{token: "remote-token"}
		handler = NewHandler(NewService(gateway, nil, logger.Discard()))
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("should return the remote token", func() {
			body, _ := json.Marshal(LoginDTO{Email: "user@example.com", Password: "secret"})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var resp TokenResponse
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
			gomega.Expect(resp.Token).To(gomega.Equal("remote-token"))
		})

		ginkgo.It("should map a rejected login to 401", func() {
			gateway.loginErr = internal.ErrAuthenticationFailed
			body, _ := json.Marshal(LoginDTO{Email: "user@example.com", Password: "wrong"})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("AUTHENTICATION_FAILED"))
		})

		ginkgo.It("should reject a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("should answer 201 on success", func() {
			body, _ := json.Marshal(RegisterDTO{Name: "Ana", Email: "ana@example.com", Password: "pw"})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
		})

		ginkgo.It("should answer 400 on missing fields", func() {
			body, _ := json.Marshal(RegisterDTO{Email: "ana@example.com"})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("BearerMiddleware", func() {
		var (
			seen string
			next http.Handler
		)

		ginkgo.BeforeEach(func() {
			seen = ""
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = internal.TokenFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})
			handler.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
		})

		serve := func(authorization string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/expenses", nil).WithContext(context.Background())
			if authorization != "" {
				req.Header.Set("Authorization", authorization)
			}
			rec := httptest.NewRecorder()
			handler.BearerMiddleware(next).ServeHTTP(rec, req)
			return rec
		}

		ginkgo.It("should pass the token through the context", func() {
			rec := serve("Bearer opaque-token")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(seen).To(gomega.Equal("opaque-token"))
		})

		ginkgo.It("should reject a missing header", func() {
			rec := serve("")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("LOGIN_REQUIRED"))
			gomega.Expect(seen).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject an expired JWT", func() {
			rec := serve("Bearer " + signedToken(time.Date(2024, 3, 10, 11, 0, 0, 0, time.UTC)))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("TOKEN_EXPIRED"))
		})

		ginkgo.It("should admit a JWT that has not expired", func() {
			rec := serve("Bearer " + signedToken(time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC)))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
		})
	})
})
