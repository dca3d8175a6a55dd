// Package httpapi exposes the three endpoints of spec.md §6 over
// net/http: no third-party router is grounded anywhere in the example
// pack, so routing uses the standard library's http.ServeMux directly,
// matching how the teacher pack's few HTTP listeners are wired
// (internal/http/server_test.go in the drand example).
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkarasev/zkid/internal/authfacade"
	"github.com/dkarasev/zkid/internal/common"
	"github.com/dkarasev/zkid/internal/logging"
)

// Facade is the subset of authfacade.Facade the HTTP layer depends on.
type Facade interface {
	Register(ctx context.Context, username, publicKeyYHex, salt string) error
	Challenge(ctx context.Context, username, clientRHex string) (*authfacade.ChallengeResult, error)
	Verify(ctx context.Context, challengeID, sHex, clientRHex, username string) (*authfacade.VerifyResult, error)
}

type Server struct {
	facade Facade
	log    logging.Logger
	mux    *http.ServeMux
}

func NewServer(facade Facade, log logging.Logger) *Server {
	s := &Server{facade: facade, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("/api/v1/auth/register", postOnly(s.handleRegister))
	s.mux.HandleFunc("/api/v1/auth/challenge", postOnly(s.handleChallenge))
	s.mux.HandleFunc("/api/v1/auth/verify", postOnly(s.handleVerify))
	return s
}

// postOnly answers any method other than POST with 405.
func postOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h(w, r)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validUsername(req.Username) || !validHexField(req.PublicKeyY) || (req.Salt != "" && !validHexField(req.Salt)) {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := s.facade.Register(r.Context(), req.Username, req.PublicKeyY, req.Salt)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct{}{})
}

func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validUsername(req.Username) || !validHexField(req.ClientR) {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	res, err := s.facade.Challenge(r.Context(), req.Username, req.ClientR)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, challengeResponse{
		ChallengeID: res.ChallengeID,
		C:           hexString(res.C),
		P:           hexString(res.P),
		Q:           hexString(res.Q),
		G:           hexString(res.G),
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validUsername(req.Username) || !validHexField(req.S) || !validHexField(req.ClientR) || req.ChallengeID == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	res, err := s.facade.Verify(r.Context(), req.ChallengeID, req.S, req.ClientR, req.Username)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Token:     res.Token,
		Type:      "Bearer",
		Username:  res.Username,
		ExpiresIn: int64(res.ExpiresIn.Seconds()),
	})
}

// writeErr translates the internal error taxonomy to HTTP status codes
// per spec.md §7. The three authentication-path errors collapse to a
// single generic 401; internal reason codes never reach the client.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case common.IsAuthFailure(err):
		writeError(w, http.StatusUnauthorized, "authentication failed")
	case errors.Is(err, common.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, common.ErrConflict):
		writeError(w, http.StatusConflict, "username already registered")
	case errors.Is(err, common.ErrDependencyUnavailable):
		s.log.Error(r.Context(), "dependency unavailable", "err", err)
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		s.log.Error(r.Context(), "unhandled error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
