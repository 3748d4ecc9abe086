package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// Response is the envelope every endpoint answers with. Business failures are
// success=false with status 200; only unexpected errors use 500.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// readJSON decodes exactly one JSON object from the body into v and rejects
// fields v does not declare.
func (h *Handler) readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("request body is not valid JSON")
		case errors.As(err, &typeErr):
			return fmt.Errorf("%s has the wrong type", typeErr.Field)
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return fmt.Errorf("unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		}
		return err
	}
	if dec.More() {
		return errors.New("request body must hold a single JSON object")
	}

	return nil
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logInternalServerError(r, err)
	}
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.respond(w, r, http.StatusOK, Response{Success: true, Message: msg, Data: data})
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.respond(w, r, http.StatusOK, Response{Success: false, Message: msg})
}

// badRequest reports a decoding error as is and a validation error as the
// translated message of its first failing field.
func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
		return
	}

	h.errorResponse(w, r, err.Error())
}

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	requestID, _ := r.Context().Value(RequestIDCtx).(string)
	slog.Error("internal server error", "requestID", requestID, "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.respond(w, r, http.StatusInternalServerError, Response{Success: false, Message: "internal server error"})
}
