// internal/app/system/httpjson/httpjson.go

// Package httpjson holds the small helpers every API handler uses to read
// request bodies and write the standard {"message": ...} response envelope.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes caps JSON request bodies. Uploads go through multipart
// handling with their own limit.
const MaxBodyBytes = 1 << 20

// Write encodes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 response.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Created writes a 201 response.
func Created(w http.ResponseWriter, v any) {
	Write(w, http.StatusCreated, v)
}

// Message writes {"message": msg} with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"message": msg})
}

// Error writes the error taxonomy body: {"message": msg}. Validation
// failures use 400, missing documents 404, denied access 403, and anything
// unexpected 500.
func Error(w http.ResponseWriter, status int, msg string) {
	Message(w, status, msg)
}

// ErrEmptyBody is returned by Decode when the request carries no body.
// Handlers with optional payloads treat it as "all fields defaulted".
var ErrEmptyBody = errors.New("request body is required")

// Decode reads a JSON body into dst, limiting its size and rejecting
// malformed payloads with a caller-friendly error.
func Decode(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return errors.New("invalid JSON body")
	}
	return nil
}
