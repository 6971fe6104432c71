/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/taddelt/guessitifyoucan/games/guessit"
	"go.uber.org/zap"
)

// newLogger installs the global logger. Verbose output drops to debug level.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true

	if verbose {
		cfg.Level.SetLevel(zap.DebugLevel)
	} else {
		cfg.Level.SetLevel(zap.InfoLevel)
	}

	lgr, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	zap.ReplaceGlobals(lgr)

	return lgr, nil
}

// requestLogger tags the global logger with the request ID and client address.
func requestLogger(r *http.Request) *zap.Logger {
	return zap.L().With(
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("remote", realIP(r)),
	)
}

func newPage(prefix, title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<meta charset="utf-8">`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", html.EscapeString(title)))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"%s/\">%s</a></body></html>", prefix, html.EscapeString(body)))

	return htmlBody.String()
}

// errorStatus maps session errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errUnknownGame):
		return http.StatusNotFound
	case errors.Is(err, guessit.ErrNotStarted),
		errors.Is(err, guessit.ErrGameOver),
		errors.Is(err, guessit.ErrUnresolvedResults),
		errors.Is(err, guessit.ErrNotActivePlayer),
		errors.Is(err, guessit.ErrNoJokersLeft),
		errors.Is(err, guessit.ErrJokerUnavailable):
		return http.StatusConflict
	case errors.Is(err, guessit.ErrInvalidConfig),
		errors.Is(err, guessit.ErrInvalidTeam),
		errors.Is(err, guessit.ErrInvalidPlayer),
		errors.Is(err, guessit.ErrInvalidOutcome),
		errors.Is(err, guessit.ErrUnknownWord),
		errors.Is(err, guessit.ErrUnknownCategory),
		errors.Is(err, guessit.ErrUnknownRound),
		errors.Is(err, guessit.ErrUnknownPreset),
		errors.Is(err, guessit.ErrEmptyWordSource),
		errors.Is(err, guessit.ErrPoolTooSmall):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func serveJSON(cfg *Config, w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(payload)
}

func serveError(cfg *Config, w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)

	requestLogger(r).Debug("request failed",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)

	_ = serveJSON(cfg, w, status, ErrorMessage{Type: "error", Message: err.Error()})
}
