/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

import "errors"

// Misuse of the session surface; callers are expected to prevent these.
var (
	ErrNotStarted        = errors.New("session not started")
	ErrGameOver          = errors.New("game already ended")
	ErrInvalidTeam       = errors.New("invalid team index")
	ErrInvalidPlayer     = errors.New("invalid player index")
	ErrInvalidOutcome    = errors.New("invalid outcome")
	ErrUnknownWord       = errors.New("word not assigned to player")
	ErrUnresolvedResults = errors.New("active player has unresolved words")
	ErrNotActivePlayer   = errors.New("player is not the active player")
	ErrNoJokersLeft      = errors.New("no jokers left this turn")
	ErrJokerUnavailable  = errors.New("jokers may only be used in the first round")
)

// Configuration and reference data failures.
var (
	ErrInvalidConfig   = errors.New("invalid game config")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownRound    = errors.New("unknown round")
	ErrUnknownPreset   = errors.New("unknown preset")
	ErrEmptyWordSource = errors.New("selected categories contain no words")
	ErrPoolTooSmall    = errors.New("word pool smaller than players times terms")
	ErrInvalidCatalog  = errors.New("invalid catalog")
)
