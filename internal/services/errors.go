// Package services holds the business logic of the sentiment backend:
// sessions and quota, the two-step model analysis, and history aggregation.
// This file centralizes service-level error values so that handlers can map
// them to HTTP status codes with errors.Is.
package services

import "errors"

// Input errors.
var (
	// ErrEmptyNickname is returned when a nickname is blank after trimming.
	ErrEmptyNickname = errors.New("nickname cannot be empty")

	// ErrEmptyText is returned when the text to analyze is blank.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrTooLong is returned when the text exceeds the configured rune limit.
	ErrTooLong = errors.New("text too long")
)

// Quota errors.
var (
	// ErrQuotaExhausted is returned when a nickname has no demo tokens left.
	ErrQuotaExhausted = errors.New("no tokens remaining")
)

// Model errors. Each one aborts the analysis before any token is consumed.
var (
	// ErrLanguageDetection is returned when the detection reply is not JSON
	// or lacks a required field.
	ErrLanguageDetection = errors.New("failed to detect language")

	// ErrAnalysisParse is returned when the analysis reply is not a JSON object.
	ErrAnalysisParse = errors.New("failed to parse AI response")

	// ErrMissingFields is returned when the analysis reply lacks a required
	// section or numeric score.
	ErrMissingFields = errors.New("missing required fields in response")

	// ErrOutOfRange is returned when a numeric score is not a number in [0,1].
	ErrOutOfRange = errors.New("numeric values must be between 0 and 1")

	// ErrUpstream is returned when the model provider could not be reached
	// or rejected the call.
	ErrUpstream = errors.New("model call failed")
)

// Storage errors.
var (
	// ErrHistoryUnavailable is returned when the record file cannot be read.
	ErrHistoryUnavailable = errors.New("history unavailable")
)
