package models

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")

	ErrVideoNotFound      = errors.New("video not found")
	ErrUploadNotStarted   = errors.New("upload not started")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrIncompleteChunkSet = errors.New("chunk set is incomplete")
	ErrChunkTooLarge      = errors.New("chunk exceeds maximum size")
	ErrUploadConflict     = errors.New("an upload is already being processed")
)
