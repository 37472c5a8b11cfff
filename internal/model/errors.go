package model

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrSlotBusy   = errors.New("slot is busy")
	ErrIncomplete = errors.New("draft is incomplete")
)
