package handlers

import (
	"github.com/statuspng/statuspng/internal/checker"
	"github.com/statuspng/statuspng/internal/store"
)

// Handler holds the dependencies shared by the HTTP handlers.
type Handler struct {
	store   store.Store
	checker *checker.Service
}

func NewHandler(st store.Store, ck *checker.Service) *Handler {
	return &Handler{
		store:   st,
		checker: ck,
	}
}
