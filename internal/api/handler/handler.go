package handler

import (
	"vidmatch/backend/internal/storage"
	"vidmatch/backend/internal/videohub"
)

// Handler holds the dependencies shared by the HTTP endpoints.
type Handler struct {
	Hub       *videohub.Hub
	Storage   storage.Storage
	JWTSecret []byte
}

func NewHandler(hub *videohub.Hub, s storage.Storage, jwtSecret string) *Handler {
	return &Handler{Hub: hub, Storage: s, JWTSecret: []byte(jwtSecret)}
}
