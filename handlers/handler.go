package handlers

import (
	"math/rand"
	"time"

	"github.com/uptrace/bun"

	"github.com/rallyhq/rallyapi/config"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	cfg    *config.Config
	JWTKey []byte

	// newRand supplies the random source for race runs; tests swap in a
	// fixed seed to make outcomes reproducible.
	newRand func() *rand.Rand
}

// New creates a Handler with the given database connection and config.
func New(db *bun.DB, cfg *config.Config) *Handler {
	return &Handler{
		db:     db,
		cfg:    cfg,
		JWTKey: cfg.JWTKey(),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}
