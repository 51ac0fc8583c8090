package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"laily-api/internal/apperr"
	"laily-api/internal/responses"
)

const pingTimeout = 2 * time.Second

// Pinger lo cumple *mongo.Client
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// GET /
func Root(c *gin.Context) {
	responses.JSON(c, http.StatusOK, "laily api is running", nil)
}

// GET /healthz
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if err := db.Ping(ctx, readpref.Primary()); err != nil {
			responses.Error(c, apperr.Internal("database unavailable", err))
			return
		}
		responses.JSON(c, http.StatusOK, "ok", gin.H{"database": "up"})
	}
}
