package main

import (
	"database/sql"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"coworkly/db"
)

// Server is a development stand-in for the real booking backend. It serves
// the same REST surface over a local sqlite database so the client can be
// exercised without the production deployment.
type Server struct {
	conn   *sql.DB
	secret []byte
	log    zerolog.Logger
}

func newServer(conn *sql.DB, secret []byte, log zerolog.Logger) *Server {
	return &Server{conn: conn, secret: secret, log: log}
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)

	authed := api.Group("", s.authRequired)
	authed.GET("/auth/me", s.handleMe)
	authed.GET("/locations", s.handleLocations)
	authed.GET("/spaces", s.handleSpaces)
	authed.GET("/spaces/location/:id", s.handleSpacesByLocation)
	authed.GET("/spaces/free", s.handleFreeSpaces)
	authed.POST("/bookings", s.handleCreateBooking)
	authed.GET("/bookings/user/:id", s.handleBookingsForUser)
	authed.GET("/penalties/me", s.handleMyPenalties)

	admin := authed.Group("", s.adminRequired)
	admin.POST("/bookings/:id/confirm", s.handleConfirmBooking)
	admin.POST("/admin/walkin", s.handleWalkIn)
	admin.POST("/admin/reports", s.handleReport)
	admin.GET("/admin/penalties", s.handleListPenalties)
	admin.POST("/admin/penalties", s.handleCreatePenalty)
	admin.DELETE("/admin/penalties/:id", s.handleRevokePenalty)

	return r
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	dbFile := envOr("COWORKLY_STUB_DB", "coworkly_stub.db")
	conn, err := db.InitDB(dbFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", dbFile).Msg("open database")
	}
	defer db.CloseDB(conn)

	if err := ensureStubSchema(conn); err != nil {
		log.Fatal().Err(err).Msg("create schema")
	}
	if err := seedStubData(conn); err != nil {
		log.Fatal().Err(err).Msg("seed data")
	}

	secret := envOr("COWORKLY_STUB_SECRET", "coworkly-dev-secret")
	server := newServer(conn, []byte(secret), log)

	port := envOr("COWORKLY_STUB_PORT", "8080")
	log.Info().Str("port", port).Str("db", dbFile).Msg("stub server listening")
	if err := server.router().Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
