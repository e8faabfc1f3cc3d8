package main

import (
	"flag"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/tilepaint/persist"
)

// mapserver is a local stand-in for the map service the editor saves to.
func main() {
	addr := flag.String("addr", ":8000", "listen address")
	secret := flag.String("secret", "", "HS256 secret; empty disables auth")
	maxName := flag.Int("max-name", persist.DefaultMaxNameLen, "map name length cap (0 for none)")
	dir := flag.String("dir", "", "also write stored maps to this directory")
	release := flag.Bool("release", false, "run gin in release mode")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Debug("mapserver: no .env file")
	}
	if *secret == "" {
		*secret = os.Getenv("TILEPAINT_SERVER_SECRET")
	}
	if *release {
		gin.SetMode(gin.ReleaseMode)
	}

	r := newRouter(newStore(*dir), serverOptions{Secret: *secret, MaxNameLen: *maxName})
	logrus.WithFields(logrus.Fields{"addr": *addr, "auth": *secret != ""}).Info("mapserver: listening")
	if err := r.Run(*addr); err != nil {
		logrus.Fatalf("mapserver: %v", err)
	}
}
