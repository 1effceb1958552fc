package main

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/lasermaze/model"
	"github.com/zucenko/lasermaze/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	log.Printf("Defaulting %s to %s", key, fallback)
	return fallback
}

func main() {
	level, err := log.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatalln(err)
	}
	log.SetLevel(level)

	levels, err := server.LoadLevels(getenv("LEVEL_DIR", "data"))
	if err != nil {
		log.Fatalln(err)
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		for i, l := range levels {
			var b strings.Builder
			if err := server.Format(&b, l); err != nil {
				log.Warnf("level %d: %v", i+1, err)
				continue
			}
			log.Debugf("level %d\n%s", i+1, b.String())
		}
	}

	maxSteps, err := strconv.Atoi(getenv("MAX_STEPS", strconv.Itoa(model.DefaultMaxSteps)))
	if err != nil {
		log.Fatalf("MAX_STEPS: %v", err)
	}

	Server := Server{
		GameServer: server.NewGameServer(levels, model.NewTracer(maxSteps)),
	}
	go Server.GameServer.Loop()
	Server.routes()
	port := getenv("PORT", "8080")
	log.Infof("serving %d levels on :%s", len(levels), port)
	log.Fatalln(http.ListenAndServe(":"+port, Server.router))
}
