package endpoints

import (
	"net/http"

	"github.com/teamstore/keeper/pkg/server"
)

func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/health", handleHealth(s)).Methods("GET")
}

func handleHealth(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.DB != nil {
			sqlDB, err := s.DB.DB()
			if err != nil || sqlDB.PingContext(r.Context()) != nil {
				respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
