package api

import (
	"net/http"

	"github.com/reachly/leadmatch/internal/engine"
)

// Server wires the match engine to the HTTP routes.
type Server struct {
	engine *engine.MatchEngine
}

// NewServer creates the HTTP server around a match engine.
func NewServer(eng *engine.MatchEngine) *Server {
	return &Server{engine: eng}
}

// Handler builds the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /lead/vendor", s.submitVendor)
	mux.HandleFunc("POST /lead/buyer", s.submitBuyer)

	mux.HandleFunc("GET /lead/getdata", s.matchReport)
	mux.HandleFunc("PUT /lead/vendor/{vendorEmail}/match/{buyerEmail}", s.setMatchStatus)

	mux.HandleFunc("GET /lead/vendor/{email}/matches", s.vendorMatches)
	mux.HandleFunc("GET /lead/buyer/{email}/matches", s.buyerMatches)
	mux.HandleFunc("GET /lead/getAllVendors", s.getAllVendors)
	mux.HandleFunc("GET /lead/getAllBuyers", s.getAllBuyers)

	mux.HandleFunc("GET /lead/vendor/{email}", s.getVendor)
	mux.HandleFunc("GET /lead/buyer/{email}", s.getBuyer)
	mux.HandleFunc("PUT /lead/updateVendor/{email}", s.updateVendor)
	mux.HandleFunc("PUT /lead/updateBuyer/{email}", s.updateBuyer)

	mux.HandleFunc("PUT /lead/buyer/services/email/{email}", s.updateBuyerServices)
	mux.HandleFunc("PATCH /lead/buyer/{email}/services/{serviceID}", s.setServiceActive)

	mux.HandleFunc("POST /lead/addLeads/{email}", s.addLeads)
	mux.HandleFunc("GET /lead/leads/{email}", s.getLeads)

	mux.HandleFunc("GET /healthz", s.health)

	return withRequestID(withLogging(mux))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
