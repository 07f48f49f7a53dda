package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/reachly/leadmatch/internal/match"
	"github.com/reachly/leadmatch/internal/model"
	"github.com/reachly/leadmatch/internal/service"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "expected application/json")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

func (s *Server) submitVendor(w http.ResponseWriter, r *http.Request) {
	var vendor model.Vendor
	if !decodeJSON(w, r, &vendor) {
		return
	}
	if err := s.engine.SubmitVendor(r.Context(), &vendor); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Vendor profile submitted successfully",
		"vendor":  vendor,
	})
}

func (s *Server) submitBuyer(w http.ResponseWriter, r *http.Request) {
	var buyer model.Buyer
	if !decodeJSON(w, r, &buyer) {
		return
	}
	if err := s.engine.SubmitBuyer(r.Context(), &buyer); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Buyer profile submitted successfully",
		"buyer":   buyer,
	})
}

func (s *Server) matchReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.Report(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) setMatchStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status model.MatchStatus `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	outcome, err := s.engine.SetMatchStatus(r.Context(),
		r.PathValue("vendorEmail"), r.PathValue("buyerEmail"), body.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) vendorMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.engine.VendorMatches(r.Context(), r.PathValue("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if matches == nil {
		matches = []match.BuyerMatch{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"matchedBuyers": matches})
}

func (s *Server) buyerMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.engine.BuyerMatches(r.Context(), r.PathValue("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if matches == nil {
		matches = []match.VendorMatch{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"matchedVendors": matches})
}

func (s *Server) getAllVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := s.engine.ListVendors(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"msg":     "Vendors retrieved successfully",
		"vendors": vendors,
	})
}

func (s *Server) getAllBuyers(w http.ResponseWriter, r *http.Request) {
	buyers, err := s.engine.ListBuyers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"msg":    "Buyers retrieved successfully",
		"buyers": buyers,
	})
}

func (s *Server) getVendor(w http.ResponseWriter, r *http.Request) {
	vendor, err := s.engine.GetVendor(r.Context(), r.PathValue("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (s *Server) getBuyer(w http.ResponseWriter, r *http.Request) {
	buyer, err := s.engine.GetBuyer(r.Context(), r.PathValue("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, buyer)
}

func (s *Server) updateVendor(w http.ResponseWriter, r *http.Request) {
	var patch service.VendorPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	vendor, err := s.engine.UpdateVendor(r.Context(), r.PathValue("email"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Vendor updated successfully",
		"vendor":  vendor,
	})
}

func (s *Server) updateBuyer(w http.ResponseWriter, r *http.Request) {
	var patch service.BuyerPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	buyer, err := s.engine.UpdateBuyer(r.Context(), r.PathValue("email"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Buyer updated successfully",
		"buyer":   buyer,
	})
}

func (s *Server) updateBuyerServices(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Services []model.ServiceRequest `json:"services"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	buyer, err := s.engine.UpdateBuyerServices(r.Context(), r.PathValue("email"), body.Services)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Services updated successfully",
		"buyer":   buyer,
	})
}

func (s *Server) setServiceActive(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Active bool `json:"active"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	svc, err := s.engine.SetServiceActive(r.Context(),
		r.PathValue("email"), r.PathValue("serviceID"), body.Active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Service updated successfully",
		"service": svc,
	})
}

func (s *Server) addLeads(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Leads int `json:"leads"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	balance, err := s.engine.AddLeads(r.Context(), r.PathValue("email"), body.Leads)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Leads added successfully",
		"leads":   balance,
	})
}

func (s *Server) getLeads(w http.ResponseWriter, r *http.Request) {
	balance, err := s.engine.GetLeads(r.Context(), r.PathValue("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": balance})
}
