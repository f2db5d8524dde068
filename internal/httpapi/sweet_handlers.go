package httpapi

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"sweetShop/internal/apperr"
	"sweetShop/internal/inventory"
	"sweetShop/models"
)

// sweetRequest is the body of create and update. Quantity stays a
// json.Number so 5.0 and 5.5 can be told apart before conversion.
type sweetRequest struct {
	Name        *string        `json:"name"`
	Category    *string        `json:"category"`
	Price       *float64       `json:"price"`
	Quantity    *json.Number   `json:"quantity"`
	Description nullableString `json:"description"`
}

// nullableString tells an absent field (Set false) from an explicit null
// (Set true, Value nil).
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

type quantityRequest struct {
	Quantity *json.Number `json:"quantity"`
}

func (s *Server) listSweets(w http.ResponseWriter, r *http.Request) {
	out, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) searchSweets(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.catalog.Search(r.Context(), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func parseFilter(r *http.Request) (models.SweetFilter, error) {
	q := r.URL.Query()
	f := models.SweetFilter{Name: q.Get("name"), Category: q.Get("category")}
	var err error
	if f.MinPrice, err = priceParam(q.Get("minPrice"), "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = priceParam(q.Get("maxPrice"), "maxPrice"); err != nil {
		return f, err
	}
	return f, nil
}

// priceParam treats an empty value as "no bound".
func priceParam(raw, name string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return nil, apperr.Validation(name + " must be a number")
	}
	return &v, nil
}

func (s *Server) getSweet(w http.ResponseWriter, r *http.Request) {
	sw, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sw)
}

func (s *Server) createSweet(w http.ResponseWriter, r *http.Request) {
	var req sweetRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	in := inventory.NewSweet{Price: req.Price, Description: req.Description.Value}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if req.Quantity != nil {
		n, err := inventory.ParseStock(req.Quantity)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		in.Quantity = &n
	}

	sw, err := s.catalog.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sw)
}

func (s *Server) updateSweet(w http.ResponseWriter, r *http.Request) {
	var req sweetRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p := models.SweetPatch{
		Name:             req.Name,
		Category:         req.Category,
		Price:            req.Price,
		Description:      req.Description.Value,
		ClearDescription: req.Description.Set && req.Description.Value == nil,
	}
	if req.Quantity != nil {
		n, err := inventory.ParseStock(req.Quantity)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		p.Quantity = &n
	}

	sw, err := s.catalog.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sw)
}

func (s *Server) deleteSweet(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Sweet deleted successfully"})
}

func (s *Server) purchase(w http.ResponseWriter, r *http.Request) {
	n, ok := s.readQuantity(w, r)
	if !ok {
		return
	}
	rc, err := s.ledger.Purchase(r.Context(), chi.URLParam(r, "id"), n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rc)
}

func (s *Server) restock(w http.ResponseWriter, r *http.Request) {
	n, ok := s.readQuantity(w, r)
	if !ok {
		return
	}
	rc, err := s.ledger.Restock(r.Context(), chi.URLParam(r, "id"), n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rc)
}

func (s *Server) readQuantity(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var req quantityRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return 0, false
	}
	n, err := inventory.ParseQuantity(req.Quantity)
	if err != nil {
		s.writeError(w, r, err)
		return 0, false
	}
	return n, true
}
