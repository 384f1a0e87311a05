package httpapi

import (
	"net/http"
	"strconv"

	"github.com/erauner12/catalogview/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type createResp struct {
	Product catalog.Product `json:"product"`
	View    viewResp        `json:"view"`
}

type updateResp struct {
	Patch   catalog.Patch `json:"patch"`
	Applied bool          `json:"applied"`
	View    viewResp      `json:"view"`
}

// CreateProduct handles POST /v1/products
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.CreateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	res, err := s.Svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResp{Product: res.Product, View: newViewResp(res.View)})
}

// UpdateProduct handles PUT /v1/products/{id}. Only title, price and
// description can change.
func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid product id")
		return
	}

	var in catalog.UpdateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	res, err := s.Svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updateResp{Patch: res.Patch, Applied: res.Applied, View: newViewResp(res.View)})
}

// Reload handles POST /v1/reload by refetching the whole catalog
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	v, err := s.Svc.Load(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newViewResp(v))
}
