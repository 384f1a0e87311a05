package httpapi

import (
	"net/http"
	"strconv"

	"github.com/erauner12/catalogview/internal/listview"
	"github.com/go-chi/chi/v5"
)

// viewResp is a View plus the status lines a client would render
type viewResp struct {
	listview.View
	Summary       string `json:"summary"`
	FilterMessage string `json:"filterMessage,omitempty"`
}

func newViewResp(v listview.View) viewResp {
	return viewResp{View: v, Summary: v.Page.Summary(), FilterMessage: v.Filter.Message()}
}

type searchReq struct {
	Query string `json:"query"`
}

type sortReq struct {
	Column string `json:"column"`
}

type pageReq struct {
	Page int `json:"page"`
}

type pageSizeReq struct {
	PageSize int `json:"pageSize"`
}

type pageResp struct {
	viewResp
	Changed bool `json:"changed"`
}

// GetView handles GET /v1/view
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newViewResp(s.Svc.View()))
}

// SearchView handles POST /v1/view/search
func (s *Server) SearchView(w http.ResponseWriter, r *http.Request) {
	var req searchReq
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, newViewResp(s.Svc.Search(req.Query)))
}

// SortView handles POST /v1/view/sort. Clicking the active column again flips
// the direction.
func (s *Server) SortView(w http.ResponseWriter, r *http.Request) {
	var req sortReq
	if !decodeJSON(w, r, &req) {
		return
	}
	column, ok := listview.ParseColumn(req.Column)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "column must be one of: title, price")
		return
	}
	writeJSON(w, http.StatusOK, newViewResp(s.Svc.Sort(column)))
}

// PageView handles POST /v1/view/page. Out-of-range pages are not an error;
// the view is returned unchanged with changed=false.
func (s *Server) PageView(w http.ResponseWriter, r *http.Request) {
	var req pageReq
	if !decodeJSON(w, r, &req) {
		return
	}
	v, changed := s.Svc.GoToPage(req.Page)
	writeJSON(w, http.StatusOK, pageResp{viewResp: newViewResp(v), Changed: changed})
}

// PageSizeView handles POST /v1/view/page-size
func (s *Server) PageSizeView(w http.ResponseWriter, r *http.Request) {
	var req pageSizeReq
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := s.Svc.SetPageSize(req.PageSize)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newViewResp(v))
}

// QueryProducts handles GET /v1/products?q=&sort=&order=&page=&pageSize=
// It evaluates a view without touching the shared viewer state.
func (s *Server) QueryProducts(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := listview.Query{Search: params.Get("q")}

	if raw := params.Get("sort"); raw != "" {
		column, ok := listview.ParseColumn(raw)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "sort must be one of: title, price")
			return
		}
		q.Sort = listview.SortSpec{Column: column, Direction: listview.ParseDirection(params.Get("order"))}
	}

	page, ok := parseIntParam(params.Get("page"), 1)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "page must be an integer")
		return
	}
	pageSize, ok := parseIntParam(params.Get("pageSize"), s.Svc.Status().PageSize)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "pageSize must be an integer")
		return
	}
	q.Page = listview.PageSpec{PageSize: pageSize, CurrentPage: page}

	v, err := s.Svc.Query(q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newViewResp(v))
}

// GetProduct handles GET /v1/products/{id} from the local dataset
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid product id")
		return
	}
	p, ok := s.Svc.Find(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
