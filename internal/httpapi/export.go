package httpapi

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/erauner12/catalogview/internal/export"
	"github.com/rs/zerolog/log"
)

// ExportCSV handles GET /v1/export.csv. The whole working set is exported,
// with a BOM unless bom=false.
func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	bom := true
	if raw := r.URL.Query().Get("bom"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "bom must be a boolean")
			return
		}
		bom = v
	}

	var buf bytes.Buffer
	n, err := s.Svc.Export(&buf, export.Options{BOM: bom})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	name := export.FileName(time.Now())
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("X-Export-Count", strconv.Itoa(n))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("failed to write export")
		return
	}

	log.Ctx(r.Context()).Info().Int("records", n).Str("file", name).Msg("products exported")
}
