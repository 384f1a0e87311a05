package httpapi

import (
	"net/http"
	"time"

	"github.com/erauner12/catalogview/internal/listview"
	"github.com/erauner12/catalogview/internal/service/catalogservice"
)

// ServerInfo represents the server's capabilities and configuration
type ServerInfo struct {
	APIVersion   string                `json:"apiVersion"`
	Version      string                `json:"version,omitempty"`
	ServerTime   string                `json:"serverTime"`
	Upstream     string                `json:"upstream"`
	Dataset      catalogservice.Status `json:"dataset"`
	SortColumns  []listview.Column     `json:"sortColumns"`
	WindowSize   int                   `json:"pageWindowSize"`
	AuthRequired bool                  `json:"authRequired"`
	RateLimit    *RateLimitInfo        `json:"rateLimit,omitempty"`
}

// Info handles GET /v1/info
// Returns the dataset status and the limits clients should respect
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	info := ServerInfo{
		APIVersion:   "1",
		Version:      s.Version,
		ServerTime:   time.Now().UTC().Format(time.RFC3339Nano),
		Upstream:     s.UpstreamURL,
		Dataset:      s.Svc.Status(),
		SortColumns:  []listview.Column{listview.ColumnTitle, listview.ColumnPrice},
		WindowSize:   listview.WindowSize,
		AuthRequired: s.JWT.HS256Secret != "",
		RateLimit:    &s.RateLimitConfig,
	}

	writeJSON(w, http.StatusOK, info)
}
