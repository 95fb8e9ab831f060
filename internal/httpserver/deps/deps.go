package deps

import (
	"time"

	"github.com/genrejinn/genrejinn/internal/logger"
	"github.com/genrejinn/genrejinn/internal/pages"
	"github.com/genrejinn/genrejinn/internal/scheduler"
	"github.com/genrejinn/genrejinn/internal/session"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time     // for testing, defaults to time.Now
	AllowedHosts []string             // Host headers allowed to access the server
	AllowedCIDRS []string             // IPs/CIDRs allowed to access the API
	TrustProxy   bool                 // true if running behind a trusted reverse proxy
	Book         *pages.Book          // the paginated document, immutable
	Sessions     *session.Manager     // reading sessions over the annotation store
	Autosaver    *scheduler.Autosaver // serialization point for saves
}
