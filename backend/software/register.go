package software

import (
	"github.com/gogpu/statetrack"
	"github.com/gogpu/statetrack/backend"
	"github.com/gogpu/statetrack/blit"
	"github.com/gogpu/statetrack/view"
)

func init() {
	backend.Register(backend.BackendSoftware, func() (statetrack.Backend, error) {
		return New(), nil
	})
}

var (
	_ statetrack.Backend = (*Backend)(nil)
	_ view.Binder        = (*Backend)(nil)
	_ blit.TileEngine    = (*Backend)(nil)
	_ blit.RegionCopier  = (*Backend)(nil)
	_ blit.StateSaver    = (*Backend)(nil)
)
