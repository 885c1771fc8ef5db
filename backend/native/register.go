//go:build !nogpu

package native

import (
	"github.com/gogpu/statetrack"
	"github.com/gogpu/statetrack/backend"
	"github.com/gogpu/statetrack/blit"
	"github.com/gogpu/statetrack/view"
)

func init() {
	backend.Register(backend.BackendNative, func() (statetrack.Backend, error) {
		b, err := Open()
		if err != nil {
			return nil, err
		}
		return b, nil
	})
}

var (
	_ statetrack.Backend = (*Backend)(nil)
	_ view.Binder        = (*Backend)(nil)
	_ blit.RegionCopier  = (*Backend)(nil)
)
