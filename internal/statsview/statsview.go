// Package statsview serves runtime statistics of the emulator process over
// HTTP on localhost. Underlying functionality is provided by
// "github.com/go-echarts/statsview".
//
// After launch, graphical statistics are viewable at:
//
//	localhost:12600/debug/statsview
//
// And standard Go pprof statistics at:
//
//	localhost:12600/debug/pprof/
package statsview

import (
	"errors"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

const Address = "localhost:12600"
const url = "/debug/statsview"

// Launch starts the stats server on a new goroutine. The returned function
// stops it.
func Launch(logger *log.Logger) (stop func()) {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	mgr := statsview.New()

	go func() {
		if err := mgr.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Stats server failed", log.Err(err))
		}
	}()

	logger.Info("Stats server available", log.String("url", "http://"+Address+url))
	return mgr.Stop
}
