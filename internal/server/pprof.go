package server

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StartPprofServer serves pprof on its own listener so profiling traffic
// never rides the public port. Keep it bound to localhost or reach it over a
// tunnel. A failed bind is logged and the app keeps running without
// profiling.
func StartPprofServer(addr string, logger *zap.Logger) {
	r := gin.New()
	pprof.Register(r)

	go func() {
		logger.Info("Starting pprof listener", zap.String("addr", addr))
		if err := r.Run(addr); err != nil {
			logger.Error("Pprof listener stopped", zap.Error(err))
		}
	}()
}
