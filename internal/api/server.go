// Package api exposes the mirrored node surface over HTTP. Read requests
// are served directly by the storage layer; the collector is not involved.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
	"github.com/goodnatureofminers/chainmirror-backend/internal/storage"
)

// Server hosts the mirror API.
type Server struct {
	echo   *echo.Echo
	store  *storage.DB
	logger *zap.Logger
	fee    model.Fee
}

// NewServer wires the routes over the storage layer.
func NewServer(store *storage.DB, feeAddress string, feeAmount uint64, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:   e,
		store:  store,
		logger: logger.Named("api"),
		fee: model.Fee{
			Address: feeAddress,
			Amount:  feeAmount,
			Status:  "OK",
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo

	e.GET("/info", s.getInfo)
	e.GET("/peers", s.getPeers)
	e.GET("/fee", s.getFee)
	e.GET("/height", s.getHeight)
	e.GET("/chain/stats", s.getChainStats)

	e.GET("/block/last", s.getLastBlock)
	e.GET("/block/headers/:height", s.getBlockHeaders)
	e.GET("/block/header/:term", s.getBlock)
	e.GET("/block/:term", s.getBlock)
	e.GET("/rawblock/:term", s.getRawBlock)

	e.GET("/transaction/pool", s.getTransactionPool)
	e.GET("/rawtransactionpool", s.getRawTransactionPool)
	e.GET("/transaction/:hash", s.getTransaction)
	e.GET("/rawtransaction/:hash", s.getRawTransaction)

	e.POST("/sync", s.postSync)
	e.POST("/rawsync", s.postRawSync)
	e.POST("/indexes", s.postIndexes)
	e.POST("/randomOutputs", s.postRandomOutputs)
	e.POST("/transaction/pool/changes", s.postPoolChanges)
	e.POST("/transaction/status", s.postTransactionsStatus)

	e.POST("/block", s.methodNotAvailable)
	e.POST("/blocktemplate", s.methodNotAvailable)
	e.POST("/transaction", s.methodNotAvailable)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	s.echo.Server.ReadTimeout = 15 * time.Second
	s.echo.Server.ReadHeaderTimeout = 5 * time.Second
	s.echo.Server.WriteTimeout = 30 * time.Second
	s.echo.Server.IdleTimeout = 60 * time.Second

	s.logger.Info("serving mirror API", zap.String("addr", addr))
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) respondErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"status": "not found"})
	case errors.Is(err, storage.ErrMethodNotAvailable):
		return c.JSON(http.StatusNotImplemented, map[string]string{"status": "method not available"})
	default:
		s.logger.Error("request failed",
			zap.String("path", c.Request().URL.Path), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"status": "internal error"})
	}
}
