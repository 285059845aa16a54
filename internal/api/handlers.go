package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
	"github.com/goodnatureofminers/chainmirror-backend/internal/storage"
)

func (s *Server) getInfo(c echo.Context) error {
	info, err := s.store.Info(c.Request().Context())
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSONBlob(http.StatusOK, info)
}

func (s *Server) getPeers(c echo.Context) error {
	peers, err := s.store.Peers(c.Request().Context())
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSONBlob(http.StatusOK, peers)
}

func (s *Server) getFee(c echo.Context) error {
	return c.JSON(http.StatusOK, s.fee)
}

func (s *Server) getHeight(c echo.Context) error {
	height, networkHeight, err := s.store.Height(c.Request().Context())
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{
		"height":         height,
		"network_height": networkHeight,
	})
}

func (s *Server) getChainStats(c echo.Context) error {
	stats, err := s.store.RecentChainStats(c.Request().Context())
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) getBlock(c echo.Context) error {
	header, err := s.store.Block(c.Request().Context(), c.Param("term"))
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, header)
}

func (s *Server) getLastBlock(c echo.Context) error {
	header, err := s.store.LastBlock(c.Request().Context())
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, header)
}

func (s *Server) getBlockHeaders(c echo.Context) error {
	height, err := strconv.ParseUint(c.Param("height"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"status": "invalid height"})
	}
	headers, err := s.store.BlockHeaders(c.Request().Context(), height)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, headers)
}

func (s *Server) getRawBlock(c echo.Context) error {
	raw, err := s.store.RawBlock(c.Request().Context(), c.Param("term"))
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, raw)
}

func (s *Server) getTransaction(c echo.Context) error {
	details, err := s.store.Transaction(c.Request().Context(), c.Param("hash"))
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

func (s *Server) getRawTransaction(c echo.Context) error {
	blob, err := s.store.RawTransaction(c.Request().Context(), c.Param("hash"))
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"transaction": blob})
}

func (s *Server) getTransactionPool(c echo.Context) error {
	pool, err := s.store.TransactionPool(c.Request().Context())
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, pool)
}

func (s *Server) getRawTransactionPool(c echo.Context) error {
	blobs, err := s.store.RawTransactionPool(c.Request().Context())
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"transactions": blobs})
}

func (s *Server) postSync(c echo.Context) error {
	var req model.RawSyncRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"status": "invalid request"})
	}
	resp, err := s.store.Sync(c.Request().Context(), req)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) postRawSync(c echo.Context) error {
	var req model.RawSyncRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"status": "invalid request"})
	}
	resp, err := s.store.RawSync(c.Request().Context(), req)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) postIndexes(c echo.Context) error {
	var req struct {
		Start uint64 `json:"startHeight"`
		End   uint64 `json:"endHeight"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"status": "invalid request"})
	}
	indexes, err := s.store.Indexes(c.Request().Context(), req.Start, req.End)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"indexes": indexes})
}

func (s *Server) postRandomOutputs(c echo.Context) error {
	var req struct {
		Amounts []uint64 `json:"amounts"`
		Count   uint64   `json:"outs_count"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"status": "invalid request"})
	}
	outs, err := s.store.RandomIndexes(c.Request().Context(), req.Amounts, req.Count)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"outs": outs})
}

func (s *Server) postPoolChanges(c echo.Context) error {
	var req struct {
		TailBlock string   `json:"tailBlockId"`
		Known     []string `json:"knownTxsIds"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"status": "invalid request"})
	}
	changes, err := s.store.TransactionPoolChanges(c.Request().Context(), req.TailBlock, req.Known)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, changes)
}

func (s *Server) postTransactionsStatus(c echo.Context) error {
	var req struct {
		Hashes []string `json:"transactionHashes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"status": "invalid request"})
	}
	status, err := s.store.TransactionsStatus(c.Request().Context(), req.Hashes)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, status)
}

func (s *Server) methodNotAvailable(c echo.Context) error {
	return s.respondErr(c, storage.ErrMethodNotAvailable)
}
