// Package worker is the offload topology: it drains raw-block requests from
// a durable queue and persists them through the same storage layer the
// collector uses.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/chainmirror-backend/internal/codec"
	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

const (
	// StreamName is the JetStream work-queue stream carrying raw blocks.
	StreamName = "RAWBLOCKS"

	// Subject is the request subject within the stream.
	Subject = "rawblocks.process"

	durableName = "chainmirror-worker"
	ackWait     = 600 * time.Second
	fetchWait   = 5 * time.Second
)

type (
	// Store is the storage surface a worker needs.
	Store interface {
		SaveRawBlock(ctx context.Context, blk model.Block) (bool, error)
	}
)

// Reply is published to the request's reply subject after a block was
// processed (or found already mirrored).
type Reply struct {
	Hash      string `json:"hash"`
	Height    uint64 `json:"height"`
	TxnCount  int    `json:"txnCount"`
	Duplicate bool   `json:"duplicate"`
}

// Worker consumes raw-block requests one at a time.
type Worker struct {
	conn   *nats.Conn
	store  Store
	logger *zap.Logger
}

// New constructs a Worker over an established NATS connection.
func New(conn *nats.Conn, store Store, logger *zap.Logger) (*Worker, error) {
	if conn == nil || store == nil {
		return nil, errors.New("nats connection and store are required")
	}
	return &Worker{
		conn:   conn,
		store:  store,
		logger: logger.Named("worker"),
	}, nil
}

// Connect dials NATS, retrying a failed first connect and reconnecting up to
// 60 times, 2 s apart.
func Connect(url string, logger *zap.Logger) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("queue disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(*nats.Conn) {
			logger.Info("queue reconnected")
		}),
	)
}

// Run consumes until the context is canceled. The durable pull consumer
// holds a single fetch credit, so a worker never prefetches past the block
// it is processing.
func (w *Worker) Run(ctx context.Context) error {
	js, err := w.conn.JetStream()
	if err != nil {
		return fmt.Errorf("open jetstream: %w", err)
	}

	if _, err = js.AddStream(&nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{Subject},
		Retention: nats.WorkQueuePolicy,
		Storage:   nats.FileStorage,
	}); err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		return fmt.Errorf("ensure stream: %w", err)
	}

	sub, err := js.PullSubscribe(Subject, durableName, nats.AckWait(ackWait))
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	defer func() {
		_ = sub.Unsubscribe()
	}()

	w.logger.Info("worker consuming", zap.String("subject", Subject))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msgs, err := sub.Fetch(1, nats.MaxWait(fetchWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("fetch request: %w", err)
		}

		for _, msg := range msgs {
			w.handle(ctx, msg)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg *nats.Msg) {
	reply, err := w.process(ctx, msg.Data)
	if err != nil {
		w.logger.Warn("processing raw block failed; redelivering", zap.Error(err))
		if nakErr := msg.Nak(); nakErr != nil {
			w.logger.Error("nak failed", zap.Error(nakErr))
		}
		return
	}

	if msg.Reply != "" {
		payload, marshalErr := json.Marshal(reply)
		if marshalErr == nil {
			if respondErr := msg.Respond(payload); respondErr != nil {
				w.logger.Warn("reply failed", zap.Error(respondErr))
			}
		}
	}
	if ackErr := msg.Ack(); ackErr != nil {
		w.logger.Error("ack failed", zap.Error(ackErr))
	}

	w.logger.Info("processed raw block",
		zap.String("hash", reply.Hash),
		zap.Uint64("height", reply.Height),
		zap.Bool("duplicate", reply.Duplicate))
}

func (w *Worker) process(ctx context.Context, payload []byte) (Reply, error) {
	var raw model.RawBlock
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Reply{}, fmt.Errorf("decode request: %w", err)
	}

	blk, err := codec.DecodeBlock(raw)
	if err != nil {
		return Reply{}, fmt.Errorf("decode raw block: %w", err)
	}

	exists, err := w.store.SaveRawBlock(ctx, blk)
	if err != nil {
		return Reply{}, fmt.Errorf("persist raw block: %w", err)
	}

	return Reply{
		Hash:      blk.Hash,
		Height:    blk.Height,
		TxnCount:  len(blk.Transactions),
		Duplicate: exists,
	}, nil
}
