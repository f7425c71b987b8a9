package worker

import (
	"context"
	"errors"
	"time"

	"calendarApp/internal/client"
	"calendarApp/internal/logger"

	"go.uber.org/zap"
)

const defaultInterval = 30 * time.Second

type Prober interface {
	Health(ctx context.Context) error
}

type StateSetter interface {
	State() client.State
	SetState(state client.State)
}

// ConnectivityWorker периодически опрашивает /health и переключает
// хранилище клиента между online и offline
type ConnectivityWorker struct {
	probe    Prober
	store    StateSetter
	interval time.Duration
	timeout  time.Duration
}

func NewConnectivityWorker(probe Prober, store StateSetter, interval *time.Duration) *ConnectivityWorker {
	intervalToSet := defaultInterval
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}

	return &ConnectivityWorker{
		probe:    probe,
		store:    store,
		interval: intervalToSet,
		timeout:  client.DefaultTimeout,
	}
}

func (w *ConnectivityWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Проверка соединения останавливается")
			return
		}
	}
}

// Check один опрос; ошибка отмены контекста состояние не меняет
func (w *ConnectivityWorker) Check(ctx context.Context) client.State {
	start := time.Now()

	probeCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	err := w.probe.Health(probeCtx)
	if err != nil && ctx.Err() != nil {
		return w.store.State()
	}

	state := client.StateOnline
	if err != nil {
		state = client.StateOffline
		if !errors.Is(err, client.ErrUnavailable) {
			// API отвечает, но хранилище за ним не работает
			logger.Warn("Worker: API сообщает о неисправности", zap.Error(err))
		}
	}

	previous := w.store.State()
	w.store.SetState(state)

	if previous != state {
		logger.Info("Worker: Состояние соединения изменилось",
			zap.String("from", previous.String()),
			zap.String("to", state.String()),
			zap.Duration("ms", time.Since(start)))
	}
	return state
}
