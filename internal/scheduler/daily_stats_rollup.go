package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/repository"
	"github.com/vfg2006/affiliate-serving-api/internal/config"
	"github.com/vfg2006/affiliate-serving-api/pkg/metrics"
)

// DailyStatsRollupConfig representa a configuração do rollup diário
type DailyStatsRollupConfig struct {
	CronSchedule string
	LookbackDays int
	Enabled      bool
}

// DailyStatsRollupService agrega impressões e cliques em daily_stats
type DailyStatsRollupService struct {
	scheduler     *gocron.Scheduler
	config        DailyStatsRollupConfig
	dailyStatRepo repository.DailyStatRepository
	now           func() time.Time

	runMutex         sync.Mutex
	running          bool
	lastStartedAt    time.Time
	lastCompletedAt  time.Time
	lastRowsAffected int64
	wg               sync.WaitGroup
}

func NewDailyStatsRollupService(dailyStatRepo repository.DailyStatRepository, appConfig *config.Config) *DailyStatsRollupService {
	rollupConfig := DailyStatsRollupConfig{
		CronSchedule: appConfig.DailyStatsRollup.CronSchedule,
		LookbackDays: appConfig.DailyStatsRollup.LookbackDays,
		Enabled:      appConfig.DailyStatsRollup.Enabled,
	}
	if rollupConfig.LookbackDays < 1 {
		rollupConfig.LookbackDays = 1
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": rollupConfig.CronSchedule,
		"lookback_days": rollupConfig.LookbackDays,
		"enabled":       rollupConfig.Enabled,
	}).Info("Configuração do rollup diário de estatísticas carregada")

	return &DailyStatsRollupService{
		scheduler:     gocron.NewScheduler(time.UTC),
		config:        rollupConfig,
		dailyStatRepo: dailyStatRepo,
		now:           time.Now,
	}
}

// Start agenda o rollup. O agendador para quando ctx é cancelado.
func (s *DailyStatsRollupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Rollup diário de estatísticas desabilitado por configuração")
		return nil
	}

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.Run(ctx); err != nil {
			logrus.WithError(err).Warn("Rollup diário não executado")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar rollup diário de estatísticas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	logrus.WithField("cron", s.config.CronSchedule).Info("Agendador do rollup diário iniciado")
	return nil
}

// Stop para o agendador e aguarda execuções manuais em andamento
func (s *DailyStatsRollupService) Stop() {
	if s.scheduler.IsRunning() {
		logrus.Info("Parando agendador do rollup diário")
		s.scheduler.Stop()
	}
	s.wg.Wait()
}

// ErrRollupRunning indica que já existe uma execução em andamento
var ErrRollupRunning = fmt.Errorf("rollup diário já em andamento")

// Run recalcula os últimos LookbackDays dias, começando de ontem
func (s *DailyStatsRollupService) Run(ctx context.Context) error {
	s.runMutex.Lock()
	if s.running {
		s.runMutex.Unlock()
		return ErrRollupRunning
	}
	s.running = true
	s.lastStartedAt = s.now()
	s.runMutex.Unlock()

	defer func() {
		s.runMutex.Lock()
		s.running = false
		s.runMutex.Unlock()
	}()

	var total int64
	var failed int

	for _, day := range s.daysToProcess() {
		rows, err := s.dailyStatRepo.RollupDay(ctx, day)
		if err != nil {
			failed++
			logrus.WithError(err).WithField("date", day.Format(time.DateOnly)).
				Error("Erro ao consolidar estatísticas do dia")
			continue
		}
		total += rows
	}

	s.runMutex.Lock()
	s.lastCompletedAt = s.now()
	s.lastRowsAffected = total
	s.runMutex.Unlock()

	if failed > 0 {
		metrics.DailyStatsRollupRunsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("%d dia(s) falharam no rollup", failed)
	}

	metrics.DailyStatsRollupRunsTotal.WithLabelValues("success").Inc()
	logrus.WithFields(logrus.Fields{
		"days": s.config.LookbackDays,
		"rows": total,
	}).Info("Rollup diário de estatísticas concluído")

	return nil
}

// daysToProcess retorna os dias em UTC, do mais antigo para ontem
func (s *DailyStatsRollupService) daysToProcess() []time.Time {
	today := s.now().UTC()
	days := make([]time.Time, 0, s.config.LookbackDays)
	for i := s.config.LookbackDays; i >= 1; i-- {
		d := today.AddDate(0, 0, -i)
		days = append(days, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
	}
	return days
}

// TriggerManualSync dispara o rollup em background
func (s *DailyStatsRollupService) TriggerManualSync() bool {
	s.runMutex.Lock()
	running := s.running
	s.runMutex.Unlock()

	if running {
		logrus.Info("Rollup diário já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando rollup diário manual")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Run(context.Background()); err != nil {
			logrus.WithError(err).Warn("Rollup diário manual terminou com erro")
		}
	}()

	return true
}

// GetStatus retorna o status atual do rollup
func (s *DailyStatsRollupService) GetStatus() map[string]any {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	return map[string]any{
		"enabled":            s.config.Enabled,
		"cron":               s.config.CronSchedule,
		"lookback_days":      s.config.LookbackDays,
		"running":            s.running,
		"last_started_at":    s.lastStartedAt,
		"last_completed_at":  s.lastCompletedAt,
		"last_rows_affected": s.lastRowsAffected,
	}
}
