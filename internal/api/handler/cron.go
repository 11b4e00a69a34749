package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-serving-api/pkg/apiErrors"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeDailyStats = "daily-stats"
)

// ManualJob é um agendador que pode ser disparado manualmente
type ManualJob interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	DailyStatsRollupService ManualJob
}

func (s CronJobServices) byType(cronType string) ManualJob {
	switch cronType {
	case CronJobTypeDailyStats:
		return s.DailyStatsRollupService
	default:
		return nil
	}
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")

		job := services.byType(cronType)
		if job == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: daily-stats", nil)
			return
		}

		logrus.WithField("job", cronType).Info("Execução manual de cron job solicitada")

		started := job.TriggerManualSync()
		message := "Cron job iniciada com sucesso"
		if !started {
			message = "Cron job já está em execução"
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": message,
			"type":    cronType,
			"started": started,
		})
	})
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.DailyStatsRollupService != nil {
			status[CronJobTypeDailyStats] = services.DailyStatsRollupService.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	})
}
