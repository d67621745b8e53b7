package reminder

import (
	"database/sql"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"taskboard/internal/models"
	ws "taskboard/internal/websocket"
	"taskboard/pkg/logger"
)

// Sweeper memindai task yang mendekati due date dan mengirim event
// task_due lewat hub websocket supaya dashboard bisa menampilkan pengingat.
type Sweeper struct {
	db   *sql.DB
	hub  *ws.Hub
	cron *cron.Cron
}

func New(db *sql.DB, hub *ws.Hub) *Sweeper {
	return &Sweeper{
		db:   db,
		hub:  hub,
		cron: cron.New(),
	}
}

// Start menjadwalkan sweep setiap 10 menit.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("*/10 * * * *", s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep mengambil task yang belum selesai dengan due date dalam 24 jam
// ke depan lalu mem-publish event task_due per task.
func (s *Sweeper) Sweep() {
	now := time.Now()
	rows, err := s.db.Query(
		"SELECT id, user_id, name, date FROM tasks WHERE status <> $1 AND date IS NOT NULL AND date BETWEEN $2 AND $3",
		models.WireStatusDone, now, now.Add(24*time.Hour))
	if err != nil {
		logger.ErrorLogger.Error("Error sweeping due tasks", zap.Error(err))
		return
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			id, userID int
			name       string
			date       time.Time
		)
		if err := rows.Scan(&id, &userID, &name, &date); err != nil {
			logger.ErrorLogger.Error("Error scanning due task", zap.Error(err))
			return
		}
		s.hub.Publish(ws.Event{
			Type:   ws.EventTaskDue,
			TaskID: id,
			UserID: userID,
			Name:   name,
			Date:   &date,
		})
		count++
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating due tasks", zap.Error(err))
		return
	}
	if count > 0 {
		logger.AuditLogger.Info("Due task reminders sent", zap.Int("count", count))
	}
}
