package client

import (
	"fmt"
	"sort"
	"time"

	"taskboard/internal/models"
)

// Task adalah view-model task di sisi board, dengan nama field dan
// kosakata status kanonik (pending/progress/completed).
type Task struct {
	ID          int
	Title       string
	Description string
	DueDate     *time.Time
	Status      string
}

// wireTask adalah format task di wire API: name/detail/date/status,
// dengan status dalam kosakata lama.
type wireTask struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Detail string     `json:"detail"`
	Date   *time.Time `json:"date,omitempty"`
	Status string     `json:"status"`
}

func fromWire(w wireTask) Task {
	return Task{
		ID:          w.ID,
		Title:       w.Name,
		Description: w.Detail,
		DueDate:     w.Date,
		Status:      models.ToBoard(w.Status),
	}
}

// TaskService membungkus operasi CRUD task terhadap API.
type TaskService struct {
	api *Client
}

func NewTaskService(api *Client) *TaskService {
	return &TaskService{api: api}
}

// List mengambil semua task user, menormalisasi kosakata status,
// lalu mengurutkan berdasarkan due date (tanpa due date paling belakang).
func (t *TaskService) List(s Session) ([]Task, error) {
	var wire []wireTask
	if err := t.api.Do("GET", "/tasks/", s.Token, nil, &wire); err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(wire))
	for _, w := range wire {
		tasks = append(tasks, fromWire(w))
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		switch {
		case tasks[i].DueDate == nil && tasks[j].DueDate == nil:
			return false
		case tasks[i].DueDate == nil:
			return false
		case tasks[j].DueDate == nil:
			return true
		default:
			return tasks[i].DueDate.Before(*tasks[j].DueDate)
		}
	})
	return tasks, nil
}

// Create membuat task baru. Status board diterjemahkan ke kosakata wire.
func (t *TaskService) Create(s Session, task Task) error {
	body := wireTask{
		Name:   task.Title,
		Detail: task.Description,
		Date:   task.DueDate,
		Status: models.ToWire(task.Status),
	}
	return t.api.Do("POST", "/tasks/", s.Token, body, nil)
}

// TaskUpdate: field nil tidak dikirim dan tidak diubah di server.
// Status di sini memakai kosakata board.
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *string
}

// Update memperbarui sebagian field task.
func (t *TaskService) Update(s Session, id int, in TaskUpdate) error {
	body := map[string]interface{}{}
	if in.Title != nil {
		body["name"] = *in.Title
	}
	if in.Description != nil {
		body["detail"] = *in.Description
	}
	if in.DueDate != nil {
		body["date"] = *in.DueDate
	}
	if in.Status != nil {
		body["status"] = models.ToWire(*in.Status)
	}
	return t.api.Do("PUT", fmt.Sprintf("/tasks/%d", id), s.Token, body, nil)
}

// UpdateStatus hanya mengubah status, delegasi ke Update.
func (t *TaskService) UpdateStatus(s Session, id int, status string) error {
	return t.Update(s, id, TaskUpdate{Status: &status})
}

// Delete menghapus task.
func (t *TaskService) Delete(s Session, id int) error {
	return t.api.Do("DELETE", fmt.Sprintf("/tasks/%d", id), s.Token, nil, nil)
}

// Stats adalah agregasi jumlah task per status, dihitung di sisi client
// dari daftar lengkap karena API tidak punya endpoint agregasi.
type Stats struct {
	Pending   int
	Progress  int
	Completed int
	Total     int
}

// Statistics menghitung jumlah task per kolom kanban.
func Statistics(tasks []Task) Stats {
	var st Stats
	for _, task := range tasks {
		switch task.Status {
		case models.BoardStatusProgress:
			st.Progress++
		case models.BoardStatusCompleted:
			st.Completed++
		default:
			st.Pending++
		}
		st.Total++
	}
	return st
}

// StatsFor mengambil daftar task lalu menghitung statistiknya.
func (t *TaskService) StatsFor(s Session) (Stats, error) {
	tasks, err := t.List(s)
	if err != nil {
		return Stats{}, err
	}
	return Statistics(tasks), nil
}
