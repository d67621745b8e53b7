package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
)

func TestListNormalizesAndSorts(t *testing.T) {
	later := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	sooner := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks/", r.URL.Path)
		resp := map[string]interface{}{
			"message": "Tasks fetched successfully",
			"success": true,
			"status":  200,
			"data": []map[string]interface{}{
				{"id": 1, "name": "No due date", "detail": "", "status": "Por Hacer"},
				{"id": 2, "name": "Later", "detail": "", "date": later, "status": "Haciendo"},
				{"id": 3, "name": "Sooner", "detail": "", "date": sooner, "status": "Hecho"},
				{"id": 4, "name": "Legacy status", "detail": "", "status": "in_progress"},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	tasks, err := NewTaskService(New(srv.URL)).List(Session{Token: "tok"})
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	// urut berdasarkan due date, tanpa due date paling belakang
	assert.Equal(t, "Sooner", tasks[0].Title)
	assert.Equal(t, "Later", tasks[1].Title)
	assert.Nil(t, tasks[2].DueDate)
	assert.Nil(t, tasks[3].DueDate)

	// status wire dinormalisasi ke kosakata board
	assert.Equal(t, models.BoardStatusCompleted, tasks[0].Status)
	assert.Equal(t, models.BoardStatusProgress, tasks[1].Status)

	// ejaan lama juga dinormalisasi
	for _, task := range tasks {
		if task.Title == "Legacy status" {
			assert.Equal(t, models.BoardStatusProgress, task.Status)
		}
	}
}

func TestCreateTranslatesToWire(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(201)
		w.Write([]byte(`{"message":"Task created successfully","success":true,"status":201,"data":{"id":1}}`))
	}))
	defer srv.Close()

	err := NewTaskService(New(srv.URL)).Create(Session{Token: "tok"}, Task{
		Title:       "Belanja",
		Description: "Beli kopi",
		Status:      models.BoardStatusProgress,
	})
	require.NoError(t, err)

	// nama field dan status diterjemahkan ke format wire
	assert.Equal(t, "Belanja", received["name"])
	assert.Equal(t, "Beli kopi", received["detail"])
	assert.Equal(t, models.WireStatusDoing, received["status"])
}

func TestUpdateStatusDelegatesToUpdate(t *testing.T) {
	var (
		method   string
		path     string
		received map[string]interface{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"message":"Task updated successfully","success":true,"status":200}`))
	}))
	defer srv.Close()

	err := NewTaskService(New(srv.URL)).UpdateStatus(Session{Token: "tok"}, 5, models.BoardStatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, "PUT", method)
	assert.Equal(t, "/tasks/5", path)
	// hanya status yang dikirim, field lain tidak tersentuh
	assert.Equal(t, map[string]interface{}{"status": models.WireStatusDone}, received)
}

func TestStatistics(t *testing.T) {
	tasks := []Task{
		{Status: models.BoardStatusPending},
		{Status: models.BoardStatusPending},
		{Status: models.BoardStatusProgress},
		{Status: models.BoardStatusCompleted},
		{Status: models.BoardStatusCompleted},
		{Status: models.BoardStatusCompleted},
	}

	st := Statistics(tasks)
	assert.Equal(t, 2, st.Pending)
	assert.Equal(t, 1, st.Progress)
	assert.Equal(t, 3, st.Completed)
	// jumlah per status harus sama dengan total task
	assert.Equal(t, len(tasks), st.Total)
	assert.Equal(t, st.Total, st.Pending+st.Progress+st.Completed)
}

func TestStatisticsEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, Statistics(nil))
}
