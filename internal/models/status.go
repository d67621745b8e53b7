package models

// Status task di wire API. Nilai-nilai ini warisan dari backend lama
// dan tetap dipakai supaya data yang sudah tersimpan tidak rusak.
const (
	WireStatusTodo  = "Por Hacer"
	WireStatusDoing = "Haciendo"
	WireStatusDone  = "Hecho"
)

// Status kanban di sisi board (client). Satu kosakata kanonik,
// semua ejaan lama dinormalisasi ke sini.
const (
	BoardStatusPending   = "pending"
	BoardStatusProgress  = "progress"
	BoardStatusCompleted = "completed"
)

// ValidWireStatus is a function to validate the status of a task
// it will return true if the status is one of the wire vocabulary values
// and false otherwise
func ValidWireStatus(status string) bool {
	switch status {
	case WireStatusTodo, WireStatusDoing, WireStatusDone:
		return true
	default:
		return false
	}
}

func ValidBoardStatus(status string) bool {
	switch status {
	case BoardStatusPending, BoardStatusProgress, BoardStatusCompleted:
		return true
	default:
		return false
	}
}

// ToWire menerjemahkan status board ke kosakata wire.
// Hanya menerima tiga nilai kanonik; nilai lain dianggap pending.
func ToWire(board string) string {
	switch board {
	case BoardStatusProgress:
		return WireStatusDoing
	case BoardStatusCompleted:
		return WireStatusDone
	default:
		return WireStatusTodo
	}
}

// ToBoard menormalisasi status dari wire ke kosakata board.
// Ejaan lama (todo/in_progress/done dan pending/progress/completed)
// juga diterima supaya payload lama tetap bisa dirender.
// Nilai yang tidak dikenal jatuh ke pending, bukan error.
func ToBoard(wire string) string {
	switch wire {
	case WireStatusDoing, "in_progress", "progress", "doing":
		return BoardStatusProgress
	case WireStatusDone, "done", "completed":
		return BoardStatusCompleted
	default:
		return BoardStatusPending
	}
}
