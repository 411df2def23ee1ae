package handler

import (
	"encoding/json"
	"net/http"
)

// Fragments returned instead of JSON by the item endpoints.
const (
	NotFoundFragment = "<h1>Нет записи с таким номером</h1>"
	UpdatedFragment  = "<h1>Запись обновлена</h1>"
	DeletedFragment  = "<h1>Запись удалена</h1>"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeFragment always answers 200, the not-found fragment included.
func writeFragment(w http.ResponseWriter, fragment string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fragment))
}
