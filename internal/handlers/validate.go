package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// id задач начинаются с 1
func parseID(r *http.Request) (int, error) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idParam)
	if err != nil {
		return 0, fmt.Errorf("не удалось получить id: %w", err)
	}
	if id < 1 {
		return 0, fmt.Errorf("неверное значение id: %d", id)
	}
	return id, nil
}
