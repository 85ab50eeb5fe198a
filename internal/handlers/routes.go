package handlers

import "github.com/go-chi/chi/v5"

// Register вешает обработчики задач на роутер
func (s *TaskHandler) Register(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.GetView)       // GET /tasks
		r.Post("/", s.PostTask)     // POST /tasks
		r.Delete("/", s.ClearTasks) // DELETE /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", s.UpdateTask)    // PUT /tasks/{id}
			r.Delete("/", s.DeleteTask) // DELETE /tasks/{id}

			r.Post("/complete", s.CompleteTask) // POST /tasks/{id}/complete
			r.Get("/notes", s.GetNotes)         // GET /tasks/{id}/notes
			r.Put("/notes", s.SetNotes)         // PUT /tasks/{id}/notes
		})
	})

	r.Get("/health", s.HealthCheck)
}
