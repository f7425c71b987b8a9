package handlers

import "github.com/go-chi/chi/v5"

type Set struct {
	Events   *EventHandler
	Goals    *GoalHandler
	Tasks    *TaskHandler
	Calendar *CalendarHandler
}

// Mount регистрирует маршруты API на переданном роутере (без префикса)
func (s Set) Mount(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", s.Events.ListEvents)  // GET /events
		r.Post("/", s.Events.CreateEvent) // POST /events

		r.Get("/export.ics", s.Calendar.ExportICS) // GET /events/export.ics

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.Events.GetEvent)       // GET /events/{id}
			r.Put("/", s.Events.UpdateEvent)    // PUT /events/{id}
			r.Delete("/", s.Events.DeleteEvent) // DELETE /events/{id}
		})
	})

	r.Route("/goals", func(r chi.Router) {
		r.Get("/", s.Goals.ListGoals)
		r.Post("/", s.Goals.CreateGoal)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.Goals.GetGoal)
			r.Put("/", s.Goals.UpdateGoal)
			r.Delete("/", s.Goals.DeleteGoal)
			r.Get("/tasks", s.Goals.GoalTasks) // GET /goals/{id}/tasks
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.Tasks.ListTasks) // GET /tasks?completed=&goalId=
		r.Post("/", s.Tasks.CreateTask)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.Tasks.GetTask)
			r.Put("/", s.Tasks.UpdateTask)
			r.Delete("/", s.Tasks.DeleteTask)
			r.Patch("/toggle", s.Tasks.ToggleTask) // PATCH /tasks/{id}/toggle
		})
	})

	r.Get("/calendar", s.Calendar.Grid) // GET /calendar?view=&date=
}
