package http

import (
	"encoding/json"
	"net/http"

	"debiti/internal/core"
)

// peopleCacheKey folds the list parameters into the cache key so each
// distinct view is cached independently.
func peopleCacheKey(search, sortBy, sortOrder string) string {
	return "people|" + search + "|" + sortBy + "|" + sortOrder
}

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	search := sanitizeInput(r.URL.Query().Get("search"))
	sortBy := r.URL.Query().Get("sort_by")
	sortOrder := r.URL.Query().Get("sort_order")

	key := peopleCacheKey(search, sortBy, sortOrder)
	if people, ok := s.people.Get(key); ok {
		writePeople(w, people)
		return
	}

	people, err := s.ledger.ListPeople(r.Context(), search, sortBy, sortOrder)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.people.Set(key, people)
	writePeople(w, people)
}

func writePeople(w http.ResponseWriter, people []core.Person) {
	out := make([]personJSON, 0, len(people))
	for _, p := range people {
		out = append(out, toPersonJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var payload personJSON
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	created, err := s.ledger.CreatePerson(r.Context(), payload.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.people.Purge()
	writeJSON(w, http.StatusCreated, toPersonJSON(created))
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	person, err := s.ledger.GetPerson(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonJSON(person))
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	var payload personJSON
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	person := payload.toDomain()
	person.ID = r.PathValue("id")
	if err := s.ledger.UpdatePerson(r.Context(), person); err != nil {
		writeError(w, r, err)
		return
	}
	s.people.Purge()
	writeJSON(w, http.StatusOK, toPersonJSON(person))
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeletePerson(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.people.Purge()
	w.WriteHeader(http.StatusNoContent)
}
