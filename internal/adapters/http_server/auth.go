package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"staybook/internal/app"
	"staybook/internal/domain"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

func (h *Handlers) signUp(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !decode(w, r, &c) {
		return
	}
	sess, err := h.Auth.SignUp(r.Context(), c.Email, c.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handlers) signIn(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !decode(w, r, &c) {
		return
	}
	sess, err := h.Auth.SignIn(r.Context(), c.Email, c.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handlers) signOut(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	if err := h.Auth.SignOut(r.Context(), sess.Token); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	sess.Token = ""
	writeJSON(w, http.StatusOK, sess)
}

// ---- Profile ----

func (h *Handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	p, err := h.Profiles.Get(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) putProfile(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	var u app.ProfileUpdate
	if !decode(w, r, &u) {
		return
	}
	p, err := h.Profiles.Upsert(r.Context(), sess, u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ---- Bookings ----

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	bs, err := h.Bookings.List(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if bs == nil {
		bs = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	var req app.BookingRequest
	if !decode(w, r, &req) {
		return
	}
	b, err := h.Bookings.Create(r.Context(), sess.UserID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handlers) groupedBookings(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	g, err := h.Bookings.Grouped(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *Handlers) bookingStats(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	st, err := h.Bookings.Stats(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	if err := h.Bookings.Cancel(r.Context(), sess.UserID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// bookOffer always answers 200 for a well-formed request; the result body
// carries success or failure.
func (h *Handlers) bookOffer(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	var g domain.GuestInfo
	if !decode(w, r, &g) {
		return
	}
	writeJSON(w, http.StatusOK, h.Bookings.BookOffer(r.Context(), sess.UserID, chi.URLParam(r, "offerId"), g))
}
