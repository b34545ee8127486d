package handlers

import (
	"net/http"
	"strconv"

	"cartotaco/auth"
	"cartotaco/favorites"
	"cartotaco/models"
)

// FavoritesListHandler returns the signed-in user's favorite ids.
func FavoritesListHandler(favs *favorites.Store, provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r, provider)
		if !ok {
			return
		}

		ids := favs.Ensure(r.Context(), user.ID)
		list := make([]int64, 0, len(ids))
		for id := range ids {
			list = append(list, id)
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"favorites": list,
			"count":     len(list),
		})
	}
}

// AddFavoriteHandler favorites one establishment; duplicates succeed.
func AddFavoriteHandler(favs *favorites.Store, provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, estID, ok := favoriteArgs(w, r, provider)
		if !ok {
			return
		}
		if err := favs.Add(r.Context(), user.ID, estID); err != nil {
			writeError(w, http.StatusBadGateway, "could not save favorite")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"favorited": true})
	}
}

// RemoveFavoriteHandler unfavorites one establishment.
func RemoveFavoriteHandler(favs *favorites.Store, provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, estID, ok := favoriteArgs(w, r, provider)
		if !ok {
			return
		}
		if err := favs.Remove(r.Context(), user.ID, estID); err != nil {
			writeError(w, http.StatusBadGateway, "could not remove favorite")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"favorited": false})
	}
}

// ToggleFavoriteHandler flips membership and reports the new state.
func ToggleFavoriteHandler(favs *favorites.Store, provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, estID, ok := favoriteArgs(w, r, provider)
		if !ok {
			return
		}
		favorited, err := favs.Toggle(r.Context(), user.ID, estID)
		if err != nil {
			writeError(w, http.StatusBadGateway, "could not update favorite")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"favorited": favorited})
	}
}

func favoriteArgs(w http.ResponseWriter, r *http.Request, provider auth.Provider) (user *models.User, estID int64, ok bool) {
	user, authed := requireUser(w, r, provider)
	if !authed {
		return nil, 0, false
	}
	estID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid establishment id")
		return nil, 0, false
	}
	return user, estID, true
}
