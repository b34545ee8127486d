package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cartotaco/geocoding"
)

// GeocodeHandler resolves an address to coordinates via the geocoding
// collaborator. With no API key configured the endpoint degrades to 503
// without affecting the rest of the service.
func GeocodeHandler(client *geocoding.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := strings.TrimSpace(r.URL.Query().Get("address"))
		if address == "" {
			writeError(w, http.StatusBadRequest, "address is required")
			return
		}

		result, err := client.GeocodeAddress(r.Context(), address)
		switch {
		case errors.Is(err, geocoding.ErrDisabled):
			writeError(w, http.StatusServiceUnavailable, "geocoding is not configured")
		case errors.Is(err, geocoding.ErrNotFound):
			writeError(w, http.StatusNotFound, "address not found, please check it and try again")
		case errors.Is(err, geocoding.ErrOutsideServiceArea):
			writeError(w, http.StatusUnprocessableEntity, "address appears to be outside the Tucson area")
		case err != nil:
			writeError(w, http.StatusBadGateway, "failed to geocode address")
		default:
			writeJSON(w, http.StatusOK, result)
		}
	}
}

// ReverseGeocodeHandler resolves coordinates to the nearest address.
func ReverseGeocodeHandler(client *geocoding.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
		if latErr != nil || lonErr != nil {
			writeError(w, http.StatusBadRequest, "lat and lon are required")
			return
		}

		address, err := client.ReverseGeocode(r.Context(), lat, lon)
		switch {
		case errors.Is(err, geocoding.ErrDisabled):
			writeError(w, http.StatusServiceUnavailable, "geocoding is not configured")
		case errors.Is(err, geocoding.ErrNotFound):
			writeError(w, http.StatusNotFound, "no address found for these coordinates")
		case err != nil:
			writeError(w, http.StatusBadGateway, "failed to reverse geocode coordinates")
		default:
			writeJSON(w, http.StatusOK, map[string]string{"address": address})
		}
	}
}
