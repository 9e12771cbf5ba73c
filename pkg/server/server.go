package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"serveza.dev/Serveza/pkg/geo"
	"serveza.dev/Serveza/pkg/model"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

func statusFromError(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

func respondJSON(writer http.ResponseWriter, status int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

func respondOK(writer http.ResponseWriter) {
	respondJSON(writer, http.StatusOK, "ok")
}

func respondError(logger *zap.Logger, writer http.ResponseWriter, err error) {
	status := statusFromError(err)

	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	} else {
		logger.Info("request rejected", zap.Int("status", status), zap.Error(err))
	}

	respondJSON(writer, status, map[string]string{"message": err.Error()})
}

func idParam(request *http.Request, name string) (uint, error) {
	raw := chi.URLParam(request, name)

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: no such resource %q", ErrNotFound, raw)
	}

	return uint(id), nil
}

// parsePosition resolves the reference point of a listing request: the
// combined pos="lat,lng" parameter wins over the latitude/longitude scalar
// pair; a half-supplied scalar pair counts as no position at all. Malformed
// values in whichever representation was supplied are an InvalidArgument.
func parsePosition(request *http.Request) (*geo.Point, error) {
	if raw := request.FormValue("pos"); len(raw) > 0 {
		return parsePoint(raw)
	}

	rawLat := request.FormValue("latitude")
	rawLng := request.FormValue("longitude")

	if len(rawLat) == 0 || len(rawLng) == 0 {
		return nil, nil
	}

	latitude, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed latitude %q", ErrInvalidArgument, rawLat)
	}

	longitude, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed longitude %q", ErrInvalidArgument, rawLng)
	}

	return &geo.Point{Latitude: latitude, Longitude: longitude}, nil
}

func parsePoint(raw string) (*geo.Point, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: malformed position %q", ErrInvalidArgument, raw)
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed position %q", ErrInvalidArgument, raw)
	}

	longitude, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed position %q", ErrInvalidArgument, raw)
	}

	return &geo.Point{Latitude: latitude, Longitude: longitude}, nil
}

// parsePrice expects exactly two space-separated tokens, "<amount> <currency-code>".
func parsePrice(raw string) (model.Price, error) {
	tokens := strings.Split(raw, " ")
	if len(tokens) != 2 || len(tokens[0]) == 0 || len(tokens[1]) == 0 {
		return model.Price{}, fmt.Errorf("%w: malformed price %q", ErrInvalidArgument, raw)
	}

	amount, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return model.Price{}, fmt.Errorf("%w: malformed price %q", ErrInvalidArgument, raw)
	}

	return model.Price{Amount: amount, Currency: tokens[1]}, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(raw string) (*time.Time, error) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}

	return nil, fmt.Errorf("%w: malformed date %q", ErrInvalidArgument, raw)
}

func formFloat(request *http.Request, name string) (*float64, error) {
	raw := request.FormValue(name)
	if len(raw) == 0 {
		return nil, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed %s %q", ErrInvalidArgument, name, raw)
	}

	return &value, nil
}

func formInt(request *http.Request, name string) (*int, error) {
	raw := request.FormValue(name)
	if len(raw) == 0 {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed %s %q", ErrInvalidArgument, name, raw)
	}

	return &value, nil
}

func formUint(request *http.Request, name string) (*uint, error) {
	raw := request.FormValue(name)
	if len(raw) == 0 {
		return nil, nil
	}

	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed %s %q", ErrInvalidArgument, name, raw)
	}

	id := uint(value)

	return &id, nil
}

func formBool(request *http.Request, name string) (bool, error) {
	raw := request.FormValue(name)
	if len(raw) == 0 {
		return false, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: malformed %s %q", ErrInvalidArgument, name, raw)
	}

	return value, nil
}

// formUints collects a repeatable parameter, e.g. ?beers=1&beers=2.
func formUints(request *http.Request, name string) ([]uint, error) {
	if err := request.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	values := request.Form[name]
	ids := make([]uint, 0, len(values))

	for _, raw := range values {
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed %s %q", ErrInvalidArgument, name, raw)
		}

		ids = append(ids, uint(value))
	}

	return ids, nil
}
