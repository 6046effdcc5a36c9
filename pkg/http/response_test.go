package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, write func(c echo.Context) error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, write(c))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestAppErrorResponseUsesWrappedStatus(t *testing.T) {
	cause := errors.New("snapshot missing")
	err := fmt.Errorf("predict: %w", ServiceUnavailableError("reference data unavailable").WithError(cause))

	rec, body := render(t, func(c echo.Context) error { return AppErrorResponse(c, err) })
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, float64(http.StatusServiceUnavailable), body["status"])

	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	item := data[0].(map[string]interface{})
	assert.Equal(t, "ERR_UNAVAILABLE", item["code"])
	assert.NotContains(t, rec.Body.String(), "snapshot missing")
	assert.True(t, errors.Is(err, cause))
}

func TestAppErrorResponseHidesUnknownErrors(t *testing.T) {
	rec, body := render(t, func(c echo.Context) error { return AppErrorResponse(c, errors.New("db password leaked")) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong", body["data"])
}

func TestNotFoundErrorf(t *testing.T) {
	err := NotFoundErrorf("no %s data for player %s", "pitcher", "445926")
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "no pitcher data for player 445926", err.Error())
}
