package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/city-weather/internal/session"
	"github.com/i474232898/city-weather/internal/store"
	"github.com/i474232898/city-weather/internal/weather"
)

func newTestApp(t *testing.T, provider weather.Provider) *fiber.App {
	t.Helper()

	app := NewApp(nil)
	svc := session.NewService(store.NewSessionStore(time.Hour, nil), provider, nil, session.ModeManual, nil)
	RegisterRoutes(app, svc, session.NewBus(nil))
	return app
}

// serve runs app on a loopback listener and returns its base URL.
func serve(t *testing.T, app *fiber.App) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String()
}

func clearSky() weather.Provider {
	return weather.ProviderFunc(func(ctx context.Context, city weather.CityEntry) (weather.Reading, error) {
		return weather.Reading{ConditionCode: 800, ConditionText: "clear sky", TemperatureC: 24.6, HumidityPct: 30, WindSpeedMS: 2}, nil
	})
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func decodeView(t *testing.T, data []byte) session.View {
	t.Helper()
	var v session.View
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func createSession(t *testing.T, app *fiber.App, body string) session.View {
	t.Helper()
	resp, data := do(t, app, http.MethodPost, "/api/v1/sessions", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	return decodeView(t, data)
}

func TestListCities(t *testing.T) {
	app := newTestApp(t, clearSky())

	resp, data := do(t, app, http.MethodGet, "/api/v1/cities", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cities []weather.CityEntry
	require.NoError(t, json.Unmarshal(data, &cities))
	require.Len(t, cities, 11)
	assert.Equal(t, "東京", cities[0].DisplayName)
}

func TestConditionLookup(t *testing.T) {
	app := newTestApp(t, clearSky())

	resp, data := do(t, app, http.MethodGet, "/api/v1/conditions/615", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "snow", body["band"])
	assert.Equal(t, "❄️", body["icon"])
	assert.Equal(t, "bg-blue-50", body["background"])

	resp, _ = do(t, app, http.MethodGet, "/api/v1/conditions/sunny", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateSessionValidatesMode(t *testing.T) {
	app := newTestApp(t, clearSky())

	resp, _ := do(t, app, http.MethodPost, "/api/v1/sessions", `{"mode":"eager"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	v := createSession(t, app, `{"mode":"auto"}`)
	assert.Equal(t, session.ModeAuto, v.Mode)

	v = createSession(t, app, "")
	assert.Equal(t, session.ModeManual, v.Mode)
	assert.Equal(t, session.HintSelectCity, v.Hint)
	assert.NotEmpty(t, v.SessionID)
}

func TestSelectAndFetchFlow(t *testing.T) {
	app := newTestApp(t, clearSky())
	v := createSession(t, app, "")
	base := "/api/v1/sessions/" + v.SessionID

	resp, data := do(t, app, http.MethodPut, base+"/city", `{"cityId":"tokyo"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	v = decodeView(t, data)
	assert.Equal(t, "tokyo", v.SelectedCityID)
	assert.Equal(t, "東京", v.SelectedCityName)
	assert.Equal(t, session.HintPressFetch, v.Hint)

	resp, data = do(t, app, http.MethodPost, base+"/fetch", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	v = decodeView(t, data)
	require.NotNil(t, v.Weather)
	assert.Equal(t, "東京", v.Weather.CityDisplayName)
	assert.Equal(t, 25, v.Weather.TemperatureCelsius)
	assert.Equal(t, "☀️", v.Weather.Icon)
	assert.Equal(t, "bg-yellow-100", v.Weather.Background)
	assert.False(t, v.Loading)

	resp, data = do(t, app, http.MethodPut, base+"/city", `{"cityId":"atlantis"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	v = decodeView(t, data)
	assert.Equal(t, session.MsgCityNotFound, v.Error)
	assert.NotNil(t, v.Weather, "selection errors keep the shown weather")

	resp, _ = do(t, app, http.MethodPut, base+"/city", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFetchFailureReturnsBadGateway(t *testing.T) {
	app := newTestApp(t, weather.ProviderFunc(func(ctx context.Context, city weather.CityEntry) (weather.Reading, error) {
		return weather.Reading{}, errors.New("upstream returned 500")
	}))
	v := createSession(t, app, "")
	base := "/api/v1/sessions/" + v.SessionID

	do(t, app, http.MethodPut, base+"/city", `{"cityId":"osaka"}`)
	resp, data := do(t, app, http.MethodPost, base+"/fetch", "")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	v = decodeView(t, data)
	assert.Equal(t, session.MsgFetchFailed, v.Error)
	assert.NotContains(t, string(data), "upstream returned 500")
	assert.False(t, v.Loading)
	assert.Nil(t, v.Weather)
}

func TestFetchWithoutSelectionIsNoop(t *testing.T) {
	app := newTestApp(t, clearSky())
	v := createSession(t, app, "")

	resp, data := do(t, app, http.MethodPost, "/api/v1/sessions/"+v.SessionID+"/fetch", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	after := decodeView(t, data)
	assert.Equal(t, v.Version, after.Version)
	assert.Nil(t, after.Weather)
}

func TestUnknownAndDeletedSessions(t *testing.T) {
	app := newTestApp(t, clearSky())

	resp, data := do(t, app, http.MethodGet, "/api/v1/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(data), "session not found")

	resp, _ = do(t, app, http.MethodPost, "/api/v1/sessions/missing/fetch", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	v := createSession(t, app, "")
	resp, _ = do(t, app, http.MethodDelete, "/api/v1/sessions/"+v.SessionID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/v1/sessions/"+v.SessionID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodDelete, "/api/v1/sessions/"+v.SessionID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStreamRequiresUpgrade(t *testing.T) {
	app := newTestApp(t, clearSky())
	v := createSession(t, app, "")

	resp, _ := do(t, app, http.MethodGet, "/api/v1/sessions/"+v.SessionID+"/stream", "")
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, clearSky())

	resp, data := do(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"status":"ok"`)
}

func TestSessionsStayReachableAcrossRequests(t *testing.T) {
	sessions := store.NewSessionStore(time.Hour, nil)
	svc := session.NewService(sessions, clearSky(), nil, session.ModeManual, nil)
	app := NewApp(nil)
	RegisterRoutes(app, svc, nil)
	base := serve(t, app)

	var ids []string
	for i := 0; i < 8; i++ {
		ids = append(ids, svc.Create("").ID())
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []string
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				resp, err := http.Get(base + "/api/v1/sessions/" + id)
				if err != nil {
					mu.Lock()
					failures = append(failures, err.Error())
					mu.Unlock()
					return
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					mu.Lock()
					failures = append(failures, id+": "+resp.Status)
					mu.Unlock()
				}
			}
		}(id)
	}
	wg.Wait()
	assert.Empty(t, failures)

	for _, id := range ids {
		got, ok := sessions.Get(id)
		require.True(t, ok, "session %s unreachable by its id", id)
		assert.Equal(t, id, got.ID())
	}
	assert.Equal(t, len(ids), sessions.Len())
}
