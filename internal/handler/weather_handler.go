package handler

import (
	"math/rand"
	"net/http"
	"strings"
	"sync"

	"github.com/hitoshi/deskmate/internal/model"
	"github.com/hitoshi/deskmate/internal/weather"
)

// WeatherHandler は模擬天気検索のHTTPハンドラー。
// 検索自体は純粋関数で、乱数源だけをハンドラーが保持する。
type WeatherHandler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewWeatherHandler はWeatherHandlerを生成する。
func NewWeatherHandler(rng *rand.Rand) *WeatherHandler {
	return &WeatherHandler{rng: rng}
}

// GetWeather は都市名に対応する気象情報を返す。
// GET /weather?city=<name>
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if strings.TrimSpace(city) == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewCityRequiredError())
		return
	}

	// *rand.Randは並行安全でないため直列化する
	h.mu.Lock()
	report := weather.Lookup(city, h.rng)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, report)
}
