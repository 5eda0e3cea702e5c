package tools

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "net/url"
    "strings"
    "time"
)

const wttrBaseURL = "https://wttr.in"

// WeatherTool reports current conditions via the wttr.in JSON endpoint, which
// needs no API key.
type WeatherTool struct {
    BaseURL string
    client  *http.Client
}

func NewWeatherTool() *WeatherTool {
    return &WeatherTool{
        BaseURL: wttrBaseURL,
        client:  &http.Client{Timeout: 10 * time.Second},
    }
}

func (t *WeatherTool) Name() string { return "weather" }

func (t *WeatherTool) Description() string {
    return "Get current weather information for a specified location"
}

func (t *WeatherTool) Execute(ctx context.Context, input string) (string, error) {
    location := strings.TrimSpace(input)
    if location == "" {
        return "", errors.New("location cannot be empty")
    }

    endpoint := fmt.Sprintf("%s/%s?format=j1", t.BaseURL, url.PathEscape(location))
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
    if err != nil {
        return "", err
    }
    resp, err := t.client.Do(req)
    if err != nil {
        return "", fmt.Errorf("failed to fetch weather data: %w", err)
    }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return "", fmt.Errorf("failed to fetch weather data: status %d", resp.StatusCode)
    }

    var parsed struct {
        CurrentCondition []struct {
            TempC       string `json:"temp_C"`
            TempF       string `json:"temp_F"`
            WeatherDesc []struct {
                Value string `json:"value"`
            } `json:"weatherDesc"`
            Humidity       string `json:"humidity"`
            WindspeedKmph  string `json:"windspeedKmph"`
            Winddir16Point string `json:"winddir16Point"`
            FeelsLikeC     string `json:"FeelsLikeC"`
            FeelsLikeF     string `json:"FeelsLikeF"`
            Visibility     string `json:"visibility"`
            Pressure       string `json:"pressure"`
        } `json:"current_condition"`
    }
    if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
        return "", fmt.Errorf("failed to parse weather data: %w", err)
    }
    if len(parsed.CurrentCondition) == 0 {
        return "", errors.New("failed to parse weather data: no current conditions")
    }

    c := parsed.CurrentCondition[0]
    condition := "N/A"
    if len(c.WeatherDesc) > 0 {
        condition = c.WeatherDesc[0].Value
    }
    report := fmt.Sprintf(`Weather in %s:
Temperature: %s°C (%s°F)
Condition: %s
Feels like: %s°C (%s°F)
Humidity: %s%%
Wind: %s km/h %s
Visibility: %s km
Pressure: %s mb`,
        location, c.TempC, c.TempF, condition, c.FeelsLikeC, c.FeelsLikeF,
        c.Humidity, c.WindspeedKmph, c.Winddir16Point, c.Visibility, c.Pressure)
    return report, nil
}
