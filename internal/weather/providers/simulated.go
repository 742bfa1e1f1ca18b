package providers

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/i474232898/city-weather/internal/weather"
)

// DefaultSimulatedDelay stands in for network latency.
const DefaultSimulatedDelay = 800 * time.Millisecond

// simulatedConditions is the palette the simulator draws from.
var simulatedConditions = []owmCondition{
	{800, "快晴"},
	{801, "晴れ"},
	{802, "曇り"},
	{500, "小雨"},
	{501, "雨"},
	{600, "雪"},
	{741, "霧"},
}

// SimulatedProvider synthesizes random readings after an artificial delay.
type SimulatedProvider struct {
	delay time.Duration
	now   func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulatedProvider creates a simulator. A nil rnd uses a time-seeded source.
func NewSimulatedProvider(delay time.Duration, rnd *rand.Rand) *SimulatedProvider {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &SimulatedProvider{
		delay: delay,
		now:   time.Now,
		rnd:   rnd,
	}
}

func (p *SimulatedProvider) Name() string {
	return "simulated"
}

func (p *SimulatedProvider) Fetch(ctx context.Context, _ weather.CityEntry) (weather.Reading, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return weather.Reading{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return weather.Reading{}, err
	}

	p.mu.Lock()
	cond := simulatedConditions[p.rnd.IntN(len(simulatedConditions))]
	temp := p.rnd.IntN(36) - 5 // -5..30
	humidity := p.rnd.IntN(100)
	wind := p.rnd.IntN(20)
	p.mu.Unlock()

	return weather.Reading{
		ProviderName:  p.Name(),
		Timestamp:     p.now(),
		TemperatureC:  float64(temp),
		HumidityPct:   float64(humidity),
		WindSpeedMS:   float64(wind),
		ConditionCode: cond.code,
		ConditionText: cond.text,
	}, nil
}
